package flow

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/goliatone/go-genui/pkg/genapi"
	"github.com/goliatone/go-genui/pkg/model"
	"github.com/goliatone/go-genui/pkg/request"
)

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return parsed
}

func testSchema() model.FormSchema {
	return model.FormSchema{
		Title: "Signup",
		Properties: model.NewProperties(
			model.FieldSchema{Name: "username", Type: model.FieldTypeString},
			model.FieldSchema{Name: "age", Type: model.FieldTypeInteger},
			model.FieldSchema{Name: "subscribed", Type: model.FieldTypeBoolean},
		),
		Required: []string{"username"},
	}
}

type stubFetcher struct {
	schema model.FormSchema
	err    error
	calls  int
	onCall func()
}

func (s *stubFetcher) GenerateSchema(_ context.Context, _ []string, _ string) (model.FormSchema, error) {
	s.calls++
	if s.onCall != nil {
		s.onCall()
	}
	if s.err != nil {
		return model.FormSchema{}, s.err
	}
	return s.schema, nil
}

type stubSubmitter struct {
	err     error
	calls   int
	payload model.SubmissionPayload
}

func (s *stubSubmitter) Submit(_ context.Context, payload model.SubmissionPayload) (genapi.SubmitResult, error) {
	s.calls++
	s.payload = payload
	if s.err != nil {
		return genapi.SubmitResult{}, s.err
	}
	return genapi.SubmitResult{Message: "ok"}, nil
}

type stubLookup struct {
	cfg   genapi.FormConfig
	err   error
	calls int
}

func (s *stubLookup) FormConfig(_ context.Context, _ string) (genapi.FormConfig, error) {
	s.calls++
	return s.cfg, s.err
}

func TestController_HappyPath(t *testing.T) {
	fetcher := &stubFetcher{schema: testSchema()}
	submitter := &stubSubmitter{}
	ctrl := New(request.NewResolver(nil), fetcher, submitter)

	if ctrl.State() != ViewLoading {
		t.Fatalf("initial state: %s", ctrl.State())
	}

	state := ctrl.Load(context.Background(), mustParseURL(t, "http://localhost/?fields=username,age,subscribed&session_id=s1"))
	if state != ViewForm {
		t.Fatalf("after load: %s (%s)", state, ctrl.ErrorMessage())
	}
	if ctrl.Plan() == nil || len(ctrl.Plan().Controls) != 3 {
		t.Fatalf("plan not built: %+v", ctrl.Plan())
	}
	if ctrl.Title() != "Signup" {
		t.Fatalf("title: %q", ctrl.Title())
	}

	values := url.Values{}
	values.Set("username", "ada")
	values.Set("age", "37")
	// toggle left unchecked

	state = ctrl.Submit(context.Background(), values)
	if state != ViewSuccess {
		t.Fatalf("after submit: %s (%s)", state, ctrl.ErrorMessage())
	}
	if submitter.calls != 1 {
		t.Fatalf("submit attempts: %d", submitter.calls)
	}
	if submitter.payload["subscribed"] != false {
		t.Fatalf("unchecked toggle must submit false: %v", submitter.payload)
	}
	if submitter.payload[model.SessionKey] != "s1" {
		t.Fatalf("session id not injected: %v", submitter.payload)
	}

	// The echo is the pretty-printed payload the user just sent.
	var echoed map[string]any
	if err := json.Unmarshal([]byte(ctrl.SuccessEcho()), &echoed); err != nil {
		t.Fatalf("echo is not valid JSON: %v", err)
	}
	if echoed["username"] != "ada" || echoed["age"] != float64(37) {
		t.Fatalf("echo content: %v", echoed)
	}
	if !strings.Contains(ctrl.SuccessEcho(), "\n") {
		t.Fatalf("echo must be pretty-printed")
	}
}

func TestController_FillAgainReusesSchemaWithoutRefetch(t *testing.T) {
	fetcher := &stubFetcher{schema: testSchema()}
	ctrl := New(request.NewResolver(nil), fetcher, &stubSubmitter{})

	ctrl.Load(context.Background(), mustParseURL(t, "http://localhost/?fields=username"))
	ctrl.Submit(context.Background(), url.Values{"username": {"ada"}})
	if ctrl.State() != ViewSuccess {
		t.Fatalf("precondition: %s", ctrl.State())
	}

	state := ctrl.FillAgain()
	if state != ViewForm {
		t.Fatalf("after fill again: %s", state)
	}
	if fetcher.calls != 1 {
		t.Fatalf("fill again must not refetch, calls=%d", fetcher.calls)
	}
	if ctrl.Plan() == nil || ctrl.Title() != "Signup" {
		t.Fatalf("schema lost on fill again")
	}
	if ctrl.SuccessEcho() != "" {
		t.Fatalf("echo must be cleared")
	}
}

func TestController_PregeneratedSchemaSkipsFetch(t *testing.T) {
	schema := testSchema()
	lookup := &stubLookup{cfg: genapi.FormConfig{
		Fields: []string{"username", "age", "subscribed"},
		Schema: &schema,
	}}
	fetcher := &stubFetcher{}
	ctrl := New(request.NewResolver(lookup), fetcher, &stubSubmitter{})

	state := ctrl.Load(context.Background(), mustParseURL(t, "http://localhost/form/abc123"))
	if state != ViewForm {
		t.Fatalf("after load: %s (%s)", state, ctrl.ErrorMessage())
	}
	if fetcher.calls != 0 {
		t.Fatalf("fetcher must be skipped, calls=%d", fetcher.calls)
	}
}

func TestController_MissingFields(t *testing.T) {
	fetcher := &stubFetcher{}
	ctrl := New(request.NewResolver(nil), fetcher, &stubSubmitter{})

	state := ctrl.Load(context.Background(), mustParseURL(t, "http://localhost/"))
	if state != ViewError {
		t.Fatalf("after load: %s", state)
	}
	if !strings.Contains(ctrl.ErrorMessage(), "fields=") {
		t.Fatalf("message must instruct how to supply fields: %q", ctrl.ErrorMessage())
	}
	if fetcher.calls != 0 {
		t.Fatalf("no network call expected, calls=%d", fetcher.calls)
	}
	if !errors.Is(ctrl.Err(), request.ErrMissingFields) {
		t.Fatalf("underlying error: %v", ctrl.Err())
	}
}

func TestController_FetchFailureForwardsServerMessage(t *testing.T) {
	fetcher := &stubFetcher{err: &genapi.APIError{Status: 502, Message: "generator exploded"}}
	ctrl := New(request.NewResolver(nil), fetcher, &stubSubmitter{})

	state := ctrl.Load(context.Background(), mustParseURL(t, "http://localhost/?fields=a"))
	if state != ViewError {
		t.Fatalf("after load: %s", state)
	}
	if ctrl.ErrorMessage() != "generator exploded" {
		t.Fatalf("server message not forwarded: %q", ctrl.ErrorMessage())
	}
	if fetcher.calls != 1 {
		t.Fatalf("exactly one attempt expected, calls=%d", fetcher.calls)
	}
}

func TestController_FetchFailureFallsBackToGenericMessage(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("dial tcp: connection refused")}
	ctrl := New(request.NewResolver(nil), fetcher, &stubSubmitter{})

	ctrl.Load(context.Background(), mustParseURL(t, "http://localhost/?fields=a"))
	if ctrl.ErrorMessage() != "Failed to generate form. Please try again." {
		t.Fatalf("fallback message: %q", ctrl.ErrorMessage())
	}
}

func TestController_SubmitFailure(t *testing.T) {
	fetcher := &stubFetcher{schema: testSchema()}
	submitter := &stubSubmitter{err: &genapi.APIError{Status: 500, Message: "storage full"}}
	ctrl := New(request.NewResolver(nil), fetcher, submitter)

	ctrl.Load(context.Background(), mustParseURL(t, "http://localhost/?fields=username"))
	state := ctrl.Submit(context.Background(), url.Values{"username": {"ada"}})
	if state != ViewError {
		t.Fatalf("after failed submit: %s", state)
	}
	if ctrl.ErrorMessage() != "storage full" {
		t.Fatalf("message: %q", ctrl.ErrorMessage())
	}
	if submitter.calls != 1 {
		t.Fatalf("exactly one attempt expected, calls=%d", submitter.calls)
	}
}

func TestController_SubmitOutsideFormViewIsNoOp(t *testing.T) {
	submitter := &stubSubmitter{}
	ctrl := New(request.NewResolver(nil), &stubFetcher{}, submitter)

	state := ctrl.Submit(context.Background(), url.Values{})
	if state != ViewLoading {
		t.Fatalf("state changed: %s", state)
	}
	if submitter.calls != 0 {
		t.Fatalf("no submit expected")
	}
}

func TestController_StaleLoadIsDiscarded(t *testing.T) {
	// The fetcher simulates a render cycle being superseded mid-flight:
	// while the first load waits on the generator, a second schema is
	// installed directly. The first load's completion must not clobber
	// the newer cycle.
	replacement := model.FormSchema{
		Title:      "Replacement",
		Properties: model.NewProperties(model.FieldSchema{Name: "other", Type: model.FieldTypeString}),
	}

	var ctrl *Controller
	fetcher := &stubFetcher{schema: testSchema()}
	fetcher.onCall = func() {
		ctrl.LoadSchema(model.FormRequest{Fields: []string{"other"}}, replacement)
	}
	ctrl = New(request.NewResolver(nil), fetcher, &stubSubmitter{})

	state := ctrl.Load(context.Background(), mustParseURL(t, "http://localhost/?fields=username"))
	if state != ViewForm {
		t.Fatalf("state: %s", state)
	}
	if ctrl.Title() != "Replacement" {
		t.Fatalf("stale completion clobbered newer cycle: %q", ctrl.Title())
	}
}

func TestController_SchemaDecoratorRuns(t *testing.T) {
	fetcher := &stubFetcher{schema: testSchema()}
	ctrl := New(request.NewResolver(nil), fetcher, &stubSubmitter{},
		WithSchemaDecorator(func(schema *model.FormSchema) {
			if schema.UIHints == nil {
				schema.UIHints = map[string]model.UIHint{}
			}
			schema.UIHints["username"] = model.UIHint{Placeholder: "overlay"}
		}))

	ctrl.Load(context.Background(), mustParseURL(t, "http://localhost/?fields=username"))
	username, ok := ctrl.Plan().Control("username")
	if !ok || username.Placeholder != "overlay" {
		t.Fatalf("decorator not applied: %+v", username)
	}
}
