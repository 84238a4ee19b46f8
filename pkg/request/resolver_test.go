package request

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-genui/pkg/genapi"
	"github.com/goliatone/go-genui/pkg/model"
)

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return parsed
}

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want model.FormRequest
	}{
		{
			name: "fields and context",
			raw:  "http://localhost/?fields=username,email&context=signup",
			want: model.FormRequest{Fields: []string{"username", "email"}, Context: "signup"},
		},
		{
			name: "fields with whitespace and empties",
			raw:  "http://localhost/?fields=+a+,,b,",
			want: model.FormRequest{Fields: []string{"a", "b"}},
		},
		{
			name: "explicit session id",
			raw:  "http://localhost/?fields=name&session_id=s1",
			want: model.FormRequest{Fields: []string{"name"}, SessionID: "s1"},
		},
		{
			name: "short form link",
			raw:  "http://localhost/form/Abc123",
			want: model.FormRequest{SessionID: "Abc123", ShortForm: true},
		},
		{
			name: "short form link trailing slash",
			raw:  "http://localhost/form/abc/",
			want: model.FormRequest{SessionID: "abc", ShortForm: true},
		},
		{
			name: "short form id wins over session_id param",
			raw:  "http://localhost/form/abc?session_id=other",
			want: model.FormRequest{SessionID: "abc", ShortForm: true},
		},
		{
			name: "non alphanumeric id is not a short form",
			raw:  "http://localhost/form/a-b",
			want: model.FormRequest{},
		},
		{
			name: "nothing",
			raw:  "http://localhost/",
			want: model.FormRequest{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(mustParseURL(t, tc.raw))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("request mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

type stubLookup struct {
	cfg   genapi.FormConfig
	err   error
	calls int
}

func (s *stubLookup) FormConfig(_ context.Context, sessionID string) (genapi.FormConfig, error) {
	s.calls++
	if s.err != nil {
		return genapi.FormConfig{}, s.err
	}
	cfg := s.cfg
	cfg.SessionID = sessionID
	return cfg, nil
}

func TestResolver_ShortFormOverwritesQueryParams(t *testing.T) {
	lookup := &stubLookup{cfg: genapi.FormConfig{
		Fields:  []string{"name", "email"},
		Context: "stored context",
	}}
	resolver := NewResolver(lookup)

	resolved, err := resolver.Resolve(context.Background(),
		mustParseURL(t, "http://localhost/form/abc123?fields=ignored&context=ignored"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if diff := cmp.Diff([]string{"name", "email"}, resolved.Request.Fields); diff != "" {
		t.Fatalf("fields not overwritten (-want +got):\n%s", diff)
	}
	if resolved.Request.Context != "stored context" {
		t.Fatalf("context not overwritten: %q", resolved.Request.Context)
	}
	if resolved.Request.SessionID != "abc123" || !resolved.Request.ShortForm {
		t.Fatalf("session not carried: %+v", resolved.Request)
	}
}

func TestResolver_ShortFormCarriesPregeneratedSchema(t *testing.T) {
	schema := model.FormSchema{
		Title:      "Stored",
		Properties: model.NewProperties(model.FieldSchema{Name: "name", Type: model.FieldTypeString}),
	}
	lookup := &stubLookup{cfg: genapi.FormConfig{Fields: []string{"name"}, Schema: &schema}}
	resolver := NewResolver(lookup)

	resolved, err := resolver.Resolve(context.Background(), mustParseURL(t, "http://localhost/form/abc"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Schema == nil || resolved.Schema.Title != "Stored" {
		t.Fatalf("schema not carried: %+v", resolved.Schema)
	}
}

func TestResolver_MissingFieldsSkipsNetwork(t *testing.T) {
	lookup := &stubLookup{}
	resolver := NewResolver(lookup)

	_, err := resolver.Resolve(context.Background(), mustParseURL(t, "http://localhost/"))
	if !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if lookup.calls != 0 {
		t.Fatalf("lookup must not be called, got %d calls", lookup.calls)
	}
}

func TestResolver_LookupFailureWraps(t *testing.T) {
	boom := errors.New("backend down")
	resolver := NewResolver(&stubLookup{err: boom})

	_, err := resolver.Resolve(context.Background(), mustParseURL(t, "http://localhost/form/abc"))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped lookup error, got %v", err)
	}
}

func TestResolver_LookupWithoutFieldsFails(t *testing.T) {
	resolver := NewResolver(&stubLookup{cfg: genapi.FormConfig{Context: "only context"}})

	_, err := resolver.Resolve(context.Background(), mustParseURL(t, "http://localhost/form/abc"))
	if !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestResolver_QueryFieldsWithoutShortForm(t *testing.T) {
	resolver := NewResolver(nil)

	resolved, err := resolver.Resolve(context.Background(),
		mustParseURL(t, "http://localhost/?fields=a,b&session_id=s9"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, resolved.Request.Fields); diff != "" {
		t.Fatalf("fields (-want +got):\n%s", diff)
	}
	if resolved.Request.SessionID != "s9" {
		t.Fatalf("session id: %q", resolved.Request.SessionID)
	}
	if resolved.Schema != nil {
		t.Fatalf("no schema expected")
	}
}
