// Package flow drives one form page session: resolve the request, fetch
// the schema, plan the controls, collect the submission, and track which
// of the four views is active.
package flow

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/goliatone/go-genui/pkg/forms"
	"github.com/goliatone/go-genui/pkg/genapi"
	"github.com/goliatone/go-genui/pkg/model"
	"github.com/goliatone/go-genui/pkg/request"
)

// SchemaFetcher produces a FormSchema for the named fields.
// *genapi.Client satisfies it.
type SchemaFetcher interface {
	GenerateSchema(ctx context.Context, fields []string, formContext string) (model.FormSchema, error)
}

// Submitter delivers a submission payload. *genapi.Client satisfies it.
type Submitter interface {
	Submit(ctx context.Context, payload model.SubmissionPayload) (genapi.SubmitResult, error)
}

// SchemaDecorator mutates a fetched schema before planning, e.g. to
// merge operator hint overlays.
type SchemaDecorator func(*model.FormSchema)

// Option configures a Controller.
type Option func(*Controller)

// WithRuleSet replaces the widget-selection rules.
func WithRuleSet(rules *forms.RuleSet) Option {
	return func(c *Controller) {
		if rules != nil {
			c.rules = rules
		}
	}
}

// WithSchemaDecorator appends a decorator applied to every schema before
// planning.
func WithSchemaDecorator(decorate SchemaDecorator) Option {
	return func(c *Controller) {
		if decorate != nil {
			c.decorators = append(c.decorators, decorate)
		}
	}
}

// Controller holds the state of one form page session. It is confined
// to a single goroutine: every transition happens inside Load, Submit,
// FillAgain, or Fail.
type Controller struct {
	resolver   *request.Resolver
	fetcher    SchemaFetcher
	submitter  Submitter
	rules      *forms.RuleSet
	decorators []SchemaDecorator

	state   ViewState
	request model.FormRequest
	schema  *model.FormSchema
	plan    *forms.ControlPlan
	lastErr error
	errMsg  string
	echo    string

	// generation tags the current render cycle. Completions carrying a
	// stale tag are discarded, so an abandoned load can never clobber
	// the state of the cycle that superseded it.
	generation uint64
}

// New builds a Controller in the Loading state.
func New(resolver *request.Resolver, fetcher SchemaFetcher, submitter Submitter, opts ...Option) *Controller {
	c := &Controller{
		resolver:  resolver,
		fetcher:   fetcher,
		submitter: submitter,
		rules:     forms.NewRuleSet(),
		state:     ViewLoading,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// State returns the active view.
func (c *Controller) State() ViewState { return c.state }

// Request returns the resolved form request.
func (c *Controller) Request() model.FormRequest { return c.request }

// Schema returns the active schema, nil before a successful load.
func (c *Controller) Schema() *model.FormSchema { return c.schema }

// Plan returns the active control plan, nil before a successful load.
func (c *Controller) Plan() *forms.ControlPlan { return c.plan }

// ErrorMessage returns the user-facing text of the Error view.
func (c *Controller) ErrorMessage() string { return c.errMsg }

// Err returns the underlying error behind the Error view, nil otherwise.
func (c *Controller) Err() error { return c.lastErr }

// SuccessEcho returns the pretty-printed payload shown on the Success
// view.
func (c *Controller) SuccessEcho() string { return c.echo }

// Title returns the schema title, empty before a successful load.
func (c *Controller) Title() string {
	if c.schema == nil {
		return ""
	}
	return c.schema.Title
}

// Load resolves the page location, obtains a schema (skipping the fetch
// when resolution carried a pre-generated one), and plans the controls.
// It ends in ViewForm on success and ViewError otherwise.
func (c *Controller) Load(ctx context.Context, location *url.URL) ViewState {
	gen := c.begin()

	resolved, err := c.resolver.Resolve(ctx, location)
	if err != nil {
		return c.fail(gen, err, fallbackResolveMessage)
	}

	schema := resolved.Schema
	if schema == nil {
		fetched, err := c.fetcher.GenerateSchema(ctx, resolved.Request.Fields, resolved.Request.Context)
		if err != nil {
			return c.fail(gen, err, fallbackSchemaMessage)
		}
		schema = &fetched
	}
	if err := schema.Validate(); err != nil {
		return c.fail(gen, err, fallbackSchemaMessage)
	}
	for _, decorate := range c.decorators {
		decorate(schema)
	}

	return c.complete(gen, resolved.Request, schema)
}

// LoadSchema installs an already-resolved request and schema, bypassing
// resolution and fetching. Used when the schema comes from a local
// source.
func (c *Controller) LoadSchema(req model.FormRequest, schema model.FormSchema) ViewState {
	gen := c.begin()
	if err := schema.Validate(); err != nil {
		return c.fail(gen, err, fallbackSchemaMessage)
	}
	for _, decorate := range c.decorators {
		decorate(&schema)
	}
	return c.complete(gen, req, &schema)
}

// Submit builds the typed payload from raw form values and delivers it.
// Exactly one attempt: failure lands on the Error view with the form
// state intact, success replaces the form with the echo view.
func (c *Controller) Submit(ctx context.Context, values url.Values) ViewState {
	gen := c.generation
	if c.state != ViewForm || c.plan == nil {
		return c.state
	}

	payload := forms.BuildPayload(*c.plan, values, c.request.SessionID)
	if _, err := c.submitter.Submit(ctx, payload); err != nil {
		return c.fail(gen, err, fallbackSubmitMessage)
	}

	if gen != c.generation {
		return c.state
	}
	c.echo = prettyPayload(payload)
	c.state = ViewSuccess
	return c.state
}

// FillAgain returns from the Success view to the form, re-displaying the
// last schema without any re-fetch.
func (c *Controller) FillAgain() ViewState {
	if c.state != ViewSuccess || c.plan == nil {
		return c.state
	}
	c.generation++
	c.echo = ""
	c.state = ViewForm
	return c.state
}

// Fail forces the Error view with the given message. Used by hosts that
// detect failures outside the controller's own pipeline.
func (c *Controller) Fail(message string) ViewState {
	return c.fail(c.generation, nil, message)
}

func (c *Controller) begin() uint64 {
	c.generation++
	c.state = ViewLoading
	c.schema = nil
	c.plan = nil
	c.lastErr = nil
	c.errMsg = ""
	c.echo = ""
	return c.generation
}

func (c *Controller) complete(gen uint64, req model.FormRequest, schema *model.FormSchema) ViewState {
	if gen != c.generation {
		return c.state
	}
	plan := forms.PlanWith(c.rules, *schema)
	c.request = req
	c.schema = schema
	c.plan = &plan
	c.state = ViewForm
	return c.state
}

func (c *Controller) fail(gen uint64, err error, fallback string) ViewState {
	if gen != c.generation {
		return c.state
	}
	c.lastErr = err
	c.errMsg = userMessage(err, fallback)
	c.state = ViewError
	return c.state
}

// prettyPayload renders the payload echo shown on the Success view.
func prettyPayload(payload model.SubmissionPayload) string {
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return ""
	}
	return string(encoded)
}
