// Package genui generates interactive forms from field lists, stored
// sessions, or OpenAPI documents, and renders them for HTML or terminal
// targets. The root package re-exports the common types and offers
// one-call entry points; the pkg subpackages carry the full API.
package genui

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-genui/pkg/flow"
	"github.com/goliatone/go-genui/pkg/forms"
	"github.com/goliatone/go-genui/pkg/genapi"
	"github.com/goliatone/go-genui/pkg/model"
	"github.com/goliatone/go-genui/pkg/openapi"
	"github.com/goliatone/go-genui/pkg/render"
	"github.com/goliatone/go-genui/pkg/renderers/vanilla"
	"github.com/goliatone/go-genui/pkg/request"
)

// FormSchema describes one renderable form.
type FormSchema = model.FormSchema

// FieldSchema describes a single form property.
type FieldSchema = model.FieldSchema

// UIHint carries per-field widget and placeholder overrides.
type UIHint = model.UIHint

// FormRequest is the resolved description of which form to build.
type FormRequest = model.FormRequest

// ControlPlan is the renderer-agnostic outcome of widget selection.
type ControlPlan = forms.ControlPlan

// ControlDescriptor is one planned control.
type ControlDescriptor = forms.ControlDescriptor

// View is the renderer input snapshot.
type View = render.View

// RenderOptions carries renderer-agnostic settings for one render call.
type RenderOptions = render.Options

// NewClient builds a client for the form backend.
func NewClient(baseURL string, opts ...genapi.Option) (*genapi.Client, error) {
	return genapi.New(baseURL, opts...)
}

// NewController wires a form page controller against a backend client,
// which serves as config lookup, schema fetcher, and submitter at once.
func NewController(client *genapi.Client, opts ...flow.Option) *flow.Controller {
	return flow.New(request.NewResolver(client), client, client, opts...)
}

// Plan runs widget selection over a schema with the default rules.
func Plan(schema FormSchema) ControlPlan {
	return forms.Plan(schema)
}

// GenerateHTML renders a standalone HTML form page for a schema. It is
// the simplest entry point for callers that just want markup.
func GenerateHTML(ctx context.Context, schema FormSchema, opts RenderOptions) ([]byte, error) {
	renderer, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	plan := forms.Plan(schema)
	view := render.View{State: flow.ViewForm, Plan: &plan}
	return renderer.Render(ctx, view, opts)
}

// GenerateHTMLFromOpenAPI loads an OpenAPI document, derives the form
// schema for the named operation, and renders it as HTML.
func GenerateHTMLFromOpenAPI(ctx context.Context, source openapi.Source, operationID string, opts RenderOptions) ([]byte, error) {
	doc, err := openapi.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	schemas, err := openapi.FormSchemas(ctx, doc)
	if err != nil {
		return nil, err
	}
	schema, ok := schemas[operationID]
	if !ok {
		return nil, &UnknownOperationError{OperationID: operationID}
	}
	return GenerateHTML(ctx, schema, opts)
}

// UnknownOperationError reports an operation id absent from the loaded
// document.
type UnknownOperationError struct {
	OperationID string
}

func (e *UnknownOperationError) Error() string {
	return "genui: unknown operation " + e.OperationID
}

// EmbeddedTemplates exposes the built-in vanilla renderer templates so
// callers can reuse or extend them without importing the renderer
// package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.Templates
}
