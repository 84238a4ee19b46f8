// Package request turns a page location into a FormRequest: query
// parameters, short form links, and the session config lookup behind
// them.
package request

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/goliatone/go-genui/pkg/genapi"
	"github.com/goliatone/go-genui/pkg/model"
)

// ErrMissingFields is returned when resolution completes without any
// field names. The message is user-facing and must tell the caller how
// to supply fields.
var ErrMissingFields = errors.New("no fields specified: add ?fields=name,email to the URL, or open a form link like /form/{sessionId}")

// shortFormPattern matches /form/{id} links, id alphanumeric, with an
// optional trailing slash.
var shortFormPattern = regexp.MustCompile(`^/form/([A-Za-z0-9]+)/?$`)

// ConfigLookup resolves a session id into its stored form configuration.
// *genapi.Client satisfies it; the serving process plugs in its local
// store instead.
type ConfigLookup interface {
	FormConfig(ctx context.Context, sessionID string) (genapi.FormConfig, error)
}

// Resolved is the outcome of request resolution.
type Resolved struct {
	Request model.FormRequest
	// Schema is a pre-generated schema attached to the session. When
	// non-nil the schema fetch is skipped.
	Schema *model.FormSchema
}

// Resolver completes form requests, consulting a ConfigLookup for short
// form links.
type Resolver struct {
	lookup ConfigLookup
}

// NewResolver builds a Resolver. A nil lookup disables short form
// resolution; such links then fail with ErrMissingFields unless query
// parameters also name fields.
func NewResolver(lookup ConfigLookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Parse extracts a FormRequest from a page location. It performs no
// network calls: short form links only mark the session id for a later
// lookup.
func Parse(location *url.URL) model.FormRequest {
	if location == nil {
		return model.FormRequest{}
	}

	query := location.Query()
	req := model.FormRequest{
		Fields:    splitFields(query.Get("fields")),
		Context:   query.Get("context"),
		SessionID: query.Get("session_id"),
	}

	if match := shortFormPattern.FindStringSubmatch(location.Path); match != nil {
		req.SessionID = match[1]
		req.ShortForm = true
	}
	return req
}

// Resolve parses the location and, for short form links, fetches the
// stored config. Looked-up fields and context overwrite any query
// parameters. Resolution fails with ErrMissingFields when no fields
// survive; that check happens before any network call when nothing could
// produce fields.
func (r *Resolver) Resolve(ctx context.Context, location *url.URL) (Resolved, error) {
	req := Parse(location)

	if len(req.Fields) == 0 && !(req.ShortForm && r.lookup != nil) {
		return Resolved{}, ErrMissingFields
	}

	var schema *model.FormSchema
	if req.ShortForm && r.lookup != nil {
		cfg, err := r.lookup.FormConfig(ctx, req.SessionID)
		if err != nil {
			return Resolved{}, fmt.Errorf("request: resolve session %q: %w", req.SessionID, err)
		}
		req.Fields = cfg.Fields
		req.Context = cfg.Context
		schema = cfg.Schema
	}

	if len(req.Fields) == 0 {
		return Resolved{}, ErrMissingFields
	}
	return Resolved{Request: req, Schema: schema}, nil
}

// splitFields splits a comma-joined fields value, trimming whitespace
// and dropping empty entries.
func splitFields(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	fields := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			fields = append(fields, trimmed)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
