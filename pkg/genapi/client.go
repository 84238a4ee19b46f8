// Package genapi is the HTTP client for the form backend: session config
// lookup, schema generation, and submission delivery.
package genapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-genui/pkg/model"
)

const defaultTimeout = 30 * time.Second

// APIError carries a server-supplied failure message alongside the HTTP
// status. Callers surface Message to the user when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("genapi: server error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("genapi: server error (%d)", e.Status)
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout bounds each request when the caller's context carries no
// deadline of its own.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// Client talks to the form backend. The zero value is not usable; build
// one with New.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// New constructs a Client for the given base URL, e.g.
// "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("genapi: base URL is required")
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return nil, fmt.Errorf("genapi: invalid base URL %q: %w", baseURL, err)
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// FormConfig is the stored configuration behind a short form link.
type FormConfig struct {
	SessionID string
	Fields    []string
	Context   string
	// Schema is the pre-generated schema attached to the session, nil
	// when the session only names fields.
	Schema *model.FormSchema
}

type formConfigResponse struct {
	Success bool            `json:"success"`
	Fields  []string        `json:"fields"`
	Context string          `json:"context"`
	Schema  json.RawMessage `json:"schema"`
	Error   string          `json:"error"`
}

// FormConfig fetches the configuration stored for a session id.
func (c *Client) FormConfig(ctx context.Context, sessionID string) (FormConfig, error) {
	if sessionID == "" {
		return FormConfig{}, errors.New("genapi: session id is required")
	}

	body, err := c.get(ctx, "/api/form-config/"+url.PathEscape(sessionID))
	if err != nil {
		return FormConfig{}, err
	}

	var resp formConfigResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return FormConfig{}, fmt.Errorf("genapi: decode form config: %w", err)
	}
	if !resp.Success {
		return FormConfig{}, &APIError{Status: http.StatusOK, Message: resp.Error}
	}

	cfg := FormConfig{
		SessionID: sessionID,
		Fields:    resp.Fields,
		Context:   resp.Context,
	}
	if len(resp.Schema) > 0 && string(resp.Schema) != "null" {
		schema, err := model.DecodeSchemaPayload(resp.Schema)
		if err != nil {
			return FormConfig{}, fmt.Errorf("genapi: form config schema: %w", err)
		}
		cfg.Schema = &schema
	}
	return cfg, nil
}

// GenerateSchema asks the backend to produce a schema for the named
// fields. Field names travel as one comma-joined, percent-encoded query
// value.
func (c *Client) GenerateSchema(ctx context.Context, fields []string, formContext string) (model.FormSchema, error) {
	if len(fields) == 0 {
		return model.FormSchema{}, errors.New("genapi: at least one field is required")
	}

	query := url.Values{}
	query.Set("fields", strings.Join(fields, ","))
	if formContext != "" {
		query.Set("context", formContext)
	}

	body, err := c.get(ctx, "/api/schema?"+query.Encode())
	if err != nil {
		return model.FormSchema{}, err
	}

	schema, err := model.DecodeSchemaPayload(body)
	if err != nil {
		return model.FormSchema{}, fmt.Errorf("genapi: schema response: %w", err)
	}
	return schema, nil
}

// SubmitResult is the backend's acknowledgement of a submission.
type SubmitResult struct {
	Message string
	Raw     json.RawMessage
}

type submitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Submit delivers the payload as a single JSON POST. One attempt, no
// retries.
func (c *Client) Submit(ctx context.Context, payload model.SubmissionPayload) (SubmitResult, error) {
	if len(payload) == 0 {
		return SubmitResult{}, errors.New("genapi: payload is empty")
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("genapi: encode payload: %w", err)
	}

	ctx, cancel := c.bound(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/submit", bytes.NewReader(encoded))
	if err != nil {
		return SubmitResult{}, fmt.Errorf("genapi: build submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("genapi: submit: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("genapi: read submit response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return SubmitResult{}, &APIError{Status: res.StatusCode, Message: errorMessage(body)}
	}

	var resp submitResponse
	if err := json.Unmarshal(body, &resp); err == nil && !resp.Success && resp.Error != "" {
		return SubmitResult{}, &APIError{Status: res.StatusCode, Message: resp.Error}
	}
	return SubmitResult{Message: resp.Message, Raw: body}, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("genapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("genapi: fetch %s: %w", path, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("genapi: read response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &APIError{Status: res.StatusCode, Message: errorMessage(body)}
	}
	return body, nil
}

func (c *Client) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// errorMessage pulls the "error" member out of a failure body, returning
// empty when the body is not JSON or carries none.
func errorMessage(body []byte) string {
	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return ""
	}
	return probe.Error
}
