package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-genui/pkg/flow"
	"github.com/goliatone/go-genui/pkg/genapi"
	"github.com/goliatone/go-genui/pkg/model"
	"github.com/goliatone/go-genui/pkg/render"
	"github.com/goliatone/go-genui/pkg/renderers/vanilla"
	"github.com/goliatone/go-genui/pkg/request"
	"github.com/goliatone/go-genui/pkg/store"
	"github.com/goliatone/go-genui/pkg/uihints"
)

type server struct {
	log      *zap.Logger
	store    *store.Store
	backend  *genapi.Client
	schemas  map[string]model.FormSchema
	hints    *uihints.Store
	renderer *vanilla.Renderer
	registry *render.Registry
	theme    *theme.RendererConfig
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/forms", s.handleCreateForm)
	mux.HandleFunc("GET /api/form-config/{id}", s.handleFormConfig)
	mux.HandleFunc("GET /api/schema", s.handleSchema)
	mux.HandleFunc("POST /api/submit", s.handleAPISubmit)
	mux.HandleFunc("GET /api/submission/{id}", s.handleSubmission)

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /form/{id}", s.handlePage)
	mux.HandleFunc("POST /submit", s.handleSubmitForm)

	return s.withLogging(mux)
}

func (s *server) sweepLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if dropped := s.store.Sweep(); dropped > 0 {
				s.log.Info("swept expired sessions", zap.Int("dropped", dropped))
			}
		}
	}
}

// FormConfig implements request.ConfigLookup over the local session
// store, so short form links resolve without a network hop.
func (s *server) FormConfig(ctx context.Context, sessionID string) (genapi.FormConfig, error) {
	cfg, ok := s.store.Config(sessionID)
	if !ok {
		return genapi.FormConfig{}, &genapi.APIError{Status: http.StatusNotFound, Message: "Form config not found"}
	}
	return genapi.FormConfig{
		SessionID: cfg.SessionID,
		Fields:    cfg.Fields,
		Context:   cfg.Context,
		Schema:    cfg.Schema,
	}, nil
}

// GenerateSchema implements flow.SchemaFetcher. Sessions created from a
// loaded OpenAPI document carry their schema and never reach this; the
// rest proxy to the external generator when one is configured.
func (s *server) GenerateSchema(ctx context.Context, fields []string, formContext string) (model.FormSchema, error) {
	if s.backend != nil {
		return s.backend.GenerateSchema(ctx, fields, formContext)
	}
	return model.FormSchema{}, &genapi.APIError{
		Status:  http.StatusNotImplemented,
		Message: "Schema generation is not configured on this server.",
	}
}

// localSubmitter records submissions in the session store instead of
// forwarding them anywhere.
type localSubmitter struct {
	store *store.Store
}

func (ls localSubmitter) Submit(ctx context.Context, payload model.SubmissionPayload) (genapi.SubmitResult, error) {
	if session, _ := payload[model.SessionKey].(string); session != "" {
		ls.store.PutSubmission(session, payload)
	}
	return genapi.SubmitResult{Message: "Form submitted successfully"}, nil
}

func (s *server) newController() *flow.Controller {
	return flow.New(
		request.NewResolver(s),
		s,
		localSubmitter{store: s.store},
		flow.WithSchemaDecorator(s.hints.Apply),
	)
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

type createFormRequest struct {
	Fields  []string `json:"fields"`
	Context string   `json:"context"`
	// Form names an operation from the loaded OpenAPI document; the
	// session then carries that pre-generated schema.
	Form string `json:"form"`
}

func (s *server) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	var req createFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "Invalid JSON body"})
		return
	}

	cfg := store.FormConfig{Fields: req.Fields, Context: req.Context}
	if req.Form != "" {
		schema, ok := s.schemas[req.Form]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "Unknown form: " + req.Form})
			return
		}
		cfg.Fields = schema.Properties.Names()
		cfg.Schema = &schema
	}
	if len(cfg.Fields) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "At least one field is required"})
		return
	}

	stored := s.store.PutConfig(cfg)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"session_id": stored.SessionID,
		"url":        "/form/" + stored.SessionID,
	})
}

func (s *server) handleFormConfig(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.store.Config(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "Form config not found"})
		return
	}

	resp := map[string]any{
		"success": true,
		"fields":  cfg.Fields,
		"context": cfg.Context,
	}
	if cfg.Schema != nil {
		resp["schema"] = cfg.Schema
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleSchema(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if form := query.Get("form"); form != "" {
		schema, ok := s.schemas[form]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "Unknown form: " + form})
			return
		}
		s.hints.Apply(&schema)
		writeJSON(w, http.StatusOK, schema)
		return
	}

	fields := splitFields(query.Get("fields"))
	if len(fields) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "At least one field is required"})
		return
	}

	schema, err := s.GenerateSchema(r.Context(), fields, query.Get("context"))
	if err != nil {
		status, message := errorParts(err, "Failed to generate schema")
		writeJSON(w, status, map[string]any{"success": false, "error": message})
		return
	}
	s.hints.Apply(&schema)
	writeJSON(w, http.StatusOK, schema)
}

func (s *server) handleAPISubmit(w http.ResponseWriter, r *http.Request) {
	var payload model.SubmissionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "Invalid JSON body"})
		return
	}
	if len(payload) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "Payload is empty"})
		return
	}

	session, _ := payload[model.SessionKey].(string)
	if session == "" {
		session = r.Header.Get("X-Session-ID")
	}
	if session != "" {
		s.store.PutSubmission(session, payload)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    "Form submitted successfully",
		"session_id": session,
		"data":       payload,
	})
}

func (s *server) handleSubmission(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.store.Submission(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "submitted": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"submitted":   true,
		"payload":     sub.Payload,
		"received_at": sub.ReceivedAt.UTC().Format(time.RFC3339),
	})
}

// handlePage serves the form page for both / (query-driven) and
// /form/{id} (short links).
func (s *server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctrl := s.newController()
	state := ctrl.Load(r.Context(), r.URL)

	sessionID := ctrl.Request().SessionID
	if state == flow.ViewForm {
		// Persist the loaded schema under the session so the submit
		// round trip rebuilds the form without another generator call.
		// Query-driven pages get a session minted here; sessions whose
		// stored config already carries the schema are left untouched.
		if existing, ok := s.store.Config(sessionID); !ok || existing.Schema == nil {
			stored := s.store.PutConfig(store.FormConfig{
				SessionID: sessionID,
				Fields:    ctrl.Request().Fields,
				Context:   ctrl.Request().Context,
				Schema:    ctrl.Schema(),
			})
			sessionID = stored.SessionID
		}
	}

	s.renderPage(w, r, ctrl, sessionID)
}

// handleSubmitForm receives the HTML form post, rebuilds the session's
// controller, and runs the single submit attempt.
func (s *server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}

	ctrl := s.newController()
	sessionID := r.PostForm.Get(model.SessionKey)
	if sessionID == "" {
		ctrl.Fail("Your form session has expired. Please reload the page.")
		s.renderPage(w, r, ctrl, "")
		return
	}

	if ctrl.Load(r.Context(), &url.URL{Path: "/form/" + sessionID}) == flow.ViewForm {
		ctrl.Submit(r.Context(), r.PostForm)
	}
	s.renderPage(w, r, ctrl, sessionID)
}

func (s *server) renderPage(w http.ResponseWriter, r *http.Request, ctrl *flow.Controller, sessionID string) {
	view := render.ViewFrom(ctrl)
	if sessionID != "" {
		view.SessionID = sessionID
	}

	var renderer render.Renderer = s.renderer
	if name := r.URL.Query().Get("renderer"); name != "" {
		alt, err := s.registry.Get(name)
		if err != nil {
			s.log.Warn("unknown renderer requested", zap.String("name", name))
		} else {
			renderer = alt
		}
	}

	out, err := renderer.Render(r.Context(), view, render.Options{
		Action: "/submit",
		Theme:  s.theme,
	})
	if err != nil {
		s.log.Error("render failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.Write(out)
}

func (s *server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", recorder.status),
			zap.Duration("duration", time.Since(started)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// errorParts maps a backend error onto an HTTP status and user-safe
// message for the JSON API.
func errorParts(err error, fallback string) (int, string) {
	var apiErr *genapi.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status < 400 {
			status = http.StatusBadGateway
		}
		message := apiErr.Message
		if message == "" {
			message = fallback
		}
		return status, message
	}
	return http.StatusBadGateway, fallback
}

func splitFields(raw string) []string {
	parts := strings.Split(raw, ",")
	fields := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			fields = append(fields, trimmed)
		}
	}
	return fields
}
