// Package vanilla renders form views as a self-contained HTML page: the
// four view sections, dependency-free markup, and optional theming.
package vanilla

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-genui/pkg/flow"
	"github.com/goliatone/go-genui/pkg/model"
	"github.com/goliatone/go-genui/pkg/render"
	"github.com/goliatone/go-genui/pkg/render/template"
	"github.com/goliatone/go-genui/pkg/render/template/gotemplate"
	"github.com/goliatone/go-genui/pkg/uihints"
)

const pageTemplate = "templates/page.tmpl"

// Option configures the renderer.
type Option func(*Renderer)

// WithTemplateRenderer replaces the template engine, e.g. to load page
// chrome from disk instead of the embedded templates.
func WithTemplateRenderer(engine template.TemplateRenderer) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithHelpSanitizer replaces the help-text sanitizer.
func WithHelpSanitizer(sanitize func(string) string) Option {
	return func(r *Renderer) {
		if sanitize != nil {
			r.sanitizeHelp = sanitize
		}
	}
}

// Renderer produces HTML pages. Build with New.
type Renderer struct {
	engine       template.TemplateRenderer
	sanitizeHelp func(string) string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a Renderer backed by the embedded templates.
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{sanitizeHelp: uihints.SanitizeHelpText}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	if r.engine == nil {
		engine, err := gotemplate.New(gotemplate.WithTemplatesFS(Templates))
		if err != nil {
			return nil, fmt.Errorf("vanilla: create template engine: %w", err)
		}
		r.engine = engine
	}
	return r, nil
}

// Name implements render.Renderer.
func (r *Renderer) Name() string { return "vanilla" }

// ContentType implements render.Renderer.
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render draws the full page. All four view sections are emitted and
// the one matching view.State is visible.
func (r *Renderer) Render(ctx context.Context, view render.View, opts render.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := map[string]any{
		"state":         view.State.String(),
		"is_loading":    view.State == flow.ViewLoading,
		"is_form":       view.State == flow.ViewForm,
		"is_success":    view.State == flow.ViewSuccess,
		"is_error":      view.State == flow.ViewError,
		"action":        opts.Action,
		"method":        opts.FormMethod(),
		"error_message": view.ErrorMessage,
		"success_title": view.SuccessTitle,
		"success_echo":  view.SuccessEcho,
		"hidden_fields": hiddenFields(view, opts),
		"again_url":     againURL(view),
		"css_vars":      themeVars(opts),
		"stylesheet":    themeStylesheet(opts),
	}

	if view.Plan != nil {
		plan := *view.Plan
		fields := make([]string, 0, len(plan.Controls))
		for _, ctrl := range plan.Controls {
			fields = append(fields, controlMarkup(ctrl, r.sanitizeHelp))
		}
		data["title"] = plan.Title
		data["description"] = r.sanitizeHelp(plan.Description)
		data["submit_label"] = plan.SubmitLabel
		data["fields_html"] = strings.Join(fields, "\n")
	} else {
		data["title"] = ""
		data["description"] = ""
		data["submit_label"] = model.DefaultSubmitLabel
		data["fields_html"] = ""
	}

	page, err := r.engine.RenderTemplate(pageTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla: render page: %w", err)
	}
	return []byte(page), nil
}

// againURL is where the Success view's fill-again control navigates:
// the session's own form page. Submissions arrive via POST, so the
// current URL is not re-loadable and the control must name an explicit
// target whenever a session exists.
func againURL(view render.View) string {
	if view.SessionID == "" {
		return ""
	}
	return "/form/" + view.SessionID
}

type hiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// hiddenFields collects the hidden inputs: the session marker first,
// then caller-supplied fields in name order.
func hiddenFields(view render.View, opts render.Options) []hiddenField {
	var fields []hiddenField
	if view.SessionID != "" {
		fields = append(fields, hiddenField{Name: model.SessionKey, Value: view.SessionID})
	}
	names := make([]string, 0, len(opts.HiddenFields))
	for name := range opts.HiddenFields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fields = append(fields, hiddenField{Name: name, Value: opts.HiddenFields[name]})
	}
	return fields
}

// themeVars flattens the theme's CSS custom properties into declaration
// lines, sorted for stable output.
func themeVars(opts render.Options) string {
	if opts.Theme == nil || len(opts.Theme.CSSVars) == 0 {
		return ""
	}
	names := make([]string, 0, len(opts.Theme.CSSVars))
	for name := range opts.Theme.CSSVars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(opts.Theme.CSSVars[name])
		b.WriteString(";\n")
	}
	return b.String()
}

func themeStylesheet(opts render.Options) string {
	if opts.Theme == nil || opts.Theme.AssetURL == nil {
		return ""
	}
	return opts.Theme.AssetURL("stylesheet")
}
