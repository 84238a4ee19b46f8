package render

import (
	theme "github.com/goliatone/go-theme"
)

// Options carries renderer-agnostic settings for one render call.
type Options struct {
	// Action is the URL the form posts to. Empty means the renderer's
	// default.
	Action string
	// Method is the HTTP method of the form, POST when empty.
	Method string
	// HiddenFields are emitted as hidden inputs inside the form, in
	// addition to the session field derived from the view.
	HiddenFields map[string]string
	// Theme is the resolved theme configuration, nil for unthemed
	// output.
	Theme *theme.RendererConfig
}

// FormMethod returns the effective form method.
func (o Options) FormMethod() string {
	if o.Method != "" {
		return o.Method
	}
	return "POST"
}

// WithHiddenField returns a copy of the options with the field added.
func (o Options) WithHiddenField(name, value string) Options {
	fields := make(map[string]string, len(o.HiddenFields)+1)
	for k, v := range o.HiddenFields {
		fields[k] = v
	}
	fields[name] = value
	o.HiddenFields = fields
	return o
}
