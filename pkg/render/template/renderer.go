// Package template is the seam between renderers and the template
// engine that draws their page chrome.
package template

import "io"

// TemplateRenderer mirrors the github.com/goliatone/go-template engine
// contract. Renderers depend on this interface so tests can substitute
// a stub engine.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}
