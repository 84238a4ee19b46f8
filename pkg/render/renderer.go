// Package render defines the contract renderer adapters implement and a
// registry to look them up by name.
package render

import (
	"context"

	"github.com/goliatone/go-genui/pkg/flow"
	"github.com/goliatone/go-genui/pkg/forms"
)

// View is the renderer input: the active view state and the data that
// state needs. Exactly one of the four states is active; full-page
// renderers emit all four sections and mark the active one visible.
type View struct {
	State flow.ViewState
	// Plan is present once a schema has been loaded.
	Plan *forms.ControlPlan
	// SessionID is carried into the submission when present.
	SessionID string
	// ErrorMessage is the user-facing text of the Error view.
	ErrorMessage string
	// SuccessTitle and SuccessEcho feed the Success view: the original
	// form title and the pretty-printed payload.
	SuccessTitle string
	SuccessEcho  string
}

// ViewFrom snapshots a controller into a renderer View.
func ViewFrom(ctrl *flow.Controller) View {
	view := View{
		State:        ctrl.State(),
		Plan:         ctrl.Plan(),
		SessionID:    ctrl.Request().SessionID,
		ErrorMessage: ctrl.ErrorMessage(),
		SuccessEcho:  ctrl.SuccessEcho(),
	}
	if ctrl.State() == flow.ViewSuccess {
		view.SuccessTitle = ctrl.Title()
	}
	return view
}

// Renderer materializes a view for one target toolkit.
type Renderer interface {
	// Name identifies the renderer in the registry, e.g. "vanilla".
	Name() string
	// ContentType describes the produced bytes, e.g. "text/html".
	ContentType() string
	// Render produces the output for the view.
	Render(ctx context.Context, view View, opts Options) ([]byte, error)
}
