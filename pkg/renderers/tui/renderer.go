// Package tui fills a control plan interactively in the terminal and
// emits the resulting submission payload as JSON.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/goliatone/go-genui/pkg/flow"
	"github.com/goliatone/go-genui/pkg/forms"
	"github.com/goliatone/go-genui/pkg/model"
	"github.com/goliatone/go-genui/pkg/render"
)

// Renderer walks the plan's controls in order, prompting for each, and
// produces the same typed payload a submitted HTML form would.
type Renderer struct {
	driver PromptDriver
	out    io.Writer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a Renderer with the survey-backed driver.
func New(opts ...Option) *Renderer {
	r := &Renderer{out: os.Stdout}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	return r
}

// Name implements render.Renderer.
func (r *Renderer) Name() string { return "tui" }

// ContentType implements render.Renderer.
func (r *Renderer) ContentType() string { return "application/json" }

// Render runs the interactive fill for ViewForm. Other states print
// their message and produce no payload.
func (r *Renderer) Render(ctx context.Context, view render.View, _ render.Options) ([]byte, error) {
	if view.State != flow.ViewForm {
		return nil, r.printState(ctx, view)
	}
	if view.Plan == nil {
		return nil, fmt.Errorf("tui: no control plan to fill")
	}

	payload, err := r.Fill(ctx, *view.Plan, view.SessionID)
	if err != nil {
		return nil, err
	}

	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("tui: encode payload: %w", err)
	}
	return encoded, nil
}

// Fill prompts for every control in plan order and returns the typed
// payload.
func (r *Renderer) Fill(ctx context.Context, plan forms.ControlPlan, sessionID string) (model.SubmissionPayload, error) {
	if plan.Title != "" {
		if err := r.driver.Info(ctx, plan.Title); err != nil {
			return nil, err
		}
	}
	if plan.Description != "" {
		if err := r.driver.Info(ctx, plan.Description); err != nil {
			return nil, err
		}
	}

	payload := make(model.SubmissionPayload, len(plan.Controls)+1)
	for _, ctrl := range plan.Controls {
		value, err := r.prompt(ctx, ctrl)
		if err != nil {
			return nil, err
		}
		payload[ctrl.Name] = value
	}
	if sessionID != "" {
		payload[model.SessionKey] = sessionID
	}
	return payload, nil
}

func (r *Renderer) prompt(ctx context.Context, ctrl forms.ControlDescriptor) (any, error) {
	switch ctrl.Widget {
	case forms.WidgetToggle:
		return r.driver.Confirm(ctx, ConfirmConfig{
			Message: ctrl.Label,
			Help:    ctrl.Description,
		})

	case forms.WidgetSelect:
		options := make([]string, 0, len(ctrl.Options))
		for _, option := range ctrl.Options {
			options = append(options, option.Label)
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message: ctrl.Label,
			Options: options,
			Help:    ctrl.Description,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(ctrl.Options) {
			return "", nil
		}
		return ctrl.Options[idx].Value, nil

	case forms.WidgetNumber:
		return r.promptNumber(ctx, ctrl)

	case forms.WidgetPassword:
		return r.promptText(ctx, ctrl, r.driver.Password)

	case forms.WidgetTextarea:
		return r.promptText(ctx, ctrl, func(ctx context.Context, cfg InputConfig) (string, error) {
			return r.driver.TextArea(ctx, TextAreaConfig{
				Message: cfg.Message,
				Help:    cfg.Help,
			})
		})

	default:
		return r.promptText(ctx, ctrl, r.driver.Input)
	}
}

type textPrompt func(ctx context.Context, cfg InputConfig) (string, error)

// promptText collects a string, re-prompting while a required control
// stays empty.
func (r *Renderer) promptText(ctx context.Context, ctrl forms.ControlDescriptor, ask textPrompt) (any, error) {
	cfg := InputConfig{
		Message:     ctrl.Label,
		Help:        ctrl.Description,
		Placeholder: ctrl.Placeholder,
	}
	for {
		value, err := ask(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if ctrl.Required && strings.TrimSpace(value) == "" {
			if err := r.driver.Info(ctx, ctrl.Label+" is required."); err != nil {
				return nil, err
			}
			continue
		}
		return value, nil
	}
}

// promptNumber collects a numeric value: empty yields null, anything
// else must parse.
func (r *Renderer) promptNumber(ctx context.Context, ctrl forms.ControlDescriptor) (any, error) {
	cfg := InputConfig{
		Message:     ctrl.Label,
		Help:        ctrl.Description,
		Placeholder: ctrl.Placeholder,
	}
	for {
		value, err := r.driver.Input(ctx, cfg)
		if err != nil {
			return nil, err
		}
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			if ctrl.Required {
				if err := r.driver.Info(ctx, ctrl.Label+" is required."); err != nil {
					return nil, err
				}
				continue
			}
			return nil, nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			if err := r.driver.Info(ctx, "Please enter a number."); err != nil {
				return nil, err
			}
			continue
		}
		return parsed, nil
	}
}

func (r *Renderer) printState(ctx context.Context, view render.View) error {
	switch view.State {
	case flow.ViewSuccess:
		if view.SuccessTitle != "" {
			if err := r.driver.Info(ctx, view.SuccessTitle); err != nil {
				return err
			}
		}
		if err := r.driver.Info(ctx, "Submitted:"); err != nil {
			return err
		}
		return r.driver.Info(ctx, view.SuccessEcho)
	case flow.ViewError:
		return r.driver.Info(ctx, "Error: "+view.ErrorMessage)
	default:
		return r.driver.Info(ctx, "Loading...")
	}
}
