package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// The schema generator wraps its output in an envelope:
//
//	{
//	  "formId": "...", "title": "...", "description": "...",
//	  "schema": {"properties": {...}, "required": [...]},
//	  "uiSchema": {"field": {"ui:widget": "...", "ui:placeholder": "..."}},
//	  "submitButtonText": "..."
//	}
//
// Locally authored schemas use the flat FormSchema encoding instead.
// DecodeSchemaPayload accepts both.
type schemaEnvelope struct {
	FormID      string `json:"formId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Schema      *struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Properties  Properties `json:"properties"`
		Required    []string   `json:"required"`
	} `json:"schema"`
	UISchema         map[string]wireHint `json:"uiSchema"`
	SubmitButtonText string              `json:"submitButtonText"`

	// Flat shape members.
	Properties  *Properties       `json:"properties"`
	Required    []string          `json:"required"`
	UIHints     map[string]UIHint `json:"uiHints"`
	SubmitLabel string            `json:"submitLabel"`
}

type wireHint struct {
	Widget      string `json:"ui:widget"`
	Placeholder string `json:"ui:placeholder"`
}

// DecodeSchemaPayload parses a generator response or a flat schema
// document into a FormSchema, preserving property order.
func DecodeSchemaPayload(raw []byte) (FormSchema, error) {
	if len(raw) == 0 {
		return FormSchema{}, errors.New("model: empty schema payload")
	}

	var envelope schemaEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return FormSchema{}, fmt.Errorf("model: decode schema payload: %w", err)
	}

	switch {
	case envelope.Schema != nil:
		schema := FormSchema{
			FormID:      envelope.FormID,
			Title:       envelope.Title,
			Description: envelope.Description,
			Properties:  envelope.Schema.Properties,
			Required:    envelope.Schema.Required,
			SubmitLabel: envelope.SubmitButtonText,
		}
		if schema.Title == "" {
			schema.Title = envelope.Schema.Title
		}
		if schema.Description == "" {
			schema.Description = envelope.Schema.Description
		}
		if len(envelope.UISchema) > 0 {
			schema.UIHints = make(map[string]UIHint, len(envelope.UISchema))
			for name, hint := range envelope.UISchema {
				schema.UIHints[name] = UIHint{Widget: hint.Widget, Placeholder: hint.Placeholder}
			}
		}
		return schema, schema.Validate()

	case envelope.Properties != nil:
		schema := FormSchema{
			FormID:      envelope.FormID,
			Title:       envelope.Title,
			Description: envelope.Description,
			Properties:  *envelope.Properties,
			Required:    envelope.Required,
			UIHints:     envelope.UIHints,
			SubmitLabel: envelope.SubmitLabel,
		}
		return schema, schema.Validate()

	default:
		return FormSchema{}, errors.New("model: payload does not contain a form schema")
	}
}
