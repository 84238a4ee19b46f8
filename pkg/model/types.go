package model

import (
	"errors"
	"fmt"
)

// FieldType enumerates the JSON-Schema primitive types the form flow
// understands. Unknown types fall through to text rendering.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
)

// IsNumeric reports whether the type renders through the numeric path.
func (t FieldType) IsNumeric() bool {
	return t == FieldTypeInteger || t == FieldTypeNumber
}

// FieldSchema describes a single form property.
type FieldSchema struct {
	// Name is the property key. It is populated from the enclosing
	// Properties container and is unique within a schema.
	Name        string    `json:"-"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Type        FieldType `json:"type,omitempty"`
	Format      string    `json:"format,omitempty"`
	// Enum holds the allowed values in document order. A non-empty enum
	// forces select rendering regardless of Type.
	Enum []string `json:"enum,omitempty"`
}

// Label returns the human-facing name for the field: the title when
// present, the raw property name otherwise.
func (f FieldSchema) Label() string {
	if f.Title != "" {
		return f.Title
	}
	return f.Name
}

// UIHint carries per-field presentation overrides supplied alongside a
// schema. Both members are optional.
type UIHint struct {
	Widget      string `json:"widget,omitempty" yaml:"widget,omitempty"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// IsZero reports whether the hint carries no overrides.
func (h UIHint) IsZero() bool {
	return h.Widget == "" && h.Placeholder == ""
}

// DefaultSubmitLabel is used when a schema does not name its own.
const DefaultSubmitLabel = "Submit"

// FormSchema is the renderable description of one form. Properties keep
// their document order; Required names a subset of them.
type FormSchema struct {
	FormID      string            `json:"formId,omitempty"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Properties  Properties        `json:"properties"`
	Required    []string          `json:"required,omitempty"`
	UIHints     map[string]UIHint `json:"uiHints,omitempty"`
	SubmitLabel string            `json:"submitLabel,omitempty"`
}

// IsRequired reports whether the named property appears in the required
// set.
func (s FormSchema) IsRequired(name string) bool {
	for _, required := range s.Required {
		if required == name {
			return true
		}
	}
	return false
}

// Hint returns the UI hint for the named property, zero when absent.
func (s FormSchema) Hint(name string) UIHint {
	if s.UIHints == nil {
		return UIHint{}
	}
	return s.UIHints[name]
}

// SubmitText returns the submit button label, falling back to
// DefaultSubmitLabel.
func (s FormSchema) SubmitText() string {
	if s.SubmitLabel != "" {
		return s.SubmitLabel
	}
	return DefaultSubmitLabel
}

// Validate checks the structural invariants: at least one property and a
// required set that only names declared properties.
func (s FormSchema) Validate() error {
	if s.Properties.Len() == 0 {
		return errors.New("model: schema has no properties")
	}
	for _, name := range s.Required {
		if _, ok := s.Properties.Get(name); !ok {
			return fmt.Errorf("model: required field %q is not declared in properties", name)
		}
	}
	return nil
}

// FormRequest is the resolved description of which form to build.
type FormRequest struct {
	// Fields lists the requested field names in order. Empty after
	// resolution is a terminal error for the flow.
	Fields []string
	// Context is an optional free-text hint forwarded to the schema
	// generator.
	Context string
	// SessionID correlates the submission with a waiting caller.
	SessionID string
	// ShortForm records that the request came from a /form/{id} link and
	// was completed via a config lookup.
	ShortForm bool
}

// SessionKey is the payload key carrying the session identifier on
// submission.
const SessionKey = "_session_id"

// SubmissionPayload maps field names to their typed values: bool for
// toggles, float64 or nil for numeric fields, string otherwise, plus the
// SessionKey entry when a session is attached.
type SubmissionPayload map[string]any
