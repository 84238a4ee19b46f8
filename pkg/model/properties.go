package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Properties is an ordered collection of field schemas. Iteration order is
// the JSON document order of the source payload, which drives the render
// order of the form. The zero value is ready to use.
type Properties struct {
	names  []string
	fields map[string]FieldSchema
}

// NewProperties builds an ordered collection from the given fields, in
// argument order. Each field must carry its Name.
func NewProperties(fields ...FieldSchema) Properties {
	var p Properties
	for _, field := range fields {
		p.Set(field.Name, field)
	}
	return p
}

// Set adds or replaces the named field. New names append to the order;
// replacing keeps the original position.
func (p *Properties) Set(name string, field FieldSchema) {
	if name == "" {
		return
	}
	field.Name = name
	if p.fields == nil {
		p.fields = make(map[string]FieldSchema)
	}
	if _, exists := p.fields[name]; !exists {
		p.names = append(p.names, name)
	}
	p.fields[name] = field
}

// Get returns the named field and whether it exists.
func (p Properties) Get(name string) (FieldSchema, bool) {
	field, ok := p.fields[name]
	return field, ok
}

// Len returns the number of fields.
func (p Properties) Len() int {
	return len(p.names)
}

// Names returns the field names in document order.
func (p Properties) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Fields returns the field schemas in document order.
func (p Properties) Fields() []FieldSchema {
	out := make([]FieldSchema, 0, len(p.names))
	for _, name := range p.names {
		out = append(out, p.fields[name])
	}
	return out
}

// MarshalJSON encodes the collection as a JSON object preserving document
// order.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range p.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(p.fields[name])
		if err != nil {
			return nil, fmt.Errorf("model: encode property %q: %w", name, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into the collection, recording keys
// in the order they appear in the document.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("model: decode properties: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("model: properties must be a JSON object, got %v", tok)
	}

	p.names = nil
	p.fields = make(map[string]FieldSchema)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("model: decode property name: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("model: unexpected property key token %v", tok)
		}
		var field FieldSchema
		if err := dec.Decode(&field); err != nil {
			return fmt.Errorf("model: decode property %q: %w", name, err)
		}
		p.Set(name, field)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("model: decode properties: %w", err)
	}
	return nil
}
