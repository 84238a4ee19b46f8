// Package uihints loads operator-maintained UI hint overlays and
// sanitizes untrusted help text. Overlays supply widget and placeholder
// hints for forms whose schemas carry none.
package uihints

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-genui/pkg/model"
)

// DefaultFormKey applies an overlay document to every form.
const DefaultFormKey = "*"

// document is the on-disk overlay shape. Form defaults to the file stem
// when omitted.
type document struct {
	Form   string                  `json:"form" yaml:"form"`
	Fields map[string]model.UIHint `json:"fields" yaml:"fields"`
}

// Store holds loaded overlays keyed by form id.
type Store struct {
	byForm map[string]map[string]model.UIHint
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{byForm: make(map[string]map[string]model.UIHint)}
}

// LoadFS walks the filesystem and loads every .json, .yaml, and .yml
// document into a Store. Other files are ignored.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := NewStore()
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		ext := strings.ToLower(path.Ext(name))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			return nil
		}

		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("uihints: read %s: %w", name, err)
		}

		var doc document
		if ext == ".json" {
			err = json.Unmarshal(raw, &doc)
		} else {
			err = yaml.Unmarshal(raw, &doc)
		}
		if err != nil {
			return fmt.Errorf("uihints: parse %s: %w", name, err)
		}

		formID := doc.Form
		if formID == "" {
			formID = strings.TrimSuffix(path.Base(name), ext)
		}
		store.add(formID, doc.Fields)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) add(formID string, fields map[string]model.UIHint) {
	if len(fields) == 0 {
		return
	}
	existing, ok := s.byForm[formID]
	if !ok {
		existing = make(map[string]model.UIHint, len(fields))
		s.byForm[formID] = existing
	}
	for name, hint := range fields {
		existing[name] = hint
	}
}

// Hints returns the overlay for a form: the default overlay merged with
// the form-specific one.
func (s *Store) Hints(formID string) map[string]model.UIHint {
	merged := make(map[string]model.UIHint)
	for name, hint := range s.byForm[DefaultFormKey] {
		merged[name] = hint
	}
	if formID != "" {
		for name, hint := range s.byForm[formID] {
			merged[name] = hint
		}
	}
	return merged
}

// Apply merges the overlay into the schema. Hints the schema already
// carries win over overlay hints, member by member.
func (s *Store) Apply(schema *model.FormSchema) {
	if schema == nil {
		return
	}
	overlay := s.Hints(schema.FormID)
	if len(overlay) == 0 {
		return
	}
	if schema.UIHints == nil {
		schema.UIHints = make(map[string]model.UIHint, len(overlay))
	}
	for name, hint := range overlay {
		if _, ok := schema.Properties.Get(name); !ok {
			continue
		}
		current := schema.UIHints[name]
		if current.Widget == "" {
			current.Widget = hint.Widget
		}
		if current.Placeholder == "" {
			current.Placeholder = hint.Placeholder
		}
		schema.UIHints[name] = current
	}
}
