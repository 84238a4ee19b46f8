package uihints

import (
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-genui/pkg/model"
)

func TestLoadFS_JSONAndYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"signup.yaml": {Data: []byte(
			"fields:\n  password:\n    widget: password\n    placeholder: Enter password\n")},
		"hints/feedback.json": {Data: []byte(
			`{"form": "feedback", "fields": {"comment": {"widget": "textarea"}}}`)},
		"defaults.yml": {Data: []byte(
			"form: \"*\"\nfields:\n  email:\n    placeholder: you@example.com\n")},
		"notes.txt": {Data: []byte("ignored")},
	}

	store, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// File stem names the form when the document does not.
	hints := store.Hints("signup")
	if hints["password"].Widget != "password" {
		t.Fatalf("signup overlay missing: %+v", hints)
	}
	// The default overlay reaches every form.
	if hints["email"].Placeholder != "you@example.com" {
		t.Fatalf("default overlay not merged: %+v", hints)
	}

	if store.Hints("feedback")["comment"].Widget != "textarea" {
		t.Fatalf("nested json overlay missing")
	}
}

func TestLoadFS_BadDocument(t *testing.T) {
	fsys := fstest.MapFS{
		"broken.json": {Data: []byte(`{"fields": `)},
	}
	if _, err := LoadFS(fsys); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestStore_ApplyDoesNotClobberSchemaHints(t *testing.T) {
	store := NewStore()
	store.add("signup", map[string]model.UIHint{
		"password": {Widget: "textarea", Placeholder: "overlay placeholder"},
		"ghost":    {Widget: "password"},
	})

	schema := model.FormSchema{
		FormID: "signup",
		Properties: model.NewProperties(
			model.FieldSchema{Name: "password", Type: model.FieldTypeString},
		),
		UIHints: map[string]model.UIHint{
			"password": {Widget: "password"},
		},
	}

	store.Apply(&schema)

	got := schema.UIHints["password"]
	if got.Widget != "password" {
		t.Fatalf("schema-carried widget clobbered: %+v", got)
	}
	if got.Placeholder != "overlay placeholder" {
		t.Fatalf("overlay placeholder not filled in: %+v", got)
	}
	// Hints for undeclared properties never land on the schema.
	if _, ok := schema.UIHints["ghost"]; ok {
		t.Fatalf("hint for undeclared property applied")
	}
}

func TestSanitizeHelpText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "We never share it", "We never share it"},
		{"allowed inline markup", "Use a <strong>strong</strong> password", "Use a <strong>strong</strong> password"},
		{"script stripped", `Hello <script>alert(1)</script>`, "Hello"},
		{"event handlers stripped", `<b onclick="x()">hi</b>`, "<b>hi</b>"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeHelpText(tc.in); got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}
}
