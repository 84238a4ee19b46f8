package model

import "testing"

func TestFieldSchema_Label(t *testing.T) {
	cases := []struct {
		name  string
		field FieldSchema
		want  string
	}{
		{"title wins", FieldSchema{Name: "email", Title: "Email Address"}, "Email Address"},
		{"name fallback", FieldSchema{Name: "email"}, "email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.field.Label(); got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestFormSchema_Validate(t *testing.T) {
	schema := FormSchema{
		Properties: NewProperties(FieldSchema{Name: "name", Type: FieldTypeString}),
		Required:   []string{"name"},
	}
	if err := schema.Validate(); err != nil {
		t.Fatalf("valid schema rejected: %v", err)
	}

	schema.Required = []string{"ghost"}
	if err := schema.Validate(); err == nil {
		t.Fatalf("expected undeclared required field to fail validation")
	}

	if err := (FormSchema{}).Validate(); err == nil {
		t.Fatalf("expected empty schema to fail validation")
	}
}

func TestFieldType_IsNumeric(t *testing.T) {
	if !FieldTypeInteger.IsNumeric() || !FieldTypeNumber.IsNumeric() {
		t.Fatalf("integer and number must be numeric")
	}
	if FieldTypeString.IsNumeric() || FieldTypeBoolean.IsNumeric() {
		t.Fatalf("string and boolean must not be numeric")
	}
}
