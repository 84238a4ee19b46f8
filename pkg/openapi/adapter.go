package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-genui/pkg/model"
)

// extensionKey is the vendor extension carrying per-field UI hints:
//
//	x-genui: {widget: password, placeholder: "Enter password"}
const extensionKey = "x-genui"

// FormSchemas converts every suitable operation in the document into a
// FormSchema, keyed by operation id. An operation is suitable when it
// accepts a JSON object body; nested objects and arrays inside that body
// are skipped, since the form flow renders flat fields only.
func FormSchemas(ctx context.Context, doc Document) (map[string]model.FormSchema, error) {
	if len(doc.Raw()) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: false}
	spec, err := loader.LoadFromData(doc.Raw())
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi: document does not contain any paths")
	}

	schemas := make(map[string]model.FormSchema)
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		// Only body-carrying methods can become forms.
		candidates := []struct {
			method    string
			operation *openapi3.Operation
		}{
			{"POST", item.Post},
			{"PUT", item.Put},
			{"PATCH", item.Patch},
		}
		for _, candidate := range candidates {
			if candidate.operation == nil {
				continue
			}
			schema, ok := operationSchema(candidate.method, path, candidate.operation)
			if !ok {
				continue
			}
			schemas[schema.FormID] = schema
		}
	}
	if len(schemas) == 0 {
		return nil, errors.New("openapi: no operations with a JSON object body found")
	}
	return schemas, nil
}

func operationSchema(method, path string, operation *openapi3.Operation) (model.FormSchema, bool) {
	body := requestBodySchema(operation)
	if body == nil || len(body.Properties) == 0 {
		return model.FormSchema{}, false
	}

	opID := operation.OperationID
	if opID == "" {
		opID = strings.ToLower(method) + ":" + path
	}

	schema := model.FormSchema{
		FormID:      opID,
		Title:       operation.Summary,
		Description: operation.Description,
		Required:    append([]string(nil), body.Required...),
	}
	if schema.Title == "" {
		schema.Title = opID
	}

	// kin-openapi exposes properties as an unordered map; sorting the
	// names keeps the render order deterministic.
	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	hints := make(map[string]model.UIHint)
	for _, name := range names {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field, hint, ok := convertProperty(name, ref.Value)
		if !ok {
			continue
		}
		schema.Properties.Set(name, field)
		if !hint.IsZero() {
			hints[name] = hint
		}
	}
	if schema.Properties.Len() == 0 {
		return model.FormSchema{}, false
	}
	if len(hints) > 0 {
		schema.UIHints = hints
	}

	// Drop required names whose properties were skipped.
	kept := schema.Required[:0]
	for _, name := range schema.Required {
		if _, ok := schema.Properties.Get(name); ok {
			kept = append(kept, name)
		}
	}
	schema.Required = kept

	return schema, true
}

func requestBodySchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	media, ok := operation.RequestBody.Value.Content["application/json"]
	if !ok || media.Schema == nil || media.Schema.Value == nil {
		return nil
	}
	return media.Schema.Value
}

// convertProperty maps one body property onto a field schema. Object and
// array properties report !ok and are left out of the form.
func convertProperty(name string, src *openapi3.Schema) (model.FieldSchema, model.UIHint, bool) {
	fieldType := firstType(src.Type)
	switch model.FieldType(fieldType) {
	case model.FieldTypeObject, model.FieldTypeArray:
		return model.FieldSchema{}, model.UIHint{}, false
	}

	field := model.FieldSchema{
		Name:        name,
		Title:       src.Title,
		Description: src.Description,
		Type:        model.FieldType(fieldType),
		Format:      src.Format,
	}
	if field.Type == "" {
		field.Type = model.FieldTypeString
	}
	for _, value := range src.Enum {
		field.Enum = append(field.Enum, fmt.Sprint(value))
	}

	return field, hintFromExtensions(src.Extensions), true
}

func firstType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func hintFromExtensions(extensions map[string]any) model.UIHint {
	raw, ok := extensions[extensionKey]
	if !ok {
		return model.UIHint{}
	}
	mapped, ok := raw.(map[string]any)
	if !ok {
		return model.UIHint{}
	}

	var hint model.UIHint
	if widget, ok := mapped["widget"].(string); ok {
		hint.Widget = widget
	}
	if placeholder, ok := mapped["placeholder"].(string); ok {
		hint.Placeholder = placeholder
	}
	return hint
}
