package forms

import "github.com/goliatone/go-genui/pkg/model"

// TextareaRows is the fixed height of multiline controls.
const TextareaRows = 4

// numberPlaceholder is applied to integer fields that carry no
// placeholder hint of their own.
const numberPlaceholder = "Enter a number"

// SelectOption is one choice in a select control.
type SelectOption struct {
	Value string
	Label string
}

// ControlDescriptor is the renderer-independent description of one input
// control. It carries everything an adapter needs and nothing about how
// a particular toolkit draws it.
type ControlDescriptor struct {
	Name        string
	Widget      Widget
	Label       string
	Description string
	Placeholder string
	// Required marks the control for a visual indicator. Toggles are
	// never required: an unchecked toggle is a valid false.
	Required bool
	// Options is populated for selects only. The first entry is the
	// blank placeholder option.
	Options []SelectOption
	// Rows is populated for textareas only.
	Rows int
}

// ControlPlan is the ordered control list for one schema, plus the form
// chrome around it.
type ControlPlan struct {
	FormID      string
	Title       string
	Description string
	SubmitLabel string
	Controls    []ControlDescriptor
}

// Control returns the named control descriptor and whether it exists.
func (p ControlPlan) Control(name string) (ControlDescriptor, bool) {
	for _, ctrl := range p.Controls {
		if ctrl.Name == name {
			return ctrl, true
		}
	}
	return ControlDescriptor{}, false
}

// Plan derives the control plan for a schema. It is a pure function: the
// same schema always yields the same plan, and controls appear in
// property document order.
func Plan(schema model.FormSchema) ControlPlan {
	return PlanWith(NewRuleSet(), schema)
}

// PlanWith derives the control plan using a custom rule set.
func PlanWith(rules *RuleSet, schema model.FormSchema) ControlPlan {
	plan := ControlPlan{
		FormID:      schema.FormID,
		Title:       schema.Title,
		Description: schema.Description,
		SubmitLabel: schema.SubmitText(),
	}

	for _, field := range schema.Properties.Fields() {
		hint := schema.Hint(field.Name)
		widget := rules.Resolve(field, hint)

		ctrl := ControlDescriptor{
			Name:        field.Name,
			Widget:      widget,
			Label:       field.Label(),
			Description: field.Description,
			Placeholder: hint.Placeholder,
			Required:    schema.IsRequired(field.Name) && widget != WidgetToggle,
		}

		switch widget {
		case WidgetSelect:
			ctrl.Options = selectOptions(field)
			ctrl.Placeholder = ""
		case WidgetToggle:
			ctrl.Placeholder = ""
		case WidgetNumber:
			if ctrl.Placeholder == "" && field.Type == model.FieldTypeInteger {
				ctrl.Placeholder = numberPlaceholder
			}
		case WidgetTextarea:
			ctrl.Rows = TextareaRows
		}

		plan.Controls = append(plan.Controls, ctrl)
	}
	return plan
}

// selectOptions builds the option list for an enum field: a blank
// placeholder option first, then one option per enum value in document
// order.
func selectOptions(field model.FieldSchema) []SelectOption {
	options := make([]SelectOption, 0, len(field.Enum)+1)
	options = append(options, SelectOption{Value: "", Label: "Select " + field.Label()})
	for _, value := range field.Enum {
		options = append(options, SelectOption{Value: value, Label: value})
	}
	return options
}
