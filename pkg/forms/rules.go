// Package forms turns a FormSchema into an ordered, renderer-independent
// control plan and converts submitted raw values back into typed ones.
package forms

import "github.com/goliatone/go-genui/pkg/model"

// Widget names the input control kind a field renders as.
type Widget string

const (
	WidgetText     Widget = "text"
	WidgetTextarea Widget = "textarea"
	WidgetPassword Widget = "password"
	WidgetNumber   Widget = "number"
	WidgetToggle   Widget = "toggle"
	WidgetSelect   Widget = "select"
)

// Rule pairs a predicate with the widget it selects. Rules are evaluated
// in order and the first match wins.
type Rule struct {
	Name   string
	Widget Widget
	Match  func(field model.FieldSchema, hint model.UIHint) bool
}

// RuleSet is an ordered widget-selection rule list. The zero value
// resolves everything to WidgetText; use NewRuleSet for the standard
// precedence.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet returns the standard precedence: enum, boolean, numeric
// type, password hint or format, textarea hint. Anything unmatched falls
// through to text.
func NewRuleSet() *RuleSet {
	set := &RuleSet{}
	set.Append(
		Rule{
			Name:   "enum",
			Widget: WidgetSelect,
			Match: func(field model.FieldSchema, _ model.UIHint) bool {
				return len(field.Enum) > 0
			},
		},
		Rule{
			Name:   "boolean",
			Widget: WidgetToggle,
			Match: func(field model.FieldSchema, _ model.UIHint) bool {
				return field.Type == model.FieldTypeBoolean
			},
		},
		Rule{
			Name:   "numeric",
			Widget: WidgetNumber,
			Match: func(field model.FieldSchema, _ model.UIHint) bool {
				return field.Type.IsNumeric()
			},
		},
		Rule{
			Name:   "password",
			Widget: WidgetPassword,
			Match: func(field model.FieldSchema, hint model.UIHint) bool {
				return hint.Widget == "password" || field.Format == "password"
			},
		},
		Rule{
			Name:   "textarea",
			Widget: WidgetTextarea,
			Match: func(_ model.FieldSchema, hint model.UIHint) bool {
				return hint.Widget == "textarea"
			},
		},
	)
	return set
}

// Append adds rules after the existing ones, keeping argument order.
func (s *RuleSet) Append(rules ...Rule) {
	for _, rule := range rules {
		if rule.Match == nil {
			continue
		}
		s.rules = append(s.rules, rule)
	}
}

// Rules returns the rules in evaluation order.
func (s *RuleSet) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Resolve returns the widget for the field, WidgetText when no rule
// matches.
func (s *RuleSet) Resolve(field model.FieldSchema, hint model.UIHint) Widget {
	for _, rule := range s.rules {
		if rule.Match(field, hint) {
			return rule.Widget
		}
	}
	return WidgetText
}
