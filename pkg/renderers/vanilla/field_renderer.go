package vanilla

import (
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-genui/pkg/forms"
)

// controlMarkup renders one control as an HTML block. The markup never
// carries validation attributes (required, min, max, pattern, ...): the
// schema is a rendering contract, not a validation contract, and the
// browser must not reject values the backend would accept. The required
// flag only produces the visual marker next to the label.
func controlMarkup(ctrl forms.ControlDescriptor, sanitizeHelp func(string) string) string {
	id := "genui-" + ctrl.Name

	var b strings.Builder
	b.WriteString(`<div class="` + classField + `" data-widget="` + string(ctrl.Widget) + `">`)
	b.WriteString("\n  ")

	b.WriteString(`<label class="` + classLabel + `" for="` + html.EscapeString(id) + `">`)
	b.WriteString(html.EscapeString(ctrl.Label))
	if ctrl.Required {
		b.WriteString(`<span class="` + classRequired + `" aria-hidden="true">*</span>`)
	}
	b.WriteString(`</label>`)
	b.WriteString("\n  ")

	switch ctrl.Widget {
	case forms.WidgetSelect:
		writeSelect(&b, id, ctrl)
	case forms.WidgetToggle:
		writeToggle(&b, id, ctrl)
	case forms.WidgetTextarea:
		writeTextarea(&b, id, ctrl)
	case forms.WidgetPassword:
		writeInput(&b, id, ctrl, "password", "")
	case forms.WidgetNumber:
		// A free-text control on purpose: native numeric inputs clamp
		// and reject, which is validation by another name.
		writeInput(&b, id, ctrl, "text", "decimal")
	default:
		writeInput(&b, id, ctrl, "text", "")
	}

	if ctrl.Description != "" {
		b.WriteString("\n  ")
		b.WriteString(`<small class="` + classHelp + `">`)
		b.WriteString(sanitizeHelp(ctrl.Description))
		b.WriteString(`</small>`)
	}

	b.WriteString("\n</div>")
	return b.String()
}

func writeInput(b *strings.Builder, id string, ctrl forms.ControlDescriptor, inputType, inputMode string) {
	b.WriteString(`<input class="` + classControl + `" type="` + inputType + `"`)
	writeNameID(b, id, ctrl.Name)
	if inputMode != "" {
		b.WriteString(` inputmode="` + inputMode + `"`)
	}
	if ctrl.Placeholder != "" {
		b.WriteString(` placeholder="` + html.EscapeString(ctrl.Placeholder) + `"`)
	}
	b.WriteString(`>`)
}

func writeTextarea(b *strings.Builder, id string, ctrl forms.ControlDescriptor) {
	b.WriteString(`<textarea class="` + classControl + `"`)
	writeNameID(b, id, ctrl.Name)
	b.WriteString(fmt.Sprintf(` rows="%d"`, ctrl.Rows))
	if ctrl.Placeholder != "" {
		b.WriteString(` placeholder="` + html.EscapeString(ctrl.Placeholder) + `"`)
	}
	b.WriteString(`></textarea>`)
}

func writeSelect(b *strings.Builder, id string, ctrl forms.ControlDescriptor) {
	b.WriteString(`<select class="` + classControl + `"`)
	writeNameID(b, id, ctrl.Name)
	b.WriteString(`>`)
	for _, option := range ctrl.Options {
		b.WriteString("\n    ")
		b.WriteString(`<option value="` + html.EscapeString(option.Value) + `">`)
		b.WriteString(html.EscapeString(option.Label))
		b.WriteString(`</option>`)
	}
	b.WriteString("\n  </select>")
}

func writeToggle(b *strings.Builder, id string, ctrl forms.ControlDescriptor) {
	b.WriteString(`<input class="` + classToggle + `" type="checkbox"`)
	writeNameID(b, id, ctrl.Name)
	b.WriteString(`>`)
}

func writeNameID(b *strings.Builder, id, name string) {
	b.WriteString(` id="` + html.EscapeString(id) + `" name="` + html.EscapeString(name) + `"`)
}
