package forms

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-genui/pkg/model"
)

// ParseValue converts the raw submitted text of a non-toggle control
// into its typed payload value: numeric controls yield float64 or nil
// when empty, everything else passes through as a string.
func ParseValue(ctrl ControlDescriptor, raw string) any {
	if ctrl.Widget != WidgetNumber {
		return raw
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		// Unparsable input degrades to null rather than failing the
		// submission; the schema carries no validation contract.
		return nil
	}
	return parsed
}

// BuildPayload assembles the typed submission payload for a plan from
// raw form values. Toggles map presence to true and absence to false, so
// every toggle always appears in the payload. A non-empty sessionID is
// attached under model.SessionKey.
func BuildPayload(plan ControlPlan, values url.Values, sessionID string) model.SubmissionPayload {
	payload := make(model.SubmissionPayload, len(plan.Controls)+1)
	for _, ctrl := range plan.Controls {
		if ctrl.Widget == WidgetToggle {
			payload[ctrl.Name] = values.Has(ctrl.Name)
			continue
		}
		payload[ctrl.Name] = ParseValue(ctrl, values.Get(ctrl.Name))
	}
	if sessionID != "" {
		payload[model.SessionKey] = sessionID
	}
	return payload
}
