package flow

import (
	"errors"

	"github.com/goliatone/go-genui/pkg/genapi"
	"github.com/goliatone/go-genui/pkg/request"
)

// Fallback messages shown when a failure carries no server-supplied
// text. One per pipeline stage: resolution, schema fetch, submission.
const (
	fallbackResolveMessage = "Failed to load form configuration."
	fallbackSchemaMessage  = "Failed to generate form. Please try again."
	fallbackSubmitMessage  = "Failed to submit form. Please try again."
)

// userMessage picks the text shown on the Error view: the missing-fields
// instruction verbatim, a server-supplied message when the backend sent
// one, the stage fallback otherwise. Transport details never reach the
// user.
func userMessage(err error, fallback string) string {
	if errors.Is(err, request.ErrMissingFields) {
		return request.ErrMissingFields.Error()
	}

	var apiErr *genapi.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	if fallback != "" {
		return fallback
	}
	return "Something went wrong."
}
