package domain

import (
	"errors"
	"fmt"
)

// Fetch failure taxonomy. Every failed fetch resolves to exactly one of
// these; callers select with errors.Is / errors.As.
var (
	// ErrMissingInput marks validation failures detected before any network
	// activity: a missing or malformed date, time, or result limit. Wrapped
	// errors carry the user-facing detail.
	ErrMissingInput = errors.New("missing input")

	// ErrTransport marks network-level failures reaching the prediction
	// endpoint.
	ErrTransport = errors.New("prediction service unreachable")

	// ErrParse marks a response body that is not a valid prediction list.
	ErrParse = errors.New("prediction response malformed")
)

// StatusError is returned when the prediction endpoint answers with a
// non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("prediction API error: status %d: %s", e.Code, e.Body)
}
