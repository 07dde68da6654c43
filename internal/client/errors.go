package client

import (
	"errors"
	"fmt"
)

// ErrFetchFailure is wrapped by every error caused by a transport failure,
// a non-success status on ideas.json, or an unreadable body.
var ErrFetchFailure = errors.New("fetch failed")

// DataUnavailableError reports that the movers document is not published yet.
// Its message is fixed and safe to show to users.
type DataUnavailableError struct {
	Document   string
	StatusCode int
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("%s not found yet — run the generation job first.", e.Document)
}

// fetchFailure wraps ErrFetchFailure and the underlying cause, if any.
func fetchFailure(op string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrFetchFailure, op)
	}
	return fmt.Errorf("%w: %s: %w", ErrFetchFailure, op, err)
}
