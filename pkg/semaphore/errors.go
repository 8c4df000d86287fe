package semaphore

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checks.
var (
	// ErrMissingAPIKey is returned by New when no API key is provided.
	ErrMissingAPIKey = errors.New("API key is required")

	// ErrTooManyRecipients is returned by Send when the recipient list is
	// longer than MaxRecipients. No request is made.
	ErrTooManyRecipients = fmt.Errorf("API is limited to sending to %d recipients at a time", MaxRecipients)
)

// ValidationError describes an argument rejected before any network call.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Unwrap returns the sentinel the validation failure corresponds to, if any.
func (e *ValidationError) Unwrap() error { return e.Err }

func tooManyRecipients(count int) error {
	return &ValidationError{
		Field:   "recipient",
		Message: fmt.Sprintf("%d recipients given: %v", count, ErrTooManyRecipients),
		Err:     ErrTooManyRecipients,
	}
}
