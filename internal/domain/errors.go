package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an operation references an ID absent from
	// the current working set.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is returned when a lifecycle operation is not
	// allowed from the bookmark's current status (e.g. favoriting a trashed
	// bookmark, or permanently deleting a bookmark that is not in trash).
	ErrInvalidTransition = errors.New("invalid transition")
)

// ValidationError reports a required field missing or a uniqueness constraint
// violated. It is raised before any persistence call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PersistenceError wraps a failed call to the persistence adapter.
// The underlying cause is preserved; any optimistic local update has been
// rolled back by the time the caller sees it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsPersistence reports whether err is a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
