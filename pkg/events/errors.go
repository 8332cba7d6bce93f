package events

import (
	"errors"
	"fmt"
)

// ErrNoInput is returned when no event log was supplied.
var ErrNoInput = errors.New("no event log selected")

// errCountRange is the cause of an *InvalidLogDataError for a bad token count.
var errCountRange = errors.New("token count must be a non-negative integer")

// InputError represents a failure to read or decode the event log.
type InputError struct {
	Path  string // Log path ("-" for stdin)
	Op    string // Operation that failed ("open", "read", "decode")
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *InputError) Error() string {
	return fmt.Sprintf("input error [path=%s, operation=%s]: %v", e.Path, e.Op, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *InputError) Unwrap() error {
	return e.Cause
}

// NewInputError creates a new InputError.
func NewInputError(path, op string, cause error) *InputError {
	return &InputError{
		Path:  path,
		Op:    op,
		Cause: cause,
	}
}

// InvalidLogDataError represents an event whose content cannot be interpreted,
// such as a timestamp that is not ISO-8601.
type InvalidLogDataError struct {
	EventID string // ID of the offending event
	Field   string // Field name ("timestamp")
	Value   string // Raw field value
	Cause   error  // Underlying error
}

// Error implements the error interface.
func (e *InvalidLogDataError) Error() string {
	return fmt.Sprintf("invalid log data: event %s has malformed %s %q: %v", e.EventID, e.Field, e.Value, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *InvalidLogDataError) Unwrap() error {
	return e.Cause
}

// NewInvalidLogDataError creates a new InvalidLogDataError.
func NewInvalidLogDataError(eventID, field, value string, cause error) *InvalidLogDataError {
	return &InvalidLogDataError{
		EventID: eventID,
		Field:   field,
		Value:   value,
		Cause:   cause,
	}
}
