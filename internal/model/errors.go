package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores when the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrPermissionDenied is returned when a caller acts on an entity it does not own.
var ErrPermissionDenied = errors.New("permission denied")

// ValidationError reports that a write was rejected because a single
// attribute failed validation (empty required field, uniqueness violation,
// dangling reference). Field names the offending attribute so callers can
// pick the right user-facing message.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Err.Error())
	}
	return fmt.Sprintf("invalid %s", e.Field)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a ValidationError for the given attribute.
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

// AsValidationError extracts a ValidationError from an error chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
