package tracker

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDate is returned when a quit date cannot be parsed or lies after today.
	ErrInvalidDate = errors.New("invalid quit date")
	// ErrInvalidAmount is returned for negative currency amounts.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrValidation is returned for out-of-range or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrDeserialization is returned when persisted tracker data is corrupt.
	ErrDeserialization = errors.New("corrupt tracker data")
)

// ValidationError describes which field failed validation and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func validationErr(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// DeserializationError wraps a decode failure for a persisted payload or key.
type DeserializationError struct {
	Key string
	Err error
}

func (e *DeserializationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%v: %v", ErrDeserialization, e.Err)
	}
	return fmt.Sprintf("%v: key %q: %v", ErrDeserialization, e.Key, e.Err)
}

func (e *DeserializationError) Unwrap() []error {
	return []error{ErrDeserialization, e.Err}
}
