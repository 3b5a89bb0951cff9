package models

import (
	"errors"
	"fmt"
)

// Error kinds shared across the stack. Callers match them with errors.Is.
var (
	// ErrNotFound: a symbol, record or snapshot does not exist.
	ErrNotFound = errors.New("not found")
	// ErrTransport: the quote provider could not be reached or refused the call.
	ErrTransport = errors.New("transport failure")
	// ErrPersistence: durable storage could not be read or written.
	ErrPersistence = errors.New("persistence failure")
	// ErrValidation: user input was rejected at the boundary.
	ErrValidation = errors.New("validation failure")
	// ErrUnknownCategory: an expense category outside the closed enumeration reached the engine.
	ErrUnknownCategory = errors.New("unknown expense category")
	// ErrSuperseded: a quote fetch was cancelled by a newer selection.
	ErrSuperseded = errors.New("superseded by a newer request")
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) true for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
