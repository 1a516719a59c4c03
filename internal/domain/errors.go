package domain

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors shared by repositories and services.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
	ErrInvalidID     = errors.New("invalid identifier")
)

// ValidationError carries field keyed messages for a rejected payload.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation: " + e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation: %s (%v)", e.Message, keys)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Add records a message for a field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	verr := &ValidationError{Message: "Please fix the highlighted fields."}
	verr.Add(field, message)
	return verr
}

// NewFormError builds a validation error without field details.
func NewFormError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
