package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is() checking.
var (
	// ErrNotFound is returned when no record exists at the requested id.
	ErrNotFound = errors.New("not found")

	// ErrNameTooLong is returned by Create when the record name exceeds
	// the scalar-length bound. No record is created on this path.
	ErrNameTooLong = errors.New("name too long")

	// ErrUnauthorized is returned by UpdateStatus and Delete when the
	// caller does not match the record's owner. The record is left
	// unchanged.
	ErrUnauthorized = errors.New("unauthorized action")

	// ErrSlotInUse is surfaced by the storage substrate when a create
	// targets an already-occupied address. This is what enforces id
	// uniqueness.
	ErrSlotInUse = errors.New("slot already in use")

	// ErrValidation marks request-level validation failures.
	ErrValidation = errors.New("validation error")

	// ErrUnauthenticated is returned when no verified caller identity
	// accompanies a mutating request.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrUnavailable is returned when the storage backend is unreachable
	// or its circuit breaker is open.
	ErrUnavailable = errors.New("unavailable")
)

// ValidationError provides programmatic access to field-level validation failures.
// Use errors.Is(err, ErrValidation) for simple checks, or errors.As(err, &verr) to
// access verr.Fields for per-field error details.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
