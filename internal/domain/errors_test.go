package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidationError_Is(t *testing.T) {
	t.Parallel()

	var err error = &ValidationError{Fields: map[string]string{"id": "is required"}}

	if !errors.Is(err, ErrValidation) {
		t.Error("errors.Is(err, ErrValidation) = false, want true")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("errors.Is(err, ErrNotFound) = true, want false")
	}
}

func TestValidationError_As(t *testing.T) {
	t.Parallel()

	var err error = &ValidationError{Fields: map[string]string{
		"name": "must not be blank",
	}}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatal("errors.As() = false, want true")
	}
	if got := verr.Fields["name"]; got != "must not be blank" {
		t.Errorf("Fields[name] = %q, want %q", got, "must not be blank")
	}
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Fields: map[string]string{"id": "is required"}}

	msg := err.Error()
	if !strings.Contains(msg, "validation error") {
		t.Errorf("Error() = %q, want it to contain %q", msg, "validation error")
	}
	if !strings.Contains(msg, "id: is required") {
		t.Errorf("Error() = %q, want it to contain %q", msg, "id: is required")
	}
}
