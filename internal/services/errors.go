package services

import (
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/store"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrUnauthorized       = errors.New("not allowed for this user")
	ErrAlreadyResponded   = errors.New("consent request already answered")
	ErrVersionConflict    = errors.New("document was modified by another request")
	ErrConsentExpired     = errors.New("consent request has expired")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrNoContent          = errors.New("document has no attached content")
	ErrValidation         = errors.New("validation failed")
)

// ValidationError names the offending input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// notFound maps store.ErrNotFound onto ErrNotFound and wraps anything else.
func notFound(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
