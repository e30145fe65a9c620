package services

import (
	"errors"
	"fmt"
)

// Error categories. Handlers map them to HTTP status codes.
var (
	ErrValidation       = errors.New("validation error")
	ErrConflict         = errors.New("conflict")
	ErrAuth             = errors.New("authentication failed")
	ErrNotFound         = errors.New("not found")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrStorage          = errors.New("storage error")
)

// Specific failures, each wrapping its category.
var (
	ErrMissingFields    = fmt.Errorf("%w: required fields missing", ErrValidation)
	ErrMissingLogin     = fmt.Errorf("%w: email and password required", ErrValidation)
	ErrInvalidEmail     = fmt.Errorf("%w: invalid email", ErrValidation)
	ErrPasswordTooShort = fmt.Errorf("%w: password too short", ErrValidation)
	ErrPasswordTooLong  = fmt.Errorf("%w: password too long", ErrValidation)
	ErrEmailTaken       = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrUsernameTaken    = fmt.Errorf("%w: username already taken", ErrConflict)
	ErrUserNotFound     = fmt.Errorf("%w: user", ErrNotFound)
	ErrWrongPassword    = fmt.Errorf("%w: wrong password", ErrAuth)
	ErrSessionNotFound  = fmt.Errorf("%w: session", ErrNotFound)
	ErrInvalidToken     = fmt.Errorf("%w: invalid session token", ErrAuth)
)

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
