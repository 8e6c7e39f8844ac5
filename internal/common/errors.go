// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrNoCredentials = errors.New("no provider credentials configured")

	// Provider errors.
	ErrRateLimit         = errors.New("provider rate limit exceeded")
	ErrCredentialExpired = errors.New("provider credential expired")
	ErrProviderFatal     = errors.New("unrecoverable provider error")

	// Backend errors.
	ErrBackendUnavailable = errors.New("backend request failed")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// UserMessage extracts the user-facing message from an error chain,
// falling back to the given default when no UserError is present.
func UserMessage(err error, fallback string) string {
	var uerr *UserError
	if errors.As(err, &uerr) {
		return uerr.UserMessage
	}
	return fallback
}
