// Package apperr defines the error classes the workflow layer returns.
// Handlers translate them to HTTP statuses with errors.Is; services wrap
// them with %w to add context without losing the class.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrValidation covers missing or malformed input.
	ErrValidation = errors.New("invalid input")
	// ErrConflict covers duplicate unique keys such as an already
	// registered email.
	ErrConflict = errors.New("already exists")
	// ErrNotFound covers lookups that match nothing.
	ErrNotFound = errors.New("not found")
	// ErrInvalidOTP covers a missing pending entry or a non-matching
	// code. Deliberately indistinguishable from a generic bad request
	// so callers cannot probe which emails have pending entries.
	ErrInvalidOTP = errors.New("invalid OTP")
	// ErrUnverified is returned on login for accounts that never
	// confirmed their OTP.
	ErrUnverified = errors.New("user not verified")
	// ErrAuth covers failed credential checks. The login handler uses
	// the same message for unknown emails and wrong passwords.
	ErrAuth = errors.New("invalid email or password")
	// ErrUpstream covers mailer, store, and object-store failures.
	ErrUpstream = errors.New("upstream failure")
)

// Status maps an error class to its HTTP status. Unclassified errors
// are treated as upstream failures.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidOTP), errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnverified):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAuth):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Upstream wraps err as an upstream failure, keeping the cause in the chain.
func Upstream(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUpstream, op, err)
}
