// Package service holds the business logic for authentication and posts,
// delegating persistence, hashing and token signing to narrow collaborators.
package service

import (
	"errors"
	"fmt"

	"github.com/MitchellAV/mern-logging-app/internal/validation"
)

// The failure taxonomy of the auth flows. Handlers translate these to
// transport status codes; nothing else escapes the service boundary except
// wrapped unexpected errors.
var (
	// ErrDuplicateUser means the email (or username) is already taken.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrUserNotFound means no user matched the supplied username.
	ErrUserNotFound = errors.New("user does not exist")
	// ErrInvalidCredentials means the password did not match the stored hash.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidPost means a post request failed its field checks.
	ErrInvalidPost = errors.New("invalid post")
)

// ValidationError carries the ordered list of per-field violations produced
// by the request validator. The flow aborts before any store access when one
// is returned.
type ValidationError struct {
	Violations []validation.Violation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d violation(s)", len(e.Violations))
}
