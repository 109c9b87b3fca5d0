// Package common defines shared constants and sentinel errors used across
// the assistant server layers. Callers should use errors.Is to match these
// values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Registration errors.
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrRegistrationFailed = errors.New("registration failed")

	// Login errors.
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("incorrect password")

	// Chat errors.
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// Token errors. All of them match ErrorUnauthorized.
	ErrInvalidToken   = fmt.Errorf("%w: invalid token", ErrorUnauthorized)
	ErrTokenExpired   = fmt.Errorf("%w: token expired", ErrorUnauthorized)
	ErrSessionRevoked = fmt.Errorf("%w: session revoked", ErrorUnauthorized)
)
