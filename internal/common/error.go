// Package common defines shared constants and sentinel errors used across
// client and server layers of APODKeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// ErrUpstream marks a failed call to a third-party API.
	ErrUpstream = errors.New("upstream error")

	// ErrStorage marks a failed durable write, read or delete.
	ErrStorage = errors.New("storage error")
)
