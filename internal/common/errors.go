// Package common defines shared sentinel errors used across the server,
// repositories and CLI. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Session errors.
	ErrNoSession      = errors.New("no session in context")
	ErrInvalidSession = errors.New("invalid session")

	// Factory / configuration errors.
	ErrUnknownDriver = errors.New("unknown database driver")
	ErrMissingSecret = errors.New("session secret is not configured")
)
