// Package common contains shared sentinel errors and small helpers used
// across RiceGuard client components. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Session-level errors.
	ErrNoSession    = errors.New("no active session")
	ErrInvalidToken = errors.New("invalid token")
)
