// Package sentinel holds the dependency errors stores and registries return.
// Services translate them into domain errors exactly once.
package sentinel

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrAlreadyUsed  = errors.New("already used")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
