package apperrors

import "errors"

var (
	// ErrInvalidInput marks requests that can never succeed as given, such
	// as an unknown goal status or session trigger.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a missing book or goal.
	ErrNotFound = errors.New("not found")
	// ErrActiveSessionExists is returned when a session is started while
	// another one is still running.
	ErrActiveSessionExists = errors.New("a session is already running")
)
