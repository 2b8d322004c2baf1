package model

import "errors"

// Failure kinds shared across the client. Callers wrap these with context
// via fmt.Errorf("...: %w", ...) and match with errors.Is.
var (
	// ErrAuth covers rejected credentials and duplicate accounts.
	ErrAuth = errors.New("authentication failed")
	// ErrNetwork covers requests that could not complete at the transport level.
	ErrNetwork = errors.New("network failure")
	// ErrNotFound marks an absent row or object. Not always an error for the
	// caller: an absent profile row is a valid "no profile yet" state.
	ErrNotFound = errors.New("not found")
	// ErrValidation covers missing required fields and wrong file categories.
	ErrValidation = errors.New("validation failed")
	// ErrOutOfRange marks a playlist index outside [0, len).
	ErrOutOfRange = errors.New("index out of range")
)
