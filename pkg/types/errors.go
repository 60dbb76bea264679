package types

import "errors"

// Validation error types surfaced to callers as typed errors rather than
// silently accepted input.
var (
	ErrEmptyBody       = errors.New("message body cannot be empty")
	ErrBodyTooLarge    = errors.New("message body exceeds 2000 bytes")
	ErrInvalidUsername = errors.New("username must be 1-50 characters")
	ErrInvalidRoom     = errors.New("room name must be 1-50 characters, alphanumeric + underscore/hyphen only")
)
