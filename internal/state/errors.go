package state

import "errors"

// State error types. Lookups against unknown sessions are real errors at this
// layer; the router decides whether to surface or drop them.
var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrDuplicateMessageID = errors.New("message ID already exists in room log")
)
