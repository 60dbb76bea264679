package types

import (
	"regexp"
	"strings"
)

// MaxBodyBytes bounds message bodies server-side. The limit is enforced at
// the routing layer before a message reaches any store.
const MaxBodyBytes = 2000

// MaxNameLength bounds usernames and room names.
const MaxNameLength = 50

var roomRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateBody checks message body bounds. Whitespace-only bodies count as
// empty.
func ValidateBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return ErrEmptyBody
	}
	if len(body) > MaxBodyBytes {
		return ErrBodyTooLarge
	}
	return nil
}

// ValidateUsername checks display-name bounds. Usernames are free text and
// are not unique; no format restriction beyond length.
func ValidateUsername(username string) error {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" || len(trimmed) > MaxNameLength {
		return ErrInvalidUsername
	}
	return nil
}

// ValidateRoom checks room-name format.
func ValidateRoom(room string) error {
	if len(room) < 1 || len(room) > MaxNameLength {
		return ErrInvalidRoom
	}
	if !roomRegex.MatchString(room) {
		return ErrInvalidRoom
	}
	return nil
}
