package types

import (
	"time"
)

// PrivateBucket is the unread-counter bucket used for direct messages.
// All other buckets are room names.
const PrivateBucket = "private"

// Session represents one live connection and its identity. A session belongs
// to exactly one room at a time; a new connection is always a new session ID
// with no relation to any prior one.
type Session struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Room     string    `json:"room"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Message is a chat message. Body and sender fields are immutable after
// creation; only Reactions mutates. SenderName is snapshotted at send time,
// so later identity changes never retroactively alter history.
//
// Seq is a per-room monotonic sequence assigned by the message store and is
// the authoritative ordering field; ID is an opaque unique identifier.
type Message struct {
	ID          string              `json:"id"`
	Seq         uint64              `json:"seq"`
	Body        string              `json:"message"`
	SenderID    string              `json:"senderId"`
	SenderName  string              `json:"sender"`
	Room        string              `json:"room,omitempty"`
	RecipientID string              `json:"recipientId,omitempty"`
	Private     bool                `json:"isPrivate,omitempty"`
	Timestamp   time.Time           `json:"timestamp"`
	Reactions   map[string][]string `json:"reactions"`
}

// Clone returns a deep copy of the message. The store hands out clones so
// readers never alias the guarded log.
func (m *Message) Clone() *Message {
	c := *m
	c.Reactions = make(map[string][]string, len(m.Reactions))
	for emoji, users := range m.Reactions {
		c.Reactions[emoji] = append([]string(nil), users...)
	}
	return &c
}
