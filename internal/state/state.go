// Package state owns all mutable hub state: the session registry, the
// bounded per-room message store, the typing tracker, and the unread
// counters. Each component guards its own data with a lock; no caller touches
// the underlying maps directly, and every read crosses the boundary as a
// copy. Fan-out to connections never happens while a state lock is held.
package state

// State is the single owned aggregate of all hub stores.
type State struct {
	Sessions *SessionRegistry
	Messages *MessageStore
	Typing   *TypingTracker
	Unread   *UnreadCounters
}

// New creates an empty hub state with the given per-room history capacity.
func New(historyCapacity int) *State {
	return &State{
		Sessions: NewSessionRegistry(),
		Messages: NewMessageStore(historyCapacity),
		Typing:   NewTypingTracker(),
		Unread:   NewUnreadCounters(),
	}
}
