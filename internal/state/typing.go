package state

import (
	"sort"
	"sync"
)

// TypingTracker holds the ephemeral per-room set of currently-typing
// sessions. There is no server-side expiry: a typing flag persists until
// explicitly turned off, the session disconnects, or it leaves the room, so
// ClearSession must run on both disconnect and room switch.
type TypingTracker struct {
	mu    sync.RWMutex
	rooms map[string]map[string]string // room -> sessionID -> username
}

func NewTypingTracker() *TypingTracker {
	return &TypingTracker{
		rooms: make(map[string]map[string]string),
	}
}

// SetTyping adds or removes the session's typing entry for room. It reports
// whether the set actually changed, so callers can skip re-broadcasting a
// list that is identical to the last one.
func (t *TypingTracker) SetTyping(room, id, username string, isTyping bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries, exists := t.rooms[room]
	if !exists {
		if !isTyping {
			return false
		}
		entries = make(map[string]string)
		t.rooms[room] = entries
	}

	if isTyping {
		_, present := entries[id]
		entries[id] = username
		return !present
	}

	if _, present := entries[id]; !present {
		return false
	}
	delete(entries, id)
	if len(entries) == 0 {
		delete(t.rooms, room)
	}
	return true
}

// TypingUsers returns the usernames currently typing in room, excluding the
// given session id; a session never sees itself in its own broadcast. The
// result is sorted for stable output.
func (t *TypingTracker) TypingUsers(room, excludingID string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	users := make([]string, 0)
	for id, username := range t.rooms[room] {
		if id == excludingID {
			continue
		}
		users = append(users, username)
	}
	sort.Strings(users)
	return users
}

// ClearSession removes id from every room's typing set and returns the rooms
// that actually changed, so callers can re-broadcast only where needed.
func (t *TypingTracker) ClearSession(id string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	affected := make([]string, 0)
	for room, entries := range t.rooms {
		if _, exists := entries[id]; !exists {
			continue
		}
		delete(entries, id)
		if len(entries) == 0 {
			delete(t.rooms, room)
		}
		affected = append(affected, room)
	}
	sort.Strings(affected)
	return affected
}
