package state

import (
	"sort"
	"sync"
	"time"

	"chathub/pkg/types"
)

// SessionRegistry tracks the identity and current room of every live
// connection. Session IDs are opaque, unique per connection, and never
// reused.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*types.Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*types.Session),
	}
}

// Register creates or overwrites the session for id. A duplicate join for the
// same id simply replaces identity and room. Returns a copy of the stored
// session.
func (r *SessionRegistry) Register(id, username, room string) *types.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	session := &types.Session{
		ID:       id,
		Username: username,
		Room:     room,
		JoinedAt: time.Now(),
	}
	r.sessions[id] = session

	copied := *session
	return &copied
}

// Lookup returns a copy of the session for id, or ErrSessionNotFound.
func (r *SessionRegistry) Lookup(id string) (*types.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, exists := r.sessions[id]
	if !exists {
		return nil, ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

// ChangeRoom moves an existing session into newRoom and returns the updated
// session. Fails with ErrSessionNotFound for unregistered ids.
func (r *SessionRegistry) ChangeRoom(id, newRoom string) (*types.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, exists := r.sessions[id]
	if !exists {
		return nil, ErrSessionNotFound
	}
	session.Room = newRoom

	copied := *session
	return &copied, nil
}

// Remove deletes the session for id and returns it, or ErrSessionNotFound.
func (r *SessionRegistry) Remove(id string) (*types.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, exists := r.sessions[id]
	if !exists {
		return nil, ErrSessionNotFound
	}
	delete(r.sessions, id)
	return session, nil
}

// ListAll returns a snapshot of all current sessions ordered by join time,
// breaking ties by ID so presence lists iterate stably.
func (r *SessionRegistry) ListAll() []*types.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]*types.Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		copied := *session
		sessions = append(sessions, &copied)
	}

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].JoinedAt.Equal(sessions[j].JoinedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].JoinedAt.Before(sessions[j].JoinedAt)
	})

	return sessions
}

// Count returns the number of live sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
