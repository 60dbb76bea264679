package ws

import (
	"sync"
)

// Registry tracks live connections by session id. It holds no room state;
// room membership lives in the session registry, which the gateway consults
// when fanning out.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]*Conn),
	}
}

// Add registers a connection under its session id.
func (r *Registry) Add(conn *Conn) error {
	if conn == nil {
		return ErrNilConnection
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[conn.SessionID()] = conn
	return nil
}

// Remove drops the connection for sessionID if it is the one registered.
// Idempotent; a stale connection cannot evict its replacement.
func (r *Registry) Remove(conn *Conn) {
	if conn == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	registered, exists := r.conns[conn.SessionID()]
	if !exists || registered != conn {
		return
	}
	delete(r.conns, conn.SessionID())
}

// Get returns the connection for sessionID.
func (r *Registry) Get(sessionID string) (*Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, exists := r.conns[sessionID]
	return conn, exists
}

// All returns a snapshot of every live connection.
func (r *Registry) All() []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]*Conn, 0, len(r.conns))
	for _, conn := range r.conns {
		conns = append(conns, conn)
	}
	return conns
}

// Count returns the number of live connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
