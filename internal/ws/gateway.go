package ws

import (
	"chathub/internal/state"
)

// Gateway implements router.Sender on top of the connection registry. Room
// targeting resolves through the session registry at send time, so fan-out
// always reflects the rooms sessions are currently in.
type Gateway struct {
	registry *Registry
	sessions *state.SessionRegistry
}

func NewGateway(registry *Registry, sessions *state.SessionRegistry) *Gateway {
	return &Gateway{
		registry: registry,
		sessions: sessions,
	}
}

// SendToSession delivers to one session, if connected. Delivery failures are
// that session's problem alone.
func (g *Gateway) SendToSession(sessionID, event string, data any) {
	conn, exists := g.registry.Get(sessionID)
	if !exists {
		return
	}
	if err := conn.Send(event, data); err != nil {
		countDropped()
		return
	}
	countDelivered()
}

// SendToRoom delivers to every session currently in room.
func (g *Gateway) SendToRoom(room, event string, data any) {
	g.sendRoom(room, "", event, data)
}

// SendToRoomExcept delivers to every session in room except excludedID.
func (g *Gateway) SendToRoomExcept(room, excludedID, event string, data any) {
	g.sendRoom(room, excludedID, event, data)
}

// Broadcast delivers to every live connection.
func (g *Gateway) Broadcast(event string, data any) {
	for _, conn := range g.registry.All() {
		if err := conn.Send(event, data); err != nil {
			countDropped()
			continue
		}
		countDelivered()
	}
}

func (g *Gateway) sendRoom(room, excludedID, event string, data any) {
	for _, session := range g.sessions.ListAll() {
		if session.Room != room || session.ID == excludedID {
			continue
		}
		conn, exists := g.registry.Get(session.ID)
		if !exists {
			continue
		}
		if err := conn.Send(event, data); err != nil {
			countDropped()
			continue
		}
		countDelivered()
	}
}
