// Package router turns inbound events into store mutations and outbound
// fan-out. Each event maps to a fixed handler through a static dispatch
// table, keeping transport framing out of the routing logic. Handlers mutate
// state first, then compute recipient sets and deliver; delivery is
// fire-and-forget per session and never blocks a store.
package router

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"chathub/internal/state"
	"chathub/pkg/types"
)

// Sender delivers outbound events. Implementations must not block: a slow
// recipient may only lose its own frames, never stall anyone else's.
type Sender interface {
	SendToSession(sessionID, event string, data any)
	SendToRoom(room, event string, data any)
	SendToRoomExcept(room, excludedID, event string, data any)
	Broadcast(event string, data any)
}

type handlerFunc func(sessionID string, data json.RawMessage)

// Router orchestrates all hub state changes triggered by client events.
type Router struct {
	state    *state.State
	sender   Sender
	handlers map[string]handlerFunc

	pageSize    int
	maxPageSize int
}

// New builds a router with its dispatch table. pageSize and maxPageSize bound
// get_older_messages requests.
func New(st *state.State, sender Sender, pageSize, maxPageSize int) *Router {
	r := &Router{
		state:       st,
		sender:      sender,
		pageSize:    pageSize,
		maxPageSize: maxPageSize,
	}
	r.handlers = map[string]handlerFunc{
		types.EventUserJoin:         r.handleUserJoin,
		types.EventJoinRoom:         r.handleJoinRoom,
		types.EventSendMessage:      r.handleSendMessage,
		types.EventTyping:           r.handleTyping,
		types.EventPrivateMessage:   r.handlePrivateMessage,
		types.EventAddReaction:      r.handleAddReaction,
		types.EventMarkRead:         r.handleMarkRead,
		types.EventSearchMessages:   r.handleSearch,
		types.EventGetOlderMessages: r.handleGetOlder,
	}
	return r
}

// Dispatch invokes the handler for event. Unknown events are logged and
// dropped; a misbehaving client cannot fault the hub.
func (r *Router) Dispatch(sessionID, event string, data json.RawMessage) error {
	handler, exists := r.handlers[event]
	if !exists {
		log.Printf("Dropping unknown event %q from session %s", event, sessionID)
		return ErrUnknownEvent
	}
	handler(sessionID, data)
	return nil
}

// HandleDisconnect tears down all state for a closed connection: registry
// entry, typing flags in every room, and unread counters. Queued outbound
// sends for the session are discarded by the transport.
func (r *Router) HandleDisconnect(sessionID string) {
	session, err := r.state.Sessions.Remove(sessionID)
	if err != nil {
		// Connection closed before ever joining; nothing to announce.
		return
	}

	for _, room := range r.state.Typing.ClearSession(sessionID) {
		r.broadcastTyping(room, "")
	}
	r.state.Unread.Forget(sessionID)

	r.sender.SendToRoom(session.Room, types.EventUserLeft, types.UserPresencePayload{
		Username: session.Username,
		ID:       session.ID,
		Room:     session.Room,
	})
	r.broadcastPresence()

	log.Printf("%s left the chat", session.Username)
}

func (r *Router) handleUserJoin(sessionID string, data json.RawMessage) {
	var payload types.JoinPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		r.reject(sessionID, ErrMalformedEvent)
		return
	}
	if payload.Room == "" {
		payload.Room = state.DefaultRoom
	}
	if err := types.ValidateUsername(payload.Username); err != nil {
		r.reject(sessionID, err)
		return
	}
	if err := types.ValidateRoom(payload.Room); err != nil {
		r.reject(sessionID, err)
		return
	}

	session := r.state.Sessions.Register(sessionID, payload.Username, payload.Room)

	r.broadcastPresence()
	r.sender.SendToRoom(session.Room, types.EventUserJoined, types.UserPresencePayload{
		Username: session.Username,
		ID:       session.ID,
		Room:     session.Room,
	})
	r.sender.SendToSession(sessionID, types.EventMessageHistory, r.state.Messages.GetHistory(session.Room))

	log.Printf("%s joined room: %s", session.Username, session.Room)
}

func (r *Router) handleJoinRoom(sessionID string, data json.RawMessage) {
	var payload types.SwitchRoomPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		r.reject(sessionID, ErrMalformedEvent)
		return
	}
	if err := types.ValidateRoom(payload.Room); err != nil {
		r.reject(sessionID, err)
		return
	}

	previous, err := r.state.Sessions.Lookup(sessionID)
	if err != nil {
		return // not joined yet; drop silently
	}
	previousRoom := previous.Room

	session, err := r.state.Sessions.ChangeRoom(sessionID, payload.Room)
	if err != nil {
		return
	}

	// Leaving a room drops its typing flag; there is no expiry timer to catch
	// a stale one later. The room is only re-notified if the flag was set.
	if r.state.Typing.SetTyping(previousRoom, sessionID, previous.Username, false) {
		r.broadcastTyping(previousRoom, sessionID)
	}

	r.sender.SendToRoom(previousRoom, types.EventUserLeftRoom, types.UserPresencePayload{
		Username: session.Username,
		Room:     previousRoom,
	})
	r.sender.SendToRoom(session.Room, types.EventUserJoinedRoom, types.UserPresencePayload{
		Username: session.Username,
		Room:     session.Room,
	})
	r.sender.SendToSession(sessionID, types.EventMessageHistory, r.state.Messages.GetHistory(session.Room))
	r.broadcastPresence()
}

func (r *Router) handleSendMessage(sessionID string, data json.RawMessage) {
	var payload types.SendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		r.reject(sessionID, ErrMalformedEvent)
		return
	}

	sender, err := r.state.Sessions.Lookup(sessionID)
	if err != nil {
		return // unknown sender, drop silently
	}

	// An explicit room must pass the same name check as a join; otherwise a
	// bad frame would mint a log for an arbitrary room name.
	if payload.Room != "" {
		if err := types.ValidateRoom(payload.Room); err != nil {
			r.reject(sessionID, err)
			return
		}
	}

	room := payload.Room
	if room == "" {
		room = sender.Room
	}
	if room == "" {
		room = state.DefaultRoom
	}

	if err := types.ValidateBody(payload.Message); err != nil {
		r.reject(sessionID, err)
		return
	}

	msg := &types.Message{
		ID:         uuid.New().String(),
		Body:       payload.Message,
		SenderID:   sender.ID,
		SenderName: sender.Username,
		Room:       room,
		Timestamp:  time.Now(),
		Reactions:  make(map[string][]string),
	}

	stored, err := r.state.Messages.Append(room, msg)
	if err != nil {
		log.Printf("Rejected message from %s in %s: %v", sender.Username, room, err)
		r.reject(sessionID, err)
		return
	}

	r.sender.SendToRoom(room, types.EventReceiveMessage, stored)

	// Everyone currently looking at a different room gets an unread bump and
	// their own fresh snapshot.
	for _, other := range r.state.Sessions.ListAll() {
		if other.ID == sender.ID || other.Room == room {
			continue
		}
		r.state.Unread.Increment(other.ID, room)
		r.sender.SendToSession(other.ID, types.EventUnreadUpdate, r.state.Unread.Snapshot(other.ID))
	}
}

func (r *Router) handleTyping(sessionID string, data json.RawMessage) {
	var payload types.TypingPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		r.reject(sessionID, ErrMalformedEvent)
		return
	}

	session, err := r.state.Sessions.Lookup(sessionID)
	if err != nil {
		return
	}

	if payload.Room != "" {
		if err := types.ValidateRoom(payload.Room); err != nil {
			r.reject(sessionID, err)
			return
		}
	}

	room := payload.Room
	if room == "" {
		room = state.DefaultRoom
	}

	r.state.Typing.SetTyping(room, sessionID, session.Username, payload.IsTyping)
	r.sender.SendToRoomExcept(room, sessionID, types.EventTypingUsers, types.TypingUsersPayload{
		Room:  room,
		Users: r.state.Typing.TypingUsers(room, sessionID),
	})
}

func (r *Router) handlePrivateMessage(sessionID string, data json.RawMessage) {
	var payload types.PrivateMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		r.reject(sessionID, ErrMalformedEvent)
		return
	}

	sender, err := r.state.Sessions.Lookup(sessionID)
	if err != nil {
		return
	}
	if err := types.ValidateBody(payload.Message); err != nil {
		r.reject(sessionID, err)
		return
	}

	msg := &types.Message{
		ID:          uuid.New().String(),
		Body:        payload.Message,
		SenderID:    sender.ID,
		SenderName:  sender.Username,
		RecipientID: payload.To,
		Private:     true,
		Timestamp:   time.Now(),
		Reactions:   make(map[string][]string),
	}

	// Delivered to exactly two sessions, never a room. An unknown recipient
	// means the frame goes nowhere but the sender echo.
	r.sender.SendToSession(payload.To, types.EventPrivateMessage, msg)
	r.sender.SendToSession(sessionID, types.EventPrivateMessage, msg)

	if _, err := r.state.Sessions.Lookup(payload.To); err == nil {
		r.state.Unread.Increment(payload.To, types.PrivateBucket)
		r.sender.SendToSession(payload.To, types.EventUnreadUpdate, r.state.Unread.Snapshot(payload.To))
	}
}

func (r *Router) handleAddReaction(sessionID string, data json.RawMessage) {
	var payload types.ReactionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		r.reject(sessionID, ErrMalformedEvent)
		return
	}

	session, err := r.state.Sessions.Lookup(sessionID)
	if err != nil {
		return
	}

	room := payload.Room
	if room == "" {
		room = state.DefaultRoom
	}

	updated, found := r.state.Messages.ToggleReaction(room, payload.MessageID, payload.Emoji, session.Username)
	if !found {
		return // reaction against a vanished message is a no-op
	}
	r.sender.SendToRoom(room, types.EventMessageUpdated, updated)
}

func (r *Router) handleMarkRead(sessionID string, data json.RawMessage) {
	var payload types.MarkReadPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		r.reject(sessionID, ErrMalformedEvent)
		return
	}

	r.state.Unread.Reset(sessionID, payload.Room)
	r.sender.SendToSession(sessionID, types.EventUnreadUpdate, r.state.Unread.Snapshot(sessionID))
}

func (r *Router) handleSearch(sessionID string, data json.RawMessage) {
	var payload types.SearchPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		r.reject(sessionID, ErrMalformedEvent)
		return
	}

	room := payload.Room
	if room == "" {
		room = state.DefaultRoom
	}

	r.sender.SendToSession(sessionID, types.EventSearchResults, r.state.Messages.Search(room, payload.Query))
}

func (r *Router) handleGetOlder(sessionID string, data json.RawMessage) {
	var payload types.OlderMessagesPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		r.reject(sessionID, ErrMalformedEvent)
		return
	}

	room := payload.Room
	if room == "" {
		room = state.DefaultRoom
	}

	limit := payload.Limit
	if limit <= 0 {
		limit = r.pageSize
	}
	if limit > r.maxPageSize {
		limit = r.maxPageSize
	}

	r.sender.SendToSession(sessionID, types.EventOlderMessages, r.state.Messages.GetOlder(room, payload.BeforeID, limit))
}

// broadcastPresence pushes the full session list to every connection.
func (r *Router) broadcastPresence() {
	r.sender.Broadcast(types.EventUserList, r.state.Sessions.ListAll())
}

// broadcastTyping pushes room's typing list to everyone in it except the
// excluded session.
func (r *Router) broadcastTyping(room, excludedID string) {
	r.sender.SendToRoomExcept(room, excludedID, types.EventTypingUsers, types.TypingUsersPayload{
		Room:  room,
		Users: r.state.Typing.TypingUsers(room, excludedID),
	})
}

// reject reports a bad request back to its sender only. Other sessions never
// observe another client's faults.
func (r *Router) reject(sessionID string, err error) {
	r.sender.SendToSession(sessionID, types.EventSystem, types.SystemPayload{
		Event:   "message_error",
		Message: err.Error(),
	})
}
