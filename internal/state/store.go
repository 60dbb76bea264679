package state

import (
	"sort"
	"strings"
	"sync"

	"chathub/pkg/types"
)

// DefaultHistoryCapacity is the per-room message cap when none is configured.
const DefaultHistoryCapacity = 500

// DefaultRoom always exists so the read mirror and first joins have a home.
const DefaultRoom = "general"

// roomLog is one room's bounded message log. ids mirrors the slice for O(1)
// duplicate detection; nextSeq only ever grows, so ordering survives eviction.
type roomLog struct {
	messages []*types.Message
	ids      map[string]struct{}
	nextSeq  uint64
}

// MessageStore holds the bounded, ordered message log of every room. All
// mutations are observed atomically: readers get deep copies, never aliases
// into the guarded log.
type MessageStore struct {
	mu       sync.RWMutex
	logs     map[string]*roomLog
	capacity int
}

func NewMessageStore(capacity int) *MessageStore {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	s := &MessageStore{
		logs:     make(map[string]*roomLog),
		capacity: capacity,
	}
	s.logs[DefaultRoom] = newRoomLog()
	return s
}

func newRoomLog() *roomLog {
	return &roomLog{
		ids:     make(map[string]struct{}),
		nextSeq: 1,
	}
}

// getOrCreate returns the log for room, creating an empty one on first use.
// Callers must hold s.mu.
func (s *MessageStore) getOrCreate(room string) *roomLog {
	log, exists := s.logs[room]
	if !exists {
		log = newRoomLog()
		s.logs[room] = log
	}
	return log
}

// Append stores msg in room's log, assigning the next sequence number. The
// oldest message is evicted silently once the log exceeds its capacity.
// A message ID already present in the log is rejected with
// ErrDuplicateMessageID. Returns a copy of the stored message.
func (s *MessageStore) Append(room string, msg *types.Message) (*types.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.getOrCreate(room)
	if _, exists := log.ids[msg.ID]; exists {
		return nil, ErrDuplicateMessageID
	}

	stored := msg.Clone()
	stored.Seq = log.nextSeq
	log.nextSeq++

	log.messages = append(log.messages, stored)
	log.ids[stored.ID] = struct{}{}

	if len(log.messages) > s.capacity {
		evicted := log.messages[0]
		delete(log.ids, evicted.ID)
		log.messages = log.messages[1:]
	}

	return stored.Clone(), nil
}

// GetHistory returns the full current log for room, oldest first.
func (s *MessageStore) GetHistory(room string) []*types.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log, exists := s.logs[room]
	if !exists {
		return []*types.Message{}
	}
	return cloneAll(log.messages)
}

// GetOlder pages backwards through room's log. With an empty beforeID it
// returns the last limit messages; with beforeID found at index i it returns
// the contiguous slice [max(0, i-limit), i). An unknown beforeID yields an
// empty page rather than an error.
func (s *MessageStore) GetOlder(room, beforeID string, limit int) []*types.Message {
	if limit <= 0 {
		return []*types.Message{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	log, exists := s.logs[room]
	if !exists {
		return []*types.Message{}
	}

	if beforeID == "" {
		start := len(log.messages) - limit
		if start < 0 {
			start = 0
		}
		return cloneAll(log.messages[start:])
	}

	before := -1
	for i, msg := range log.messages {
		if msg.ID == beforeID {
			before = i
			break
		}
	}
	if before <= 0 {
		return []*types.Message{}
	}

	start := before - limit
	if start < 0 {
		start = 0
	}
	return cloneAll(log.messages[start:before])
}

// Search returns all messages in room whose body or sender name contains
// query, case-insensitively, preserving log order.
func (s *MessageStore) Search(room, query string) []*types.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log, exists := s.logs[room]
	if !exists {
		return []*types.Message{}
	}

	needle := strings.ToLower(query)
	results := make([]*types.Message, 0)
	for _, msg := range log.messages {
		if strings.Contains(strings.ToLower(msg.Body), needle) ||
			strings.Contains(strings.ToLower(msg.SenderName), needle) {
			results = append(results, msg.Clone())
		}
	}
	return results
}

// ToggleReaction toggles username's membership in the message's reaction set
// for emoji, removing the emoji key as its set becomes empty. Returns the
// updated message and true, or nil and false when the message does not exist.
func (s *MessageStore) ToggleReaction(room, messageID, emoji, username string) (*types.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, exists := s.logs[room]
	if !exists {
		return nil, false
	}

	var target *types.Message
	for _, msg := range log.messages {
		if msg.ID == messageID {
			target = msg
			break
		}
	}
	if target == nil {
		return nil, false
	}

	if target.Reactions == nil {
		target.Reactions = make(map[string][]string)
	}

	users := target.Reactions[emoji]
	removed := false
	for i, user := range users {
		if user == username {
			users = append(users[:i], users[i+1:]...)
			removed = true
			break
		}
	}
	if removed {
		if len(users) == 0 {
			delete(target.Reactions, emoji)
		} else {
			target.Reactions[emoji] = users
		}
	} else {
		target.Reactions[emoji] = append(users, username)
	}

	return target.Clone(), true
}

// Rooms returns the sorted names of every room with a log, including rooms
// whose logs are currently empty.
func (s *MessageStore) Rooms() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]string, 0, len(s.logs))
	for room := range s.logs {
		rooms = append(rooms, room)
	}
	sort.Strings(rooms)
	return rooms
}

func cloneAll(messages []*types.Message) []*types.Message {
	copies := make([]*types.Message, len(messages))
	for i, msg := range messages {
		copies[i] = msg.Clone()
	}
	return copies
}
