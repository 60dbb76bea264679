package state

import (
	"sync"
)

// UnreadCounters tallies pending messages per session, keyed by room name or
// the "private" bucket. Counters reference session ids without owning them;
// Forget must run on disconnect. Switching into a room does not clear that
// room's counter — only an explicit mark-read does.
type UnreadCounters struct {
	mu     sync.RWMutex
	counts map[string]map[string]int // sessionID -> bucket -> count
}

func NewUnreadCounters() *UnreadCounters {
	return &UnreadCounters{
		counts: make(map[string]map[string]int),
	}
}

// Increment adds one to the session's counter for bucket, creating the entry
// at zero first if absent. Returns the new count.
func (u *UnreadCounters) Increment(id, bucket string) int {
	u.mu.Lock()
	defer u.mu.Unlock()

	buckets, exists := u.counts[id]
	if !exists {
		buckets = make(map[string]int)
		u.counts[id] = buckets
	}
	buckets[bucket]++
	return buckets[bucket]
}

// Reset sets the session's counter for bucket to zero.
func (u *UnreadCounters) Reset(id, bucket string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if buckets, exists := u.counts[id]; exists {
		buckets[bucket] = 0
	}
}

// Snapshot returns a copy of the session's full counter mapping. Sessions
// with no recorded counters get an empty map.
func (u *UnreadCounters) Snapshot(id string) map[string]int {
	u.mu.RLock()
	defer u.mu.RUnlock()

	snapshot := make(map[string]int)
	for bucket, count := range u.counts[id] {
		snapshot[bucket] = count
	}
	return snapshot
}

// Forget discards all counters for a disconnected session.
func (u *UnreadCounters) Forget(id string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.counts, id)
}
