package state

import (
	"testing"

	"chathub/pkg/types"
)

func TestUnreadCounters_IncrementCreatesEntry(t *testing.T) {
	counters := NewUnreadCounters()

	if got := counters.Increment("s1", "general"); got != 1 {
		t.Errorf("expected count 1, got %d", got)
	}
	if got := counters.Increment("s1", "general"); got != 2 {
		t.Errorf("expected count 2, got %d", got)
	}
	if got := counters.Increment("s1", types.PrivateBucket); got != 1 {
		t.Errorf("expected private count 1, got %d", got)
	}
}

func TestUnreadCounters_Reset(t *testing.T) {
	counters := NewUnreadCounters()
	counters.Increment("s1", "general")
	counters.Increment("s1", "random")

	counters.Reset("s1", "general")

	snapshot := counters.Snapshot("s1")
	if snapshot["general"] != 0 {
		t.Errorf("expected general reset to 0, got %d", snapshot["general"])
	}
	if snapshot["random"] != 1 {
		t.Errorf("reset must not touch other buckets, got %d", snapshot["random"])
	}
}

func TestUnreadCounters_ResetUnknownSessionIsNoOp(t *testing.T) {
	counters := NewUnreadCounters()
	counters.Reset("missing", "general")

	if len(counters.Snapshot("missing")) != 0 {
		t.Error("reset on unknown session must not create state")
	}
}

func TestUnreadCounters_SnapshotIsDetached(t *testing.T) {
	counters := NewUnreadCounters()
	counters.Increment("s1", "general")

	snapshot := counters.Snapshot("s1")
	snapshot["general"] = 99

	if counters.Snapshot("s1")["general"] != 1 {
		t.Error("snapshot mutation leaked into counters")
	}
}

func TestUnreadCounters_Forget(t *testing.T) {
	counters := NewUnreadCounters()
	counters.Increment("s1", "general")
	counters.Forget("s1")

	if len(counters.Snapshot("s1")) != 0 {
		t.Error("expected no counters after Forget")
	}
}
