package state

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestSessionRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewSessionRegistry()

	session := reg.Register("s1", "alice", "general")
	if session.ID != "s1" || session.Username != "alice" || session.Room != "general" {
		t.Errorf("unexpected session: %+v", session)
	}
	if session.JoinedAt.IsZero() {
		t.Error("JoinedAt should be set")
	}

	found, err := reg.Lookup("s1")
	if err != nil {
		t.Fatalf("Lookup should succeed: %v", err)
	}
	if found.Username != "alice" {
		t.Errorf("expected username alice, got %s", found.Username)
	}
}

func TestSessionRegistry_RegisterIsIdempotentOverwrite(t *testing.T) {
	reg := NewSessionRegistry()

	reg.Register("s1", "alice", "general")
	reg.Register("s1", "alicia", "random")

	if reg.Count() != 1 {
		t.Fatalf("expected 1 session, got %d", reg.Count())
	}

	session, err := reg.Lookup("s1")
	if err != nil {
		t.Fatalf("Lookup should succeed: %v", err)
	}
	if session.Username != "alicia" || session.Room != "random" {
		t.Errorf("duplicate register should replace identity and room, got %+v", session)
	}
}

func TestSessionRegistry_LookupNotFound(t *testing.T) {
	reg := NewSessionRegistry()

	if _, err := reg.Lookup("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionRegistry_ChangeRoom(t *testing.T) {
	reg := NewSessionRegistry()
	reg.Register("s1", "alice", "general")

	session, err := reg.ChangeRoom("s1", "random")
	if err != nil {
		t.Fatalf("ChangeRoom should succeed: %v", err)
	}
	if session.Room != "random" {
		t.Errorf("expected room random, got %s", session.Room)
	}

	if _, err := reg.ChangeRoom("missing", "random"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionRegistry_Remove(t *testing.T) {
	reg := NewSessionRegistry()
	reg.Register("s1", "alice", "general")

	removed, err := reg.Remove("s1")
	if err != nil {
		t.Fatalf("Remove should succeed: %v", err)
	}
	if removed.Username != "alice" {
		t.Errorf("expected removed session for alice, got %+v", removed)
	}

	if _, err := reg.Lookup("s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("removed session should no longer resolve")
	}
	if _, err := reg.Remove("s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("double remove should report ErrSessionNotFound, got %v", err)
	}
}

func TestSessionRegistry_ListAllSnapshotIsDetached(t *testing.T) {
	reg := NewSessionRegistry()
	reg.Register("s1", "alice", "general")

	snapshot := reg.ListAll()
	if len(snapshot) != 1 {
		t.Fatalf("expected 1 session, got %d", len(snapshot))
	}

	// Mutating the snapshot must not leak back into the registry.
	snapshot[0].Username = "mallory"

	session, err := reg.Lookup("s1")
	if err != nil {
		t.Fatalf("Lookup should succeed: %v", err)
	}
	if session.Username != "alice" {
		t.Error("snapshot mutation leaked into registry")
	}
}

func TestSessionRegistry_ListAllStableOrder(t *testing.T) {
	reg := NewSessionRegistry()
	for i := 0; i < 10; i++ {
		reg.Register(fmt.Sprintf("s%02d", i), "user", "general")
	}

	first := reg.ListAll()
	second := reg.ListAll()
	if len(first) != 10 || len(second) != 10 {
		t.Fatalf("expected 10 sessions, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("iteration order unstable at index %d: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}
}

func TestSessionRegistry_ConcurrentAccess(t *testing.T) {
	reg := NewSessionRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", n)
			reg.Register(id, "user", "general")
			reg.Lookup(id)
			reg.ListAll()
			if n%2 == 0 {
				reg.ChangeRoom(id, "random")
			}
		}(i)
	}
	wg.Wait()

	if reg.Count() != 50 {
		t.Errorf("expected 50 sessions after concurrent registration, got %d", reg.Count())
	}
}
