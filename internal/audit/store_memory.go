package audit

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type entry struct {
	event     Event
	published bool
}

// InMemoryStore is the outbox for tests and database-free dev instances.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []entry
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Record(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry{event: event})
	return nil
}

func (s *InMemoryStore) ListPending(_ context.Context, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.entries {
		if e.published {
			continue
		}
		out = append(out, e.event)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *InMemoryStore) MarkPublished(_ context.Context, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, eventID := range ids {
		set[eventID] = struct{}{}
	}
	for i := range s.entries {
		if _, ok := set[s.entries[i].event.ID]; ok {
			s.entries[i].published = true
		}
	}
	return nil
}

// Events returns every recorded event in order. Test helper.
func (s *InMemoryStore) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.event
	}
	return out
}

// Snapshot and Restore support the in-memory transaction runner.
func (s *InMemoryStore) Snapshot() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.event
	}
	return out
}

func (s *InMemoryStore) Restore(snap []Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]entry, 0, len(snap))
	for i, e := range s.entries {
		if i >= len(snap) {
			break
		}
		kept = append(kept, e)
	}
	s.entries = kept
}
