package institution

import (
	"context"
	"sort"
	"sync"

	id "certvault/pkg/domain"
	"certvault/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu           sync.RWMutex
	institutions map[id.InstitutionID]*Institution
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{institutions: make(map[id.InstitutionID]*Institution)}
}

func (s *InMemoryStore) Create(_ context.Context, inst *Institution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *inst
	s.institutions[inst.ID] = &clone
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, institutionID id.InstitutionID) (*Institution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.institutions[institutionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *inst
	return &clone, nil
}

func (s *InMemoryStore) ListVerified(_ context.Context) ([]*Institution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Institution
	for _, inst := range s.institutions {
		if inst.Verified {
			clone := *inst
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
