package certificate

import (
	"context"
	"sort"
	"sync"
	"time"

	id "certvault/pkg/domain"
	"certvault/pkg/platform/sentinel"
)

// InMemoryStore keeps certificates in a map. Used in tests and for
// dev instances that run without Postgres.
type InMemoryStore struct {
	mu    sync.RWMutex
	certs map[id.CertificateID]*Certificate
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{certs: make(map[id.CertificateID]*Certificate)}
}

func (s *InMemoryStore) Create(_ context.Context, c *Certificate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.certs[c.ID]; ok {
		return sentinel.ErrConflict
	}
	s.certs[c.ID] = clone(c)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, certID id.CertificateID) (*Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.certs[certID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(c), nil
}

func (s *InMemoryStore) ListByOwner(_ context.Context, ownerID id.ProfileID) ([]*Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Certificate
	for _, c := range s.certs {
		if c.OwnerID == ownerID {
			out = append(out, clone(c))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]*Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Certificate, 0, len(s.certs))
	for _, c := range s.certs {
		out = append(out, clone(c))
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemoryStore) Delete(_ context.Context, certID id.CertificateID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.certs[certID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.certs, certID)
	return nil
}

func (s *InMemoryStore) UpdateStatusVersioned(_ context.Context, certID id.CertificateID, status id.CertificateStatus, expectedVersion int64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.certs[certID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if c.Version != expectedVersion {
		return sentinel.ErrConflict
	}
	c.ApplyDecision(status, now)
	return nil
}

// Snapshot copies the full state so a failed transactional block can roll
// back with Restore. Only the in-memory transaction runner uses these.
func (s *InMemoryStore) Snapshot() map[id.CertificateID]*Certificate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := make(map[id.CertificateID]*Certificate, len(s.certs))
	for k, v := range s.certs {
		snap[k] = clone(v)
	}
	return snap
}

func (s *InMemoryStore) Restore(snap map[id.CertificateID]*Certificate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.certs = make(map[id.CertificateID]*Certificate, len(snap))
	for k, v := range snap {
		s.certs[k] = clone(v)
	}
}

func clone(c *Certificate) *Certificate {
	cp := *c
	if c.InstitutionID != nil {
		v := *c.InstitutionID
		cp.InstitutionID = &v
	}
	if c.Score != nil {
		v := *c.Score
		cp.Score = &v
	}
	if c.IssueDate != nil {
		v := *c.IssueDate
		cp.IssueDate = &v
	}
	if c.ExpiryDate != nil {
		v := *c.ExpiryDate
		cp.ExpiryDate = &v
	}
	if c.Extracted != nil {
		m := make(map[string]any, len(c.Extracted))
		for k, v := range c.Extracted {
			m[k] = v
		}
		cp.Extracted = m
	}
	return &cp
}

func sortNewestFirst(certs []*Certificate) {
	sort.Slice(certs, func(i, j int) bool {
		if certs[i].CreatedAt.Equal(certs[j].CreatedAt) {
			return certs[i].ID.String() > certs[j].ID.String()
		}
		return certs[i].CreatedAt.After(certs[j].CreatedAt)
	})
}
