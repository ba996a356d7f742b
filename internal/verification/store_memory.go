package verification

import (
	"context"
	"sort"
	"sync"

	id "certvault/pkg/domain"
)

// InMemoryStore keeps verification records in a map keyed by certificate.
type InMemoryStore struct {
	mu      sync.RWMutex
	byCert  map[id.CertificateID][]*Record
	records int
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{byCert: make(map[id.CertificateID][]*Record)}
}

func (s *InMemoryStore) Append(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.byCert[rec.CertificateID] = append(s.byCert[rec.CertificateID], &cp)
	s.records++
	return nil
}

func (s *InMemoryStore) ListByCertificate(_ context.Context, certID id.CertificateID) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.byCert[certID]
	out := make([]*Record, 0, len(recs))
	for _, r := range recs {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].VerifiedAt.Equal(out[j].VerifiedAt) {
			return out[i].ID.String() > out[j].ID.String()
		}
		return out[i].VerifiedAt.After(out[j].VerifiedAt)
	})
	return out, nil
}

// Len reports the total number of stored records. Test helper.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Snapshot and Restore support the in-memory transaction runner.
func (s *InMemoryStore) Snapshot() map[id.CertificateID][]*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := make(map[id.CertificateID][]*Record, len(s.byCert))
	for k, recs := range s.byCert {
		cp := make([]*Record, len(recs))
		for i, r := range recs {
			v := *r
			cp[i] = &v
		}
		snap[k] = cp
	}
	return snap
}

func (s *InMemoryStore) Restore(snap map[id.CertificateID][]*Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byCert = make(map[id.CertificateID][]*Record, len(snap))
	s.records = 0
	for k, recs := range snap {
		cp := make([]*Record, len(recs))
		for i, r := range recs {
			v := *r
			cp[i] = &v
		}
		s.byCert[k] = cp
		s.records += len(cp)
	}
}
