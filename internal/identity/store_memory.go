package identity

import (
	"context"
	"strings"
	"sync"
	"time"

	id "certvault/pkg/domain"
	"certvault/pkg/platform/sentinel"
)

// In-memory stores keep development and tests lightweight. They intentionally
// favor clarity over performance.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[id.ProfileID]*Profile
	hashes   map[id.ProfileID]string
	roles    map[id.ProfileID]id.Role
	byEmail  map[string]id.ProfileID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		profiles: make(map[id.ProfileID]*Profile),
		hashes:   make(map[id.ProfileID]string),
		roles:    make(map[id.ProfileID]id.Role),
		byEmail:  make(map[string]id.ProfileID),
	}
}

func (s *InMemoryStore) CreateProfile(_ context.Context, p *Profile, passwordHash string, role id.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(p.Email)
	if _, exists := s.byEmail[key]; exists {
		return sentinel.ErrConflict
	}

	clone := *p
	s.profiles[p.ID] = &clone
	s.hashes[p.ID] = passwordHash
	s.roles[p.ID] = role
	s.byEmail[key] = p.ID
	return nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*Profile, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profileID, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, "", sentinel.ErrNotFound
	}
	clone := *s.profiles[profileID]
	return &clone, s.hashes[profileID], nil
}

func (s *InMemoryStore) FindByID(_ context.Context, profileID id.ProfileID) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[profileID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *InMemoryStore) FindRole(_ context.Context, profileID id.ProfileID) (id.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	role, ok := s.roles[profileID]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return role, nil
}

// InMemoryRevocationStore is the revocation fallback when Redis is not
// configured. Entries expire lazily on read.
type InMemoryRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewInMemoryRevocationStore() *InMemoryRevocationStore {
	return &InMemoryRevocationStore{revoked: make(map[string]time.Time)}
}

func (s *InMemoryRevocationStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = time.Now().Add(ttl)
	return nil
}

func (s *InMemoryRevocationStore) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.revoked[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(until) {
		delete(s.revoked, jti)
		return false, nil
	}
	return true, nil
}
