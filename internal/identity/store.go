package identity

import (
	"context"
	"time"

	id "certvault/pkg/domain"
)

// Store is the persistence boundary for profiles and role assignments.
// Implementations return sentinel errors; the service translates them.
type Store interface {
	// CreateProfile persists the profile, its credential hash, and its
	// role assignment as one unit. Returns sentinel.ErrConflict when the
	// email is already registered.
	CreateProfile(ctx context.Context, p *Profile, passwordHash string, role id.Role) error

	// FindByEmail returns the profile and its credential hash.
	FindByEmail(ctx context.Context, email string) (*Profile, string, error)

	FindByID(ctx context.Context, profileID id.ProfileID) (*Profile, error)

	// FindRole returns the single authoritative role for a profile.
	FindRole(ctx context.Context, profileID id.ProfileID) (id.Role, error)
}

// RevocationStore tracks tokens signed out before their natural expiry.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}
