package certificate

import (
	"context"
	"time"

	id "certvault/pkg/domain"
)

// Store is the persistence boundary for certificates. Implementations
// return sentinel errors from pkg/platform/sentinel; translation into
// domain errors happens in services.
type Store interface {
	Create(ctx context.Context, c *Certificate) error

	FindByID(ctx context.Context, certID id.CertificateID) (*Certificate, error)

	// ListByOwner returns the owner's certificates, newest first.
	ListByOwner(ctx context.Context, ownerID id.ProfileID) ([]*Certificate, error)

	// ListAll returns every certificate, newest first.
	ListAll(ctx context.Context) ([]*Certificate, error)

	// Delete removes the certificate row. Returns sentinel.ErrNotFound
	// when no such certificate exists.
	Delete(ctx context.Context, certID id.CertificateID) error

	// UpdateStatusVersioned applies a status decision only if the stored
	// version still equals expectedVersion, bumping the version by one.
	// Returns sentinel.ErrConflict on a version mismatch and
	// sentinel.ErrNotFound when the row is gone.
	UpdateStatusVersioned(ctx context.Context, certID id.CertificateID, status id.CertificateStatus, expectedVersion int64, now time.Time) error
}
