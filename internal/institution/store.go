package institution

import (
	"context"

	id "certvault/pkg/domain"
)

// Store is pure I/O for institutions; implementations return sentinel errors.
type Store interface {
	Create(ctx context.Context, inst *Institution) error
	FindByID(ctx context.Context, institutionID id.InstitutionID) (*Institution, error)
	// ListVerified returns verified institutions ordered by name.
	ListVerified(ctx context.Context) ([]*Institution, error)
}
