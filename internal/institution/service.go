package institution

import (
	"context"
	"errors"

	id "certvault/pkg/domain"
	dErrors "certvault/pkg/domain-errors"
	"certvault/pkg/platform/sentinel"
)

// Service exposes the read paths the submission flow needs.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// ListVerified returns the institutions offered in the submission picker.
func (s *Service) ListVerified(ctx context.Context) ([]*Institution, error) {
	out, err := s.store.ListVerified(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list institutions")
	}
	return out, nil
}

// Get resolves one institution; used when joining certificate listings.
func (s *Service) Get(ctx context.Context, institutionID id.InstitutionID) (*Institution, error) {
	inst, err := s.store.FindByID(ctx, institutionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "institution not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load institution")
	}
	return inst, nil
}
