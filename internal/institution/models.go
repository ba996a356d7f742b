package institution

import (
	"time"

	id "certvault/pkg/domain"
	dErrors "certvault/pkg/domain-errors"
)

// Institution is an issuing body. The verified flag is an institution-level
// trust signal: only verified institutions appear in the submission picker.
type Institution struct {
	ID        id.InstitutionID `json:"id"`
	Name      string           `json:"name"`
	Code      string           `json:"code,omitempty"`
	Address   string           `json:"address,omitempty"`
	City      string           `json:"city,omitempty"`
	State     string           `json:"state,omitempty"`
	Verified  bool             `json:"is_verified"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func NewInstitution(institutionID id.InstitutionID, name string, now time.Time) (*Institution, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "institution name cannot be empty")
	}
	return &Institution{
		ID:        institutionID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
