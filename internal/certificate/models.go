package certificate

import (
	"time"

	id "certvault/pkg/domain"
	dErrors "certvault/pkg/domain-errors"

	"certvault/internal/evidence"
)

// Certificate is one uploaded credential claim.
//
// Invariants:
//   - Title is non-empty
//   - Type is a member of the closed certificate_type enumeration
//   - OwnerID and Type are set at creation and never mutated
//   - Status moves only through verification decisions; every status
//     change bumps Version (optimistic concurrency)
//   - CreatedAt is immutable; UpdatedAt is non-decreasing
//
// Evidence is optional at submission time: a record may exist with no file
// digest, in which case it can never be cryptographically checked. That is
// inherited behavior, kept deliberately.
type Certificate struct {
	ID            id.CertificateID  `json:"id"`
	OwnerID       id.ProfileID      `json:"owner_id"`
	InstitutionID *id.InstitutionID `json:"institution_id,omitempty"`

	Type  id.CertificateType `json:"certificate_type"`
	Title string             `json:"title"`

	RollNumber        string     `json:"roll_number,omitempty"`
	CertificateNumber string     `json:"certificate_number,omitempty"`
	DegreeName        string     `json:"degree_name,omitempty"`
	FieldOfStudy      string     `json:"field_of_study,omitempty"`
	Grade             string     `json:"grade,omitempty"`
	Score             *float64   `json:"score,omitempty"`
	IssueDate         *time.Time `json:"issue_date,omitempty"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`

	FileDigest string         `json:"file_digest,omitempty"`
	FileURL    string         `json:"file_url,omitempty"`
	Extracted  map[string]any `json:"extracted_fields,omitempty"`

	Status  id.CertificateStatus `json:"status"`
	Version int64                `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewParams carries everything needed to construct a pending certificate.
type NewParams struct {
	ID            id.CertificateID
	OwnerID       id.ProfileID
	InstitutionID *id.InstitutionID
	Type          id.CertificateType
	Title         string

	RollNumber        string
	CertificateNumber string
	DegreeName        string
	FieldOfStudy      string
	Grade             string
	Score             *float64
	IssueDate         *time.Time
	ExpiryDate        *time.Time

	FileDigest string
	FileURL    string
	Extracted  map[string]any

	// ScoreMax bounds Score when non-zero.
	ScoreMax float64

	Now time.Time
}

// NewCertificate validates params and returns a certificate in pending
// status. The owner comes from the acting identity, never from client input;
// enforcing that is the service's job.
func NewCertificate(p NewParams) (*Certificate, error) {
	if p.Title == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if _, err := id.ParseCertificateType(p.Type.String()); err != nil {
		return nil, err
	}
	if p.OwnerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "certificate must have an owner")
	}
	if p.FileDigest != "" {
		if err := evidence.ValidateDigest(p.FileDigest); err != nil {
			return nil, err
		}
	}
	if p.Score != nil {
		if *p.Score < 0 {
			return nil, dErrors.New(dErrors.CodeValidation, "score cannot be negative")
		}
		if p.ScoreMax > 0 && *p.Score > p.ScoreMax {
			return nil, dErrors.New(dErrors.CodeValidation, "score exceeds the configured maximum")
		}
	}
	if err := ValidateExtracted(p.Extracted); err != nil {
		return nil, err
	}

	return &Certificate{
		ID:                p.ID,
		OwnerID:           p.OwnerID,
		InstitutionID:     p.InstitutionID,
		Type:              p.Type,
		Title:             p.Title,
		RollNumber:        p.RollNumber,
		CertificateNumber: p.CertificateNumber,
		DegreeName:        p.DegreeName,
		FieldOfStudy:      p.FieldOfStudy,
		Grade:             p.Grade,
		Score:             p.Score,
		IssueDate:         p.IssueDate,
		ExpiryDate:        p.ExpiryDate,
		FileDigest:        p.FileDigest,
		FileURL:           p.FileURL,
		Extracted:         p.Extracted,
		Status:            id.StatusPending,
		Version:           1,
		CreatedAt:         p.Now,
		UpdatedAt:         p.Now,
	}, nil
}

// ApplyDecision records a verification outcome on the certificate.
// Re-verification from any status is allowed; history lives in the
// verification records, current state reflects the latest decision.
func (c *Certificate) ApplyDecision(status id.CertificateStatus, now time.Time) {
	c.Status = status
	c.Version++
	c.UpdatedAt = now
}

// ValidateExtracted checks the extracted-fields blob for well-formedness:
// a flat mapping of string keys to primitive values. Content is never
// interpreted; nothing downstream computes over these fields.
func ValidateExtracted(m map[string]any) error {
	for key, value := range m {
		if key == "" {
			return dErrors.New(dErrors.CodeValidation, "extracted field keys must be non-empty")
		}
		switch value.(type) {
		case string, bool, float64, int, int64:
		default:
			return dErrors.New(dErrors.CodeValidation, "extracted field values must be strings, numbers, or booleans")
		}
	}
	return nil
}
