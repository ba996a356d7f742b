// Package domain holds the shared primitives of the certificate platform:
// typed identifiers and the closed enumerations every slice agrees on.
// Parsing happens at trust boundaries; once a value is inside a typed
// wrapper the rest of the code can rely on it being well formed.
package domain

import (
	"github.com/google/uuid"

	dErrors "certvault/pkg/domain-errors"
)

// Typed UUID identifiers. Distinct types keep a CertificateID from being
// passed where a ProfileID is expected; the compiler does the checking.
type (
	ProfileID      uuid.UUID
	CertificateID  uuid.UUID
	InstitutionID  uuid.UUID
	VerificationID uuid.UUID
)

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return u, nil
}

// Fresh identifiers for newly created entities.
func NewProfileID() ProfileID           { return ProfileID(uuid.New()) }
func NewCertificateID() CertificateID   { return CertificateID(uuid.New()) }
func NewInstitutionID() InstitutionID   { return InstitutionID(uuid.New()) }
func NewVerificationID() VerificationID { return VerificationID(uuid.New()) }

// ParseProfileID validates s as a non-nil UUID.
func ParseProfileID(s string) (ProfileID, error) {
	u, err := parseUUID(s)
	return ProfileID(u), err
}

func ParseCertificateID(s string) (CertificateID, error) {
	u, err := parseUUID(s)
	return CertificateID(u), err
}

func ParseInstitutionID(s string) (InstitutionID, error) {
	u, err := parseUUID(s)
	return InstitutionID(u), err
}

func ParseVerificationID(s string) (VerificationID, error) {
	u, err := parseUUID(s)
	return VerificationID(u), err
}

func (id ProfileID) String() string      { return uuid.UUID(id).String() }
func (id CertificateID) String() string  { return uuid.UUID(id).String() }
func (id InstitutionID) String() string  { return uuid.UUID(id).String() }
func (id VerificationID) String() string { return uuid.UUID(id).String() }

func (id ProfileID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id CertificateID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id InstitutionID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id VerificationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText lets typed IDs serialize as plain UUID strings in JSON.
func (id ProfileID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id CertificateID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id InstitutionID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id VerificationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *ProfileID) UnmarshalText(b []byte) error {
	parsed, err := ParseProfileID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *CertificateID) UnmarshalText(b []byte) error {
	parsed, err := ParseCertificateID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *InstitutionID) UnmarshalText(b []byte) error {
	parsed, err := ParseInstitutionID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *VerificationID) UnmarshalText(b []byte) error {
	parsed, err := ParseVerificationID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
