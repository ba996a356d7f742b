package domain

import (
	dErrors "certvault/pkg/domain-errors"
)

// Role is the single authoritative role a profile holds.
type Role string

const (
	RoleStudent          Role = "student"
	RoleRecruiter        Role = "recruiter"
	RoleInstitutionAdmin Role = "institution_admin"
)

var validRoles = map[Role]struct{}{
	RoleStudent:          {},
	RoleRecruiter:        {},
	RoleInstitutionAdmin: {},
}

// ParseRole validates s against the closed role set.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := validRoles[r]; !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown role")
	}
	return r, nil
}

func (r Role) String() string { return string(r) }

// CertificateStatus is the lifecycle state of a certificate record.
//
// StatusRejected is part of the stored enumeration but no operation
// produces it; it is reserved for a manual-review path that does not
// exist yet. Parsing accepts it so persisted rows always round-trip.
type CertificateStatus string

const (
	StatusPending  CertificateStatus = "pending"
	StatusVerified CertificateStatus = "verified"
	StatusFlagged  CertificateStatus = "flagged"
	StatusRejected CertificateStatus = "rejected"
)

var validStatuses = map[CertificateStatus]struct{}{
	StatusPending:  {},
	StatusVerified: {},
	StatusFlagged:  {},
	StatusRejected: {},
}

func ParseCertificateStatus(s string) (CertificateStatus, error) {
	st := CertificateStatus(s)
	if _, ok := validStatuses[st]; !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown certificate status")
	}
	return st, nil
}

func (s CertificateStatus) String() string { return string(s) }

// CertificateType classifies the credential being claimed.
type CertificateType string

const (
	TypeDegree      CertificateType = "degree"
	TypeDiploma     CertificateType = "diploma"
	TypeCertificate CertificateType = "certificate"
	TypeTranscript  CertificateType = "transcript"
	TypeMarksheet   CertificateType = "marksheet"
	TypeOther       CertificateType = "other"
)

var validTypes = map[CertificateType]struct{}{
	TypeDegree:      {},
	TypeDiploma:     {},
	TypeCertificate: {},
	TypeTranscript:  {},
	TypeMarksheet:   {},
	TypeOther:       {},
}

func ParseCertificateType(s string) (CertificateType, error) {
	t := CertificateType(s)
	if _, ok := validTypes[t]; !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown certificate type")
	}
	return t, nil
}

func (t CertificateType) String() string { return string(t) }
