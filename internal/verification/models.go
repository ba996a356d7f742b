package verification

import (
	"time"

	id "certvault/pkg/domain"
)

// MethodBlockchainHash is the only verification method currently in use.
// The stored anchor hash makes each decision independently checkable.
const MethodBlockchainHash = "blockchain_hash"

// Record is one immutable verification decision. Records are append-only:
// re-verifying a certificate adds a record, it never rewrites one.
type Record struct {
	ID            id.VerificationID    `json:"id"`
	CertificateID id.CertificateID     `json:"certificate_id"`
	VerifiedBy    id.ProfileID         `json:"verified_by"`
	Status        id.CertificateStatus `json:"verification_status"`
	Method        string               `json:"verification_method"`
	Notes         string               `json:"notes,omitempty"`
	AnchorHash    string               `json:"blockchain_tx_hash,omitempty"`
	VerifiedAt    time.Time            `json:"verified_at"`
}
