package audit

import (
	"time"

	"github.com/google/uuid"

	id "certvault/pkg/domain"
)

// Kinds of recorded events. The stream is append-only; consumers key on
// these strings, so they never change once emitted.
const (
	KindCertificateSubmitted = "certificate.submitted"
	KindCertificateDeleted   = "certificate.deleted"
	KindCertificateVerified  = "certificate.verified"
)

// Event is one audit entry. Events land in a database outbox in the same
// transaction as the change they describe, and a background worker drains
// the outbox to Kafka.
type Event struct {
	ID            uuid.UUID         `json:"id"`
	Kind          string            `json:"kind"`
	ActorID       id.ProfileID      `json:"actor_id"`
	CertificateID id.CertificateID  `json:"certificate_id"`
	Payload       map[string]string `json:"payload,omitempty"`
	OccurredAt    time.Time         `json:"occurred_at"`
}

// NewEvent stamps a fresh event. Callers supply the request-scoped time so
// the audit timestamp matches the change it records.
func NewEvent(kind string, actorID id.ProfileID, certID id.CertificateID, payload map[string]string, now time.Time) Event {
	return Event{
		ID:            uuid.New(),
		Kind:          kind,
		ActorID:       actorID,
		CertificateID: certID,
		Payload:       payload,
		OccurredAt:    now,
	}
}
