package audit

import (
	"context"

	"github.com/google/uuid"
)

// Store is the audit outbox. Record appends an event; the publish worker
// drains pending events to Kafka and marks them published.
type Store interface {
	Record(ctx context.Context, event Event) error

	// ListPending returns up to limit unpublished events, oldest first.
	ListPending(ctx context.Context, limit int) ([]Event, error)

	// MarkPublished flags the given events as delivered.
	MarkPublished(ctx context.Context, ids []uuid.UUID) error
}
