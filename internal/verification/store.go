package verification

import (
	"context"

	id "certvault/pkg/domain"

	"certvault/internal/audit"
	"certvault/internal/certificate"
)

// Store is the append-only persistence boundary for verification records.
type Store interface {
	Append(ctx context.Context, rec *Record) error

	// ListByCertificate returns the certificate's records, newest first.
	ListByCertificate(ctx context.Context, certID id.CertificateID) ([]*Record, error)
}

// TxStores is the set of stores visible inside one transactional block.
// Everything written through them commits or rolls back together.
type TxStores struct {
	Certificates certificate.Store
	Records      Store
	Audit        AuditStore
}

// AuditStore is the transactional audit sink. The outbox implementation
// writes the event in the same transaction as the decision it describes.
type AuditStore interface {
	Record(ctx context.Context, event audit.Event) error
}

// TxRunner executes fn atomically. If fn returns an error, no write made
// through the TxStores survives.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(stores TxStores) error) error
}
