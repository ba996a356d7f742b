package verification

import (
	"context"
	"sync"

	"certvault/internal/audit"
	"certvault/internal/certificate"
)

// InMemoryTxRunner gives the in-memory stores transaction semantics by
// snapshotting before the block and restoring on failure. Blocks run one
// at a time; the stores themselves stay safe for concurrent reads.
type InMemoryTxRunner struct {
	mu      sync.Mutex
	certs   *certificate.InMemoryStore
	records *InMemoryStore
	audits  *audit.InMemoryStore
}

func NewInMemoryTxRunner(certs *certificate.InMemoryStore, records *InMemoryStore, audits *audit.InMemoryStore) *InMemoryTxRunner {
	return &InMemoryTxRunner{certs: certs, records: records, audits: audits}
}

func (r *InMemoryTxRunner) RunInTx(_ context.Context, fn func(stores TxStores) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	certSnap := r.certs.Snapshot()
	recSnap := r.records.Snapshot()
	auditSnap := r.audits.Snapshot()

	err := fn(TxStores{
		Certificates: r.certs,
		Records:      r.records,
		Audit:        r.audits,
	})
	if err != nil {
		r.certs.Restore(certSnap)
		r.records.Restore(recSnap)
		r.audits.Restore(auditSnap)
		return err
	}
	return nil
}
