package main

import (
	"context"
	"database/sql"
	"fmt"

	"certvault/internal/audit"
	"certvault/internal/certificate"
	"certvault/internal/verification"
)

// postgresTxRunner executes a verification block inside one database
// transaction, binding transaction-scoped stores over the shared tables.
type postgresTxRunner struct {
	db *sql.DB
}

func newPostgresTxRunner(db *sql.DB) *postgresTxRunner {
	return &postgresTxRunner{db: db}
}

func (r *postgresTxRunner) RunInTx(ctx context.Context, fn func(stores verification.TxStores) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin verification tx: %w", err)
	}

	stores := verification.TxStores{
		Certificates: certificate.NewPostgresTx(tx),
		Records:      verification.NewPostgresTx(tx),
		Audit:        audit.NewPostgresTx(tx),
	}
	if err := fn(stores); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback verification tx: %v (original error: %w)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit verification tx: %w", err)
	}
	return nil
}
