package verification

import (
	"context"
	"database/sql"
	"fmt"

	id "certvault/pkg/domain"
)

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// PostgresStore persists verification records in PostgreSQL. There is no
// update or delete path; the table is append-only by construction.
type PostgresStore struct {
	db dbtx
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func NewPostgresTx(tx *sql.Tx) *PostgresStore {
	return &PostgresStore{db: tx}
}

func (s *PostgresStore) Append(ctx context.Context, rec *Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO verification_records
			(id, certificate_id, verified_by, verification_status,
			 verification_method, notes, blockchain_tx_hash, verified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, rec.ID.String(), rec.CertificateID.String(), rec.VerifiedBy.String(),
		rec.Status.String(), rec.Method,
		sql.NullString{String: rec.Notes, Valid: rec.Notes != ""},
		sql.NullString{String: rec.AnchorHash, Valid: rec.AnchorHash != ""},
		rec.VerifiedAt)
	if err != nil {
		return fmt.Errorf("insert verification record: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByCertificate(ctx context.Context, certID id.CertificateID) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, certificate_id, verified_by, verification_status,
		       verification_method, notes, blockchain_tx_hash, verified_at
		FROM verification_records
		WHERE certificate_id = $1
		ORDER BY verified_at DESC, id DESC
	`, certID.String())
	if err != nil {
		return nil, fmt.Errorf("list verification records: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		var (
			rec        Record
			rawID      string
			rawCert    string
			rawBy      string
			rawStatus  string
			notes      sql.NullString
			anchorHash sql.NullString
		)
		if err := rows.Scan(&rawID, &rawCert, &rawBy, &rawStatus,
			&rec.Method, &notes, &anchorHash, &rec.VerifiedAt); err != nil {
			return nil, fmt.Errorf("scan verification record: %w", err)
		}
		if rec.ID, err = id.ParseVerificationID(rawID); err != nil {
			return nil, err
		}
		if rec.CertificateID, err = id.ParseCertificateID(rawCert); err != nil {
			return nil, err
		}
		if rec.VerifiedBy, err = id.ParseProfileID(rawBy); err != nil {
			return nil, err
		}
		if rec.Status, err = id.ParseCertificateStatus(rawStatus); err != nil {
			return nil, err
		}
		rec.Notes = notes.String
		rec.AnchorHash = anchorHash.String
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verification records: %w", err)
	}
	return out, nil
}
