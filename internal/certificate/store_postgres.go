package certificate

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	id "certvault/pkg/domain"
	"certvault/pkg/platform/sentinel"
)

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx, so the
// same store runs standalone or inside a transactional block.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore persists certificates in PostgreSQL.
type PostgresStore struct {
	db dbtx
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// NewPostgresTx binds the store to an open transaction. Used by the
// transactional verification runner.
func NewPostgresTx(tx *sql.Tx) *PostgresStore {
	return &PostgresStore{db: tx}
}

const certColumns = `
	id, owner_id, institution_id, certificate_type, title,
	roll_number, certificate_number, degree_name, field_of_study, grade,
	score, issue_date, expiry_date,
	file_digest, file_url, extracted_fields,
	status, version, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, c *Certificate) error {
	extracted, err := marshalExtracted(c.Extracted)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO certificates (`+certColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`, c.ID.String(), c.OwnerID.String(), institutionArg(c.InstitutionID),
		c.Type.String(), c.Title,
		nullable(c.RollNumber), nullable(c.CertificateNumber), nullable(c.DegreeName),
		nullable(c.FieldOfStudy), nullable(c.Grade),
		c.Score, c.IssueDate, c.ExpiryDate,
		nullable(c.FileDigest), nullable(c.FileURL), extracted,
		c.Status.String(), c.Version, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert certificate: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, certID id.CertificateID) (*Certificate, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+certColumns+`
		FROM certificates
		WHERE id = $1
	`, certID.String())

	c, err := scanCertificate(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find certificate: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID id.ProfileID) ([]*Certificate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+certColumns+`
		FROM certificates
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`, ownerID.String())
	if err != nil {
		return nil, fmt.Errorf("list certificates by owner: %w", err)
	}
	return collectCertificates(rows)
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]*Certificate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+certColumns+`
		FROM certificates
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	return collectCertificates(rows)
}

func (s *PostgresStore) Delete(ctx context.Context, certID id.CertificateID) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM certificates WHERE id = $1
	`, certID.String())
	if err != nil {
		return fmt.Errorf("delete certificate: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete certificate rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpdateStatusVersioned(ctx context.Context, certID id.CertificateID, status id.CertificateStatus, expectedVersion int64, now time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE certificates
		SET status = $1, version = version + 1, updated_at = $2
		WHERE id = $3 AND version = $4
	`, status.String(), now, certID.String(), expectedVersion)
	if err != nil {
		return fmt.Errorf("update certificate status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update certificate rows affected: %w", err)
	}
	if affected == 1 {
		return nil
	}

	// Distinguish a stale version from a deleted row.
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM certificates WHERE id = $1)`,
		certID.String()).Scan(&exists); err != nil {
		return fmt.Errorf("check certificate existence: %w", err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	return sentinel.ErrConflict
}

func collectCertificates(rows *sql.Rows) ([]*Certificate, error) {
	defer rows.Close()
	var out []*Certificate
	for rows.Next() {
		c, err := scanCertificate(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate certificates: %w", err)
	}
	return out, nil
}

func scanCertificate(scan func(...any) error) (*Certificate, error) {
	var (
		c         Certificate
		rawID     string
		rawOwner  string
		rawInst   sql.NullString
		rawType   string
		rawStatus string

		rollNumber sql.NullString
		certNumber sql.NullString
		degreeName sql.NullString
		fieldName  sql.NullString
		grade      sql.NullString
		score      sql.NullFloat64
		issueDate  sql.NullTime
		expiryDate sql.NullTime
		digest     sql.NullString
		fileURL    sql.NullString
		extracted  []byte
	)

	if err := scan(&rawID, &rawOwner, &rawInst, &rawType, &c.Title,
		&rollNumber, &certNumber, &degreeName, &fieldName, &grade,
		&score, &issueDate, &expiryDate,
		&digest, &fileURL, &extracted,
		&rawStatus, &c.Version, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}

	var err error
	if c.ID, err = id.ParseCertificateID(rawID); err != nil {
		return nil, err
	}
	if c.OwnerID, err = id.ParseProfileID(rawOwner); err != nil {
		return nil, err
	}
	if rawInst.Valid {
		instID, err := id.ParseInstitutionID(rawInst.String)
		if err != nil {
			return nil, err
		}
		c.InstitutionID = &instID
	}
	if c.Type, err = id.ParseCertificateType(rawType); err != nil {
		return nil, err
	}
	if c.Status, err = id.ParseCertificateStatus(rawStatus); err != nil {
		return nil, err
	}

	c.RollNumber = rollNumber.String
	c.CertificateNumber = certNumber.String
	c.DegreeName = degreeName.String
	c.FieldOfStudy = fieldName.String
	c.Grade = grade.String
	if score.Valid {
		v := score.Float64
		c.Score = &v
	}
	if issueDate.Valid {
		v := issueDate.Time
		c.IssueDate = &v
	}
	if expiryDate.Valid {
		v := expiryDate.Time
		c.ExpiryDate = &v
	}
	c.FileDigest = digest.String
	c.FileURL = fileURL.String
	if len(extracted) > 0 {
		if err := json.Unmarshal(extracted, &c.Extracted); err != nil {
			return nil, fmt.Errorf("decode extracted fields: %w", err)
		}
	}
	return &c, nil
}

func marshalExtracted(m map[string]any) ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode extracted fields: %w", err)
	}
	return b, nil
}

func institutionArg(instID *id.InstitutionID) any {
	if instID == nil {
		return nil
	}
	return instID.String()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
