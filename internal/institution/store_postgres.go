package institution

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	id "certvault/pkg/domain"
	"certvault/pkg/platform/sentinel"
)

// PostgresStore persists institutions in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, inst *Institution) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO institutions (id, name, code, address, city, state, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, inst.ID.String(), inst.Name, nullable(inst.Code), nullable(inst.Address),
		nullable(inst.City), nullable(inst.State), inst.Verified, inst.CreatedAt, inst.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert institution: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, institutionID id.InstitutionID) (*Institution, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, code, address, city, state, is_verified, created_at, updated_at
		FROM institutions
		WHERE id = $1
	`, institutionID.String())

	inst, err := scanInstitution(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find institution: %w", err)
	}
	return inst, nil
}

func (s *PostgresStore) ListVerified(ctx context.Context) ([]*Institution, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, code, address, city, state, is_verified, created_at, updated_at
		FROM institutions
		WHERE is_verified = TRUE
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list verified institutions: %w", err)
	}
	defer rows.Close()

	var out []*Institution
	for rows.Next() {
		inst, err := scanInstitution(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan institution: %w", err)
		}
		out = append(out, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate institutions: %w", err)
	}
	return out, nil
}

func scanInstitution(scan func(...any) error) (*Institution, error) {
	var (
		inst  Institution
		rawID string
		code  sql.NullString
		addr  sql.NullString
		city  sql.NullString
		state sql.NullString
	)
	err := scan(&rawID, &inst.Name, &code, &addr, &city, &state, &inst.Verified, &inst.CreatedAt, &inst.UpdatedAt)
	if err != nil {
		return nil, err
	}
	parsed, err := id.ParseInstitutionID(rawID)
	if err != nil {
		return nil, err
	}
	inst.ID = parsed
	inst.Code = code.String
	inst.Address = addr.String
	inst.City = city.String
	inst.State = state.String
	return &inst, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
