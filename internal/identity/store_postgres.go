package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	id "certvault/pkg/domain"
	"certvault/pkg/platform/sentinel"
	txcontext "certvault/pkg/platform/tx"
)

// PostgresStore persists profiles, credentials, and role assignments.
// This store is pure I/O; credential policy lives in the service.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) CreateProfile(ctx context.Context, p *Profile, passwordHash string, role id.Role) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create profile: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	ctx = txcontext.WithTx(ctx, tx)

	if err := s.insertProfile(ctx, p, passwordHash); err != nil {
		return err
	}
	if err := s.upsertRole(ctx, p.ID, role, p.CreatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) insertProfile(ctx context.Context, p *Profile, passwordHash string) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO profiles (id, email, full_name, avatar_url, phone, password_hash, created_at, updated_at)
		VALUES ($1, LOWER($2), $3, $4, $5, $6, $7, $8)
	`, p.ID.String(), p.Email, p.FullName, p.AvatarURL, p.Phone, passwordHash, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// upsertRole keeps one role row per profile. The latest assignment wins on
// conflict.
func (s *PostgresStore) upsertRole(ctx context.Context, profileID id.ProfileID, role id.Role, at time.Time) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO user_roles (profile_id, role, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (profile_id) DO UPDATE SET role = EXCLUDED.role
	`, profileID.String(), role.String(), at)
	if err != nil {
		return fmt.Errorf("upsert role assignment: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*Profile, string, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `
		SELECT id, email, full_name, avatar_url, phone, password_hash, created_at, updated_at
		FROM profiles
		WHERE email = LOWER($1)
	`, email)

	p, hash, err := scanProfileWithHash(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", sentinel.ErrNotFound
		}
		return nil, "", fmt.Errorf("find profile by email: %w", err)
	}
	return p, hash, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, profileID id.ProfileID) (*Profile, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `
		SELECT id, email, full_name, avatar_url, phone, password_hash, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`, profileID.String())

	p, _, err := scanProfileWithHash(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find profile by id: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) FindRole(ctx context.Context, profileID id.ProfileID) (id.Role, error) {
	var raw string
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT role FROM user_roles WHERE profile_id = $1
	`, profileID.String()).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", sentinel.ErrNotFound
		}
		return "", fmt.Errorf("find role: %w", err)
	}
	return id.ParseRole(raw)
}

func scanProfileWithHash(row *sql.Row) (*Profile, string, error) {
	var (
		p        Profile
		rawID    string
		fullName sql.NullString
		avatar   sql.NullString
		phone    sql.NullString
		hash     string
	)
	err := row.Scan(&rawID, &p.Email, &fullName, &avatar, &phone, &hash, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, "", err
	}
	profileID, err := id.ParseProfileID(rawID)
	if err != nil {
		return nil, "", err
	}
	p.ID = profileID
	p.FullName = fullName.String
	p.AvatarURL = avatar.String
	p.Phone = phone.String
	return &p, hash, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
