//go:build integration

package identity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "certvault/pkg/domain"
	"certvault/pkg/platform/sentinel"
	txcontext "certvault/pkg/platform/tx"
	"certvault/pkg/testutil/containers"

	"certvault/internal/identity"
)

func TestPostgresStoreProfiles(t *testing.T) {
	pc := containers.NewPostgresContainer(t)
	ctx := context.Background()

	store := identity.NewPostgres(pc.DB)

	newProfile := func(email string) *identity.Profile {
		now := time.Now().UTC().Truncate(time.Microsecond)
		return &identity.Profile{
			ID:        id.NewProfileID(),
			Email:     email,
			FullName:  "Integration Profile",
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	t.Run("round trip with role", func(t *testing.T) {
		profile := newProfile("roundtrip@example.com")
		require.NoError(t, store.CreateProfile(ctx, profile, "hash", id.RoleStudent))

		got, hash, err := store.FindByEmail(ctx, "roundtrip@example.com")
		require.NoError(t, err)
		assert.Equal(t, profile.ID, got.ID)
		assert.Equal(t, "hash", hash)

		role, err := store.FindRole(ctx, profile.ID)
		require.NoError(t, err)
		assert.Equal(t, id.RoleStudent, role)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		require.NoError(t, store.CreateProfile(ctx, newProfile("dupe@example.com"), "hash", id.RoleStudent))

		err := store.CreateProfile(ctx, newProfile("dupe@example.com"), "hash", id.RoleRecruiter)
		require.True(t, errors.Is(err, sentinel.ErrConflict))
	})

	t.Run("reads join an ambient transaction", func(t *testing.T) {
		profile := newProfile("ambient@example.com")

		tx, err := pc.DB.BeginTx(ctx, nil)
		require.NoError(t, err)
		defer func() {
			_ = tx.Rollback()
		}()

		_, err = tx.ExecContext(ctx, `
			INSERT INTO profiles (id, email, full_name, password_hash, created_at, updated_at)
			VALUES ($1, LOWER($2), $3, $4, $5, $6)
		`, profile.ID.String(), profile.Email, profile.FullName, "hash", profile.CreatedAt, profile.UpdatedAt)
		require.NoError(t, err)

		// Visible through the transaction, invisible outside it.
		got, err := store.FindByID(txcontext.WithTx(ctx, tx), profile.ID)
		require.NoError(t, err)
		assert.Equal(t, profile.Email, got.Email)

		_, err = store.FindByID(ctx, profile.ID)
		require.True(t, errors.Is(err, sentinel.ErrNotFound))
	})
}
