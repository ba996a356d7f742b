//go:build integration

package certificate_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "certvault/pkg/domain"
	"certvault/pkg/platform/sentinel"
	"certvault/pkg/testutil/containers"

	"certvault/internal/certificate"
	"certvault/internal/identity"
)

func TestPostgresStore(t *testing.T) {
	pc := containers.NewPostgresContainer(t)
	ctx := context.Background()

	profiles := identity.NewPostgres(pc.DB)
	store := certificate.NewPostgres(pc.DB)

	newOwner := func(t *testing.T, email string) id.ProfileID {
		t.Helper()
		now := time.Now().UTC().Truncate(time.Microsecond)
		profile := &identity.Profile{
			ID:        id.NewProfileID(),
			Email:     email,
			FullName:  "Integration Owner",
			CreatedAt: now,
			UpdatedAt: now,
		}
		require.NoError(t, profiles.CreateProfile(ctx, profile, "x", id.RoleStudent))
		return profile.ID
	}

	newCert := func(t *testing.T, owner id.ProfileID) *certificate.Certificate {
		t.Helper()
		score := 8.5
		cert, err := certificate.NewCertificate(certificate.NewParams{
			ID:       id.NewCertificateID(),
			OwnerID:  owner,
			Type:     id.TypeDegree,
			Title:    "B.Tech Computer Science",
			Grade:    "A",
			Score:    &score,
			ScoreMax: 10,
			Extracted: map[string]any{
				"university": "Anna University",
				"year":       float64(2024),
			},
			Now: time.Now().UTC().Truncate(time.Microsecond),
		})
		require.NoError(t, err)
		require.NoError(t, store.Create(ctx, cert))
		return cert
	}

	t.Run("round-trips every field", func(t *testing.T) {
		require.NoError(t, pc.TruncateAll(ctx))
		owner := newOwner(t, "roundtrip@example.edu")
		cert := newCert(t, owner)

		got, err := store.FindByID(ctx, cert.ID)
		require.NoError(t, err)
		assert.Equal(t, cert.Title, got.Title)
		assert.Equal(t, cert.Grade, got.Grade)
		assert.Equal(t, *cert.Score, *got.Score)
		assert.Equal(t, cert.Extracted, got.Extracted)
		assert.Equal(t, id.StatusPending, got.Status)
		assert.Equal(t, int64(1), got.Version)
	})

	t.Run("versioned update conflicts on stale version", func(t *testing.T) {
		require.NoError(t, pc.TruncateAll(ctx))
		owner := newOwner(t, "versioned@example.edu")
		cert := newCert(t, owner)
		now := time.Now().UTC().Truncate(time.Microsecond)

		require.NoError(t, store.UpdateStatusVersioned(ctx, cert.ID, id.StatusVerified, 1, now))
		err := store.UpdateStatusVersioned(ctx, cert.ID, id.StatusFlagged, 1, now)
		assert.ErrorIs(t, err, sentinel.ErrConflict)

		got, err := store.FindByID(ctx, cert.ID)
		require.NoError(t, err)
		assert.Equal(t, id.StatusVerified, got.Status)
		assert.Equal(t, int64(2), got.Version)
	})

	t.Run("missing rows surface as not found", func(t *testing.T) {
		_, err := store.FindByID(ctx, id.NewCertificateID())
		assert.ErrorIs(t, err, sentinel.ErrNotFound)

		err = store.UpdateStatusVersioned(ctx, id.NewCertificateID(), id.StatusVerified, 1, time.Now().UTC())
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("owner listing is newest first", func(t *testing.T) {
		require.NoError(t, pc.TruncateAll(ctx))
		owner := newOwner(t, "listing@example.edu")
		first := newCert(t, owner)
		time.Sleep(10 * time.Millisecond)
		second := newCert(t, owner)

		got, err := store.ListByOwner(ctx, owner)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, second.ID, got[0].ID)
		assert.Equal(t, first.ID, got[1].ID)
	})
}
