package certificate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "certvault/pkg/domain"
	"certvault/pkg/platform/sentinel"
)

func testCert(t *testing.T, owner id.ProfileID, createdAt time.Time) *Certificate {
	t.Helper()
	cert, err := NewCertificate(NewParams{
		ID:      id.NewCertificateID(),
		OwnerID: owner,
		Type:    id.TypeDegree,
		Title:   "B.Tech Computer Science",
		Now:     createdAt,
	})
	require.NoError(t, err)
	return cert
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	owner := id.NewProfileID()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("create then find round-trips", func(t *testing.T) {
		store := NewInMemory()
		cert := testCert(t, owner, base)
		require.NoError(t, store.Create(ctx, cert))

		got, err := store.FindByID(ctx, cert.ID)
		require.NoError(t, err)
		assert.Equal(t, cert, got)
	})

	t.Run("find returns copies, not shared state", func(t *testing.T) {
		store := NewInMemory()
		cert := testCert(t, owner, base)
		require.NoError(t, store.Create(ctx, cert))

		got, err := store.FindByID(ctx, cert.ID)
		require.NoError(t, err)
		got.Title = "tampered"

		again, err := store.FindByID(ctx, cert.ID)
		require.NoError(t, err)
		assert.Equal(t, "B.Tech Computer Science", again.Title)
	})

	t.Run("list by owner is newest first and owner-scoped", func(t *testing.T) {
		store := NewInMemory()
		older := testCert(t, owner, base)
		newer := testCert(t, owner, base.Add(time.Hour))
		other := testCert(t, id.NewProfileID(), base.Add(2*time.Hour))
		for _, c := range []*Certificate{older, newer, other} {
			require.NoError(t, store.Create(ctx, c))
		}

		got, err := store.ListByOwner(ctx, owner)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, newer.ID, got[0].ID)
		assert.Equal(t, older.ID, got[1].ID)
	})

	t.Run("delete removes the row", func(t *testing.T) {
		store := NewInMemory()
		cert := testCert(t, owner, base)
		require.NoError(t, store.Create(ctx, cert))
		require.NoError(t, store.Delete(ctx, cert.ID))

		_, err := store.FindByID(ctx, cert.ID)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
		assert.ErrorIs(t, store.Delete(ctx, cert.ID), sentinel.ErrNotFound)
	})

	t.Run("versioned update applies once per version", func(t *testing.T) {
		store := NewInMemory()
		cert := testCert(t, owner, base)
		require.NoError(t, store.Create(ctx, cert))

		now := base.Add(time.Minute)
		require.NoError(t, store.UpdateStatusVersioned(ctx, cert.ID, id.StatusVerified, 1, now))

		got, err := store.FindByID(ctx, cert.ID)
		require.NoError(t, err)
		assert.Equal(t, id.StatusVerified, got.Status)
		assert.Equal(t, int64(2), got.Version)

		err = store.UpdateStatusVersioned(ctx, cert.ID, id.StatusFlagged, 1, now)
		assert.ErrorIs(t, err, sentinel.ErrConflict)
	})

	t.Run("restore rolls back to a snapshot", func(t *testing.T) {
		store := NewInMemory()
		cert := testCert(t, owner, base)
		require.NoError(t, store.Create(ctx, cert))

		snap := store.Snapshot()
		require.NoError(t, store.UpdateStatusVersioned(ctx, cert.ID, id.StatusVerified, 1, base.Add(time.Minute)))
		store.Restore(snap)

		got, err := store.FindByID(ctx, cert.ID)
		require.NoError(t, err)
		assert.Equal(t, id.StatusPending, got.Status)
		assert.Equal(t, int64(1), got.Version)
	})
}
