package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "certvault/pkg/domain"
	dErrors "certvault/pkg/domain-errors"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("signing-key")
	profileID := id.ProfileID(uuid.New())
	now := time.Now()

	token, err := svc.GenerateAccessToken(profileID, id.RoleRecruiter, now, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, profileID, claims.ProfileID)
	assert.Equal(t, id.RoleRecruiter, claims.Role)
	assert.NotEmpty(t, claims.JTI)
	assert.WithinDuration(t, now.Add(time.Hour), claims.ExpiresAt, time.Second)
}

func TestTokenRejections(t *testing.T) {
	svc := NewTokenService("signing-key")
	profileID := id.ProfileID(uuid.New())

	t.Run("expired token", func(t *testing.T) {
		token, err := svc.GenerateAccessToken(profileID, id.RoleStudent, time.Now().Add(-2*time.Hour), time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("wrong signing key", func(t *testing.T) {
		token, err := svc.GenerateAccessToken(profileID, id.RoleStudent, time.Now(), time.Hour)
		require.NoError(t, err)

		other := NewTokenService("different-key")
		_, err = other.ValidateToken(token)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.jwt")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
