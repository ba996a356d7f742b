package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "certvault/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// IDs must be valid, non-empty, non-nil UUIDs.
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseProfileID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseCertificateID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseProfileID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseProfileID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, ProfileID(validUUID), id)
	})
}

func TestIDTextRoundTrip(t *testing.T) {
	original := CertificateID(uuid.New())

	text, err := original.MarshalText()
	require.NoError(t, err)

	var decoded CertificateID
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, original, decoded)
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"student", "recruiter", "institution_admin"} {
		role, err := ParseRole(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, role.String())
	}

	_, err := ParseRole("admin")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestParseCertificateType(t *testing.T) {
	for _, valid := range []string{"degree", "diploma", "certificate", "transcript", "marksheet", "other"} {
		_, err := ParseCertificateType(valid)
		require.NoError(t, err)
	}

	_, err := ParseCertificateType("badge")
	require.Error(t, err)
}

func TestParseCertificateStatus(t *testing.T) {
	// rejected is stored but never produced; it must still parse so
	// persisted rows round-trip.
	for _, valid := range []string{"pending", "verified", "flagged", "rejected"} {
		_, err := ParseCertificateStatus(valid)
		require.NoError(t, err)
	}

	_, err := ParseCertificateStatus("approved")
	require.Error(t, err)
}
