package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "certvault/pkg/domain"
	dErrors "certvault/pkg/domain-errors"
	"certvault/pkg/requestcontext"
)

func newTestService() *Service {
	return NewService(
		NewInMemoryStore(),
		NewInMemoryRevocationStore(),
		NewTokenService("test-signing-key"),
		time.Hour,
		nil,
	)
}

func signUpReq() SignUpRequest {
	return SignUpRequest{
		Email:    "ananya@example.edu",
		Password: "correct-horse-battery",
		FullName: "Ananya Rao",
		Role:     "student",
	}
}

func TestSignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a session with the chosen role", func(t *testing.T) {
		svc := newTestService()
		session, err := svc.SignUp(ctx, signUpReq())
		require.NoError(t, err)

		assert.NotEmpty(t, session.AccessToken)
		assert.Equal(t, id.RoleStudent, session.Role)
		assert.False(t, session.ProfileID.IsNil())
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc := newTestService()
		_, err := svc.SignUp(ctx, signUpReq())
		require.NoError(t, err)

		req := signUpReq()
		req.Email = "ANANYA@example.edu" // case-insensitive match
		_, err = svc.SignUp(ctx, req)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		svc := newTestService()
		req := signUpReq()
		req.Email = "not-an-email"
		_, err := svc.SignUp(ctx, req)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects short password", func(t *testing.T) {
		svc := newTestService()
		req := signUpReq()
		req.Password = "short"
		_, err := svc.SignUp(ctx, req)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		svc := newTestService()
		req := signUpReq()
		req.Role = "superuser"
		_, err := svc.SignUp(ctx, req)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials return a session", func(t *testing.T) {
		svc := newTestService()
		_, err := svc.SignUp(ctx, signUpReq())
		require.NoError(t, err)

		session, err := svc.SignIn(ctx, SignInRequest{
			Email:    "ananya@example.edu",
			Password: "correct-horse-battery",
		})
		require.NoError(t, err)
		assert.Equal(t, id.RoleStudent, session.Role)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		svc := newTestService()
		_, err := svc.SignUp(ctx, signUpReq())
		require.NoError(t, err)

		_, errWrongPassword := svc.SignIn(ctx, SignInRequest{
			Email:    "ananya@example.edu",
			Password: "wrong-password-here",
		})
		_, errUnknownEmail := svc.SignIn(ctx, SignInRequest{
			Email:    "nobody@example.edu",
			Password: "correct-horse-battery",
		})

		require.Error(t, errWrongPassword)
		require.Error(t, errUnknownEmail)
		assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
		assert.True(t, dErrors.HasCode(errWrongPassword, dErrors.CodeUnauthorized))
		assert.True(t, dErrors.HasCode(errUnknownEmail, dErrors.CodeUnauthorized))
	})
}

func TestSignOutRevokesToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	session, err := svc.SignUp(ctx, signUpReq())
	require.NoError(t, err)

	// Token resolves before sign-out.
	profile, role, err := svc.CurrentIdentity(ctx, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ananya@example.edu", profile.Email)
	assert.Equal(t, id.RoleStudent, role)

	require.NoError(t, svc.SignOut(ctx, session.AccessToken))

	_, _, err = svc.CurrentIdentity(ctx, session.AccessToken)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestSessionUsesRequestClock(t *testing.T) {
	svc := newTestService()
	fixed := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), fixed)

	session, err := svc.SignUp(ctx, signUpReq())
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(time.Hour), session.ExpiresAt)
}
