package identity

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"certvault/internal/platform/metrics"
	id "certvault/pkg/domain"
	dErrors "certvault/pkg/domain-errors"
	"certvault/pkg/platform/sentinel"
	"certvault/pkg/requestcontext"
)

const minPasswordLen = 8

// Service is the identity provider: sign-up, sign-in, sign-out, and
// current-identity resolution. Storage and transport live in other layers.
type Service struct {
	store       Store
	revocations RevocationStore
	tokens      *TokenService
	tokenTTL    time.Duration
	metrics     *metrics.Metrics
}

func NewService(store Store, revocations RevocationStore, tokens *TokenService, tokenTTL time.Duration, m *metrics.Metrics) *Service {
	return &Service{
		store:       store,
		revocations: revocations,
		tokens:      tokens,
		tokenTTL:    tokenTTL,
		metrics:     m,
	}
}

// SignUp creates a profile with its role assignment and returns a session.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid email address")
	}
	if len(req.Password) < minPasswordLen {
		return nil, dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}
	role, err := id.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	now := requestcontext.Now(ctx)
	profile := &Profile{
		ID:        id.NewProfileID(),
		Email:     email,
		FullName:  strings.TrimSpace(req.FullName),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateProfile(ctx, profile, string(hash), role); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create profile")
	}

	s.metrics.IncProfilesCreated()
	return s.issueSession(profile.ID, role, now)
}

// SignIn verifies credentials and returns a session. Unknown emails and bad
// passwords are indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, req SignInRequest) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "email and password are required")
	}

	profile, hash, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncAuthFailures()
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		s.metrics.IncAuthFailures()
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}

	role, err := s.store.FindRole(ctx, profile.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve role")
	}

	return s.issueSession(profile.ID, role, requestcontext.Now(ctx))
}

// SignOut revokes the token for its remaining lifetime.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return err
	}

	ttl := time.Until(claims.ExpiresAt)
	if err := s.revocations.Revoke(ctx, claims.JTI, ttl); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
	}
	return nil
}

// CurrentIdentity resolves a token into its profile and role.
func (s *Service) CurrentIdentity(ctx context.Context, token string) (*Profile, id.Role, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, "", err
	}

	revoked, err := s.revocations.IsTokenRevoked(ctx, claims.JTI)
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to check revocation")
	}
	if revoked {
		return nil, "", dErrors.New(dErrors.CodeUnauthorized, "token has been revoked")
	}

	profile, err := s.store.FindByID(ctx, claims.ProfileID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, "", dErrors.New(dErrors.CodeUnauthorized, "profile no longer exists")
		}
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}

	return profile, claims.Role, nil
}

// Profile returns the public profile for an ID. Used by listings that join
// certificates with their owners.
func (s *Service) Profile(ctx context.Context, profileID id.ProfileID) (*Profile, error) {
	profile, err := s.store.FindByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "profile not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
	return profile, nil
}

func (s *Service) issueSession(profileID id.ProfileID, role id.Role, now time.Time) (*Session, error) {
	token, err := s.tokens.GenerateAccessToken(profileID, role, now, s.tokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	return &Session{
		AccessToken: token,
		ProfileID:   profileID,
		Role:        role,
		ExpiresAt:   now.Add(s.tokenTTL),
	}, nil
}
