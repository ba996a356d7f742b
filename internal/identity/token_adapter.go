package identity

import (
	"certvault/internal/platform/middleware"
)

// MiddlewareValidator adapts TokenService to the auth middleware's
// TokenValidator interface, keeping the middleware package free of JWT
// library details.
type MiddlewareValidator struct {
	tokens *TokenService
}

func NewMiddlewareValidator(tokens *TokenService) *MiddlewareValidator {
	return &MiddlewareValidator{tokens: tokens}
}

func (v *MiddlewareValidator) ValidateToken(tokenString string) (*middleware.TokenClaims, error) {
	claims, err := v.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.TokenClaims{
		ProfileID: claims.ProfileID,
		Role:      claims.Role,
		JTI:       claims.JTI,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}
