package identity

import (
	"time"

	id "certvault/pkg/domain"
)

// Profile is one identity-provider account's public attributes. The profile
// ID doubles as the identity subject; certificates reference it as owner.
type Profile struct {
	ID        id.ProfileID `json:"id"`
	Email     string       `json:"email"`
	FullName  string       `json:"full_name,omitempty"`
	AvatarURL string       `json:"avatar_url,omitempty"`
	Phone     string       `json:"phone,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Session is the result of a successful sign-up or sign-in.
type Session struct {
	AccessToken string       `json:"access_token"`
	ProfileID   id.ProfileID `json:"profile_id"`
	Role        id.Role      `json:"role"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// SignUpRequest carries the fields needed to create a profile. The role is
// chosen at registration, mirroring the original flow where an account picks
// student or recruiter up front.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
