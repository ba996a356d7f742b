package testutil

import (
	"context"
	"net/http"

	id "certvault/pkg/domain"
	"certvault/pkg/requestcontext"
)

// WithIdentity adds a profile ID and role to the request context.
// This simulates what the auth middleware would do for authenticated
// requests. An invalid profile ID is silently ignored.
func WithIdentity(req *http.Request, profileID string, role id.Role) *http.Request {
	ctx := req.Context()
	if parsed, err := id.ParseProfileID(profileID); err == nil {
		ctx = requestcontext.WithProfileID(ctx, parsed)
	}
	if role != "" {
		ctx = requestcontext.WithRole(ctx, role)
	}
	return req.WithContext(ctx)
}

// IdentityContext builds a service-level context carrying the given
// identity, for tests that bypass the HTTP middleware chain.
func IdentityContext(profileID id.ProfileID, role id.Role) context.Context {
	ctx := requestcontext.WithProfileID(context.Background(), profileID)
	return requestcontext.WithRole(ctx, role)
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
