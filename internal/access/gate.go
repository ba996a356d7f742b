// Package access holds the role-scoped access gate: pure decision logic over
// (identity, role, required roles). Transports adapt the decision to their
// own vocabulary; an HTTP API denies, a rendering client redirects.
package access

import (
	id "certvault/pkg/domain"
)

// Outcome enumerates the gate's possible decisions.
type Outcome string

const (
	// Allow admits the request.
	Allow Outcome = "allow"
	// RedirectToLogin means no identity is present.
	RedirectToLogin Outcome = "redirect_to_login"
	// RedirectToDashboard means the identity holds a role outside the
	// required set; it should land on its own role's dashboard.
	RedirectToDashboard Outcome = "redirect_to_dashboard"
	// Pending means identity resolution is still in flight. Callers must
	// block rendering without redirecting, otherwise a slow identity
	// lookup flickers users through the login screen.
	Pending Outcome = "pending"
)

// IdentityState is the gate's view of the acting identity.
type IdentityState struct {
	// Resolved is false while the identity provider lookup is in flight.
	Resolved  bool
	ProfileID id.ProfileID
	Role      id.Role
}

// Decision carries the outcome and, for dashboard redirects, the role whose
// dashboard should be targeted.
type Decision struct {
	Outcome Outcome
	Role    id.Role
}

// Decide applies the gate rules. An empty required set means any
// authenticated identity is allowed.
func Decide(state IdentityState, required ...id.Role) Decision {
	if !state.Resolved {
		return Decision{Outcome: Pending}
	}
	if state.ProfileID.IsNil() {
		return Decision{Outcome: RedirectToLogin}
	}
	if len(required) == 0 {
		return Decision{Outcome: Allow, Role: state.Role}
	}
	for _, role := range required {
		if state.Role == role {
			return Decision{Outcome: Allow, Role: state.Role}
		}
	}
	return Decision{Outcome: RedirectToDashboard, Role: state.Role}
}
