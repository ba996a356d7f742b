package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	id "certvault/pkg/domain"
)

func TestDecide(t *testing.T) {
	student := IdentityState{
		Resolved:  true,
		ProfileID: id.ProfileID(uuid.New()),
		Role:      id.RoleStudent,
	}

	t.Run("pending while identity is unresolved", func(t *testing.T) {
		d := Decide(IdentityState{}, id.RoleStudent)
		assert.Equal(t, Pending, d.Outcome)
	})

	t.Run("resolution without redirect even when roles would mismatch", func(t *testing.T) {
		// Unresolved state must never redirect; blocking beats flicker.
		d := Decide(IdentityState{Resolved: false, Role: id.RoleStudent}, id.RoleRecruiter)
		assert.Equal(t, Pending, d.Outcome)
	})

	t.Run("no identity redirects to login", func(t *testing.T) {
		d := Decide(IdentityState{Resolved: true}, id.RoleStudent)
		assert.Equal(t, RedirectToLogin, d.Outcome)
	})

	t.Run("matching role is allowed", func(t *testing.T) {
		d := Decide(student, id.RoleStudent)
		assert.Equal(t, Allow, d.Outcome)
	})

	t.Run("role in a multi-role set is allowed", func(t *testing.T) {
		d := Decide(student, id.RoleRecruiter, id.RoleStudent)
		assert.Equal(t, Allow, d.Outcome)
	})

	t.Run("wrong role redirects to own dashboard", func(t *testing.T) {
		d := Decide(student, id.RoleRecruiter)
		assert.Equal(t, RedirectToDashboard, d.Outcome)
		assert.Equal(t, id.RoleStudent, d.Role)
	})

	t.Run("empty required set admits any identity", func(t *testing.T) {
		d := Decide(student)
		assert.Equal(t, Allow, d.Outcome)
	})
}
