package institution

import (
	"context"
	"time"

	id "certvault/pkg/domain"
)

// Seed loads a small set of verified institutions into an empty store so a
// development instance has something to pick from. Production data comes
// from the institutions table.
func Seed(ctx context.Context, store Store) error {
	now := time.Now().UTC()
	for _, name := range []string{
		"Indian Institute of Technology Delhi",
		"University of Mumbai",
		"Anna University",
		"Delhi University",
	} {
		inst, err := NewInstitution(id.NewInstitutionID(), name, now)
		if err != nil {
			return err
		}
		inst.Verified = true
		if err := store.Create(ctx, inst); err != nil {
			return err
		}
	}
	return nil
}
