package verification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "certvault/pkg/domain"
	"certvault/pkg/testutil"

	"certvault/internal/evidence"
)

// The tamper-detection story: a certificate backed by honest evidence
// verifies, the same certificate checked against different evidence is
// flagged, and the flag survives later runs that bring no new evidence.
func TestTamperDetectionScenario(t *testing.T) {
	f := newVerifyFixture()
	honest := evidence.Digest([]byte("original transcript bytes"))
	cert := f.seedCert(t, honest)
	recruiter := recruiterCtx()

	testutil.Given(t, "a certificate whose stored digest matches its document", func(t *testing.T) {
		testutil.When(t, "a recruiter verifies against the honest reference", func(t *testing.T) {
			result, err := f.svc.Verify(recruiter, cert.ID, VerifyRequest{ReferenceDigest: honest})
			require.NoError(t, err)

			testutil.Then(t, "the certificate is verified", func(t *testing.T) {
				assert.Equal(t, id.StatusVerified, result.Status)
			})
		})

		testutil.When(t, "a recruiter verifies against a different document's digest", func(t *testing.T) {
			forged := evidence.Digest([]byte("doctored transcript bytes"))
			result, err := f.svc.Verify(recruiter, cert.ID, VerifyRequest{ReferenceDigest: forged})
			require.NoError(t, err)

			testutil.Then(t, "the certificate is flagged", func(t *testing.T) {
				assert.Equal(t, id.StatusFlagged, result.Status)
			})
		})

		testutil.When(t, "a later run brings no reference digest", func(t *testing.T) {
			result, err := f.svc.Verify(recruiter, cert.ID, VerifyRequest{})
			require.NoError(t, err)

			testutil.Then(t, "the flag sticks", func(t *testing.T) {
				assert.Equal(t, id.StatusFlagged, result.Status)
			})

			testutil.Then(t, "every decision is on the record", func(t *testing.T) {
				recs, err := f.svc.History(recruiter, cert.ID)
				require.NoError(t, err)
				assert.Len(t, recs, 3)
			})
		})
	})
}
