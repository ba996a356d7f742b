// Package evidence computes the digest that ties a certificate record to the
// uploaded file bytes. The digest is the only cryptographic anchor in the
// system: two records claiming the same document must carry the same digest.
package evidence

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"regexp"

	dErrors "certvault/pkg/domain-errors"
)

// DigestHexLen is the length of a hex-encoded SHA-256 digest.
const DigestHexLen = 64

var digestPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Digest returns the lowercase hex SHA-256 digest of b. Pure and
// deterministic: identical bytes always yield an identical digest. It
// performs no I/O and is safe to call concurrently.
func Digest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// DigestReader streams r through SHA-256, for files too large to buffer.
func DigestReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("digest read: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ValidateDigest checks that s is a well-formed lowercase hex SHA-256
// digest. An empty digest is allowed at submission time; that decision
// belongs to the certificate model, not here.
func ValidateDigest(s string) error {
	if !digestPattern.MatchString(s) {
		return dErrors.New(dErrors.CodeValidation, "file digest must be 64 lowercase hex characters")
	}
	return nil
}
