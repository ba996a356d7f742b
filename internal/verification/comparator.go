package verification

import (
	"crypto/subtle"
	"strings"
)

// Comparator decides whether a stored evidence digest matches a reference
// digest. It is a strategy point: the hash comparator is the production
// implementation, tests substitute their own.
type Comparator interface {
	// Compare reports whether submitted and reference denote the same
	// evidence. Both are lowercase hex SHA-256 digests.
	Compare(submitted, reference string) bool
}

// HashComparator compares digests in constant time. Digest values are not
// secrets, but timing-neutral comparison costs nothing and removes the
// question entirely.
type HashComparator struct{}

func NewHashComparator() HashComparator { return HashComparator{} }

func (HashComparator) Compare(submitted, reference string) bool {
	if submitted == "" || reference == "" {
		return false
	}
	a := strings.ToLower(submitted)
	b := strings.ToLower(reference)
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
