package verification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"certvault/internal/evidence"
)

func TestHashComparator(t *testing.T) {
	cmp := NewHashComparator()
	digest := evidence.Digest([]byte("degree.pdf contents"))

	t.Run("equal digests match", func(t *testing.T) {
		assert.True(t, cmp.Compare(digest, digest))
	})

	t.Run("case differences do not matter", func(t *testing.T) {
		upper := toUpper(digest)
		assert.True(t, cmp.Compare(digest, upper))
	})

	t.Run("different digests do not match", func(t *testing.T) {
		other := evidence.Digest([]byte("tampered contents"))
		assert.False(t, cmp.Compare(digest, other))
	})

	t.Run("empty sides never match", func(t *testing.T) {
		assert.False(t, cmp.Compare("", digest))
		assert.False(t, cmp.Compare(digest, ""))
		assert.False(t, cmp.Compare("", ""))
	})
}

func toUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}
