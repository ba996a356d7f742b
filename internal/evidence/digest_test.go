package evidence

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestDeterminism(t *testing.T) {
	payload := []byte("Bachelor of Technology, Computer Science, 2024")

	first := Digest(payload)
	second := Digest(payload)

	assert.Equal(t, first, second)
	assert.Len(t, first, DigestHexLen)
	assert.Equal(t, strings.ToLower(first), first)
}

func TestDigestDistinguishesInputs(t *testing.T) {
	a := Digest([]byte("original transcript"))
	b := Digest([]byte("original transcript."))
	assert.NotEqual(t, a, b)
}

func TestDigestKnownVector(t *testing.T) {
	// SHA-256 of the empty input, from FIPS 180-4.
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		Digest(nil))
}

func TestDigestReaderMatchesDigest(t *testing.T) {
	payload := bytes.Repeat([]byte("certvault"), 4096)

	streamed, err := DigestReader(bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, Digest(payload), streamed)
}

func TestValidateDigest(t *testing.T) {
	require.NoError(t, ValidateDigest(Digest([]byte("x"))))

	for _, bad := range []string{
		"",
		"abc",
		strings.Repeat("G", 64),
		strings.ToUpper(Digest([]byte("x"))),
		Digest([]byte("x")) + "00",
	} {
		assert.Error(t, ValidateDigest(bad), "digest %q should be rejected", bad)
	}
}

func TestDigestConcurrentUse(t *testing.T) {
	// CPU-bound and free of shared state; hammer it from several
	// goroutines and make sure results stay stable.
	payload := []byte("parallel digest input")
	want := Digest(payload)

	done := make(chan string, 8)
	for i := 0; i < 8; i++ {
		go func() { done <- Digest(payload) }()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, want, <-done)
	}
}
