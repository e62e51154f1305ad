package internal

import (
	"crypto/rand"
	"io"
	"math/big"
)

// SecureZero securely zeroes out the given byte slice
func SecureZero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// RandomBytes generates cryptographically secure random bytes
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ValidateKeySize validates that a key has the expected size
func ValidateKeySize(key []byte, expectedSize int) bool {
	return len(key) == expectedSize
}

// PaddingSource chooses the length of a handshake padding block, 0 <= n <
// max. State machines call this once per outbound message instead of
// hardcoding a distribution, so callers can swap in their own policy.
type PaddingSource func(max int) (int, error)

// DefaultPaddingSource picks a uniformly random value in [0, max) using
// crypto/rand. max <= 0 always yields 0.
func DefaultPaddingSource(max int) (int, error) {
	if max <= 0 {
		return 0, nil
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
