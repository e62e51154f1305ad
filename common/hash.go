package common

import "crypto/sha256"

// HashSize is the length in bytes of an I2P Hash (SHA-256 digest).
const HashSize = 32

// Hash is a 32-byte SHA-256 digest, used throughout I2P as a router or
// destination identifier. Immutable once constructed, except for XOR which
// mutates in place.
type Hash [HashSize]byte

// SHA256Hash returns the Hash of data.
func SHA256Hash(data []byte) Hash {
	return Hash(sha256.Sum256(data))
}

// Bytes returns the 32 raw bytes of the hash.
func (h Hash) Bytes() []byte {
	out := make([]byte, HashSize)
	copy(out, h[:])
	return out
}

// Equal reports whether h and other hold the same 32 bytes.
func (h Hash) Equal(other Hash) bool {
	return h == other
}

// Xor mutates h in place, setting it to h XOR other, and returns h for
// chaining. For all hashes a, b: (a.Xor(b)).Xor(b) == original a, and
// a.Xor(a) == the zero hash.
func (h *Hash) Xor(other Hash) *Hash {
	for i := range h {
		h[i] ^= other[i]
	}
	return h
}

// String renders the hash using the I2P base64 alphabet.
func (h Hash) String() string {
	return EncodeBase64(h[:])
}

// ReadHash reads a 32-byte Hash from the front of data, returning the
// remainder. Fails with an incomplete-data error if fewer than 32 bytes
// are available.
func ReadHash(data []byte) (h Hash, remainder []byte, err error) {
	if len(data) < HashSize {
		err = incompleteErr("ReadHash", HashSize, len(data))
		return
	}
	copy(h[:], data[:HashSize])
	remainder = data[HashSize:]
	return
}
