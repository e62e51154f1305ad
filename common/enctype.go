package common

import (
	"crypto/rand"
	"crypto/sha256"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/curve25519"
)

// totalIdentityWindow is the fixed 384-byte prefix of a RouterIdentity.
const totalIdentityWindow = 384

// encKeyWindow is the fixed encryption-key slot size within that prefix
// (the legacy ElGamal-2048 public key size).
const encKeyWindow = 256

// EncType describes one of I2P's public-key encryption algorithms: its
// wire tag and key lengths.
type EncType struct {
	Code       uint16
	Name       string
	PubKeyLen  int
	PrivKeyLen int

	derivePublic func(priv []byte) ([]byte, error)
}

// StandardSlotLen returns the portion of the encryption public key that
// fits within the fixed 256-byte window of a RouterIdentity.
func (t EncType) StandardSlotLen() int {
	if t.PubKeyLen > encKeyWindow {
		return encKeyWindow
	}
	return t.PubKeyLen
}

// DerivePublic computes the public key bytes for a given private key.
func (t EncType) DerivePublic(priv []byte) ([]byte, error) {
	return t.derivePublic(priv)
}

var encTypes = map[uint16]EncType{}

func registerEncType(t EncType) EncType {
	encTypes[t.Code] = t
	return t
}

// EncTypeByCode looks up an EncType by its wire tag.
func EncTypeByCode(code uint16) (EncType, bool) {
	t, ok := encTypes[code]
	return t, ok
}

var (
	// EncElGamal2048 is the legacy 256-byte ElGamal encryption public key.
	// Public-key derivation from a raw private exponent requires I2P's
	// fixed ElGamal domain parameters, which live with router key
	// persistence rather than this package; construction from secrets
	// for this type is left to that collaborator.
	EncElGamal2048 = registerEncType(EncType{
		Code: 0, Name: "ElGamal_2048", PubKeyLen: 256, PrivKeyLen: 256,
		derivePublic: func(priv []byte) ([]byte, error) {
			return nil, unsupportedErr("EncType.DerivePublic", "ElGamal_2048")
		},
	})

	// EncECIESX25519AEADRatchet is the modern 32-byte X25519 encryption
	// public key used by ECIES-X25519-AEAD-Ratchet, grounded on
	// cvsouth-tor-go/ntor/ntor.go's use of golang.org/x/crypto/curve25519.
	EncECIESX25519AEADRatchet = registerEncType(EncType{
		Code: 4, Name: "ECIES_X25519", PubKeyLen: 32, PrivKeyLen: 32,
		derivePublic: func(priv []byte) ([]byte, error) {
			if len(priv) != 32 {
				return nil, unsupportedErr("EncType.DerivePublic", "ECIES_X25519: private key must be 32 bytes")
			}
			pub, err := curve25519.X25519(priv, curve25519.Basepoint)
			if err != nil {
				return nil, err
			}
			return pub, nil
		},
	})
)

// GenerateX25519Keypair returns a fresh (private, public) X25519 keypair
// suitable for EncECIESX25519AEADRatchet or an NTCP2 static keypair.
func GenerateX25519Keypair() (priv, pub [32]byte, err error) {
	if _, err = rand.Read(priv[:]); err != nil {
		return
	}
	p, err := curve25519.X25519(priv[:], curve25519.Basepoint)
	if err != nil {
		return
	}
	copy(pub[:], p)
	return
}

func unsupportedErr(op, detail string) error {
	return parseErr(op, detail)
}

// Seal encrypts plaintext to an ECIES_X25519 recipient public key: a fresh
// ephemeral X25519 keypair is generated, its shared secret with pub is
// hashed into a ChaCha20-Poly1305 key (the "AEAD" in ECIES-X25519-AEAD-
// Ratchet), and the ephemeral public key travels alongside the ciphertext
// as its associated data. This is the one-shot, non-ratcheting case of that
// encryption type — the full forward-secret ratchet session state is a
// garlic-routing concern out of this module's NTCP2-handshake scope, but
// the single-message ECIES construction it's built from is exercised here.
func (t EncType) Seal(pub, plaintext []byte) ([]byte, error) {
	if t.Code != EncECIESX25519AEADRatchet.Code {
		return nil, unsupportedErr("EncType.Seal", t.Name)
	}
	if len(pub) != 32 {
		return nil, unsupportedErr("EncType.Seal", "public key must be 32 bytes")
	}

	var ephPriv [32]byte
	if _, err := rand.Read(ephPriv[:]); err != nil {
		return nil, err
	}
	ephPub, err := curve25519.X25519(ephPriv[:], curve25519.Basepoint)
	if err != nil {
		return nil, err
	}
	shared, err := curve25519.X25519(ephPriv[:], pub)
	if err != nil {
		return nil, err
	}

	key := sha256.Sum256(shared)
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSize)
	ct := aead.Seal(nil, nonce, plaintext, ephPub)

	out := make([]byte, 0, len(ephPub)+len(ct))
	out = append(out, ephPub...)
	out = append(out, ct...)
	return out, nil
}

// Open decrypts a payload produced by Seal using the recipient's raw X25519
// private key.
func (t EncType) Open(priv, data []byte) ([]byte, error) {
	if t.Code != EncECIESX25519AEADRatchet.Code {
		return nil, unsupportedErr("EncType.Open", t.Name)
	}
	if len(priv) != 32 {
		return nil, unsupportedErr("EncType.Open", "private key must be 32 bytes")
	}
	if len(data) < 32 {
		return nil, incompleteErr("EncType.Open", 32, len(data))
	}
	ephPub := data[:32]
	ct := data[32:]

	shared, err := curve25519.X25519(priv, ephPub)
	if err != nil {
		return nil, err
	}
	key := sha256.Sum256(shared)
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSize)
	pt, err := aead.Open(nil, nonce, ct, ephPub)
	if err != nil {
		return nil, parseErr("EncType.Open", "AEAD authentication failed")
	}
	return pt, nil
}
