package common

import (
	"crypto"
	"crypto/dsa"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"math/big"

	"github.com/samber/oops"
)

// SigType describes one of I2P's signature algorithms: its wire tag,
// public/private key lengths, signature length, and sign/verify behavior.
//
// DsaSha1 is implemented against the stdlib crypto/dsa package, grounded on
// eyedeekay-go-i2p/lib/crypto/dsa/dsa.go — DSA has no actively maintained
// third-party Go module in the retrieved corpus, so the stdlib implementation
// is used directly and recorded in DESIGN.md.
type SigType struct {
	Code       uint16
	Name       string
	PubKeyLen  int
	PrivKeyLen int
	SigLen     int

	sign   func(priv, msg []byte) ([]byte, error)
	verify func(pub, msg, sig []byte) bool
}

// sigKeyWindow is the fixed signing-key slot size within a RouterIdentity's
// 384-byte prefix.
const sigKeyWindow = 128

// StandardSlotLen returns the portion of the signing public key that fits
// within the fixed 128-byte window of a RouterIdentity before certificate
// overflow is needed.
func (t SigType) StandardSlotLen() int {
	if t.PubKeyLen > sigKeyWindow {
		return sigKeyWindow
	}
	return t.PubKeyLen
}

// PadLen returns the number of random padding bytes required between the
// encryption public key and the (possibly truncated) signing public key so
// that their combined window is exactly 384 bytes, for the given EncType.
func (t SigType) PadLen(enc EncType) int {
	pad := totalIdentityWindow - enc.StandardSlotLen() - t.StandardSlotLen()
	if pad < 0 {
		return 0
	}
	return pad
}

var sigTypes = map[uint16]SigType{}

func registerSigType(t SigType) SigType {
	sigTypes[t.Code] = t
	return t
}

// SigTypeByCode looks up a SigType by its wire tag.
func SigTypeByCode(code uint16) (SigType, bool) {
	t, ok := sigTypes[code]
	return t, ok
}

var (
	SigDSASHA1 = registerSigType(SigType{
		Code: 0, Name: "DSA_SHA1", PubKeyLen: 128, PrivKeyLen: 20, SigLen: 40,
		sign: dsaSign, verify: dsaVerify,
	})
	SigECDSASHA256P256 = registerSigType(ecdsaSigType(1, "ECDSA_SHA256_P256", elliptic.P256(), crypto.SHA256))
	SigECDSASHA384P384 = registerSigType(ecdsaSigType(2, "ECDSA_SHA384_P384", elliptic.P384(), crypto.SHA384))
	SigEdDSASHA512Ed25519 = registerSigType(SigType{
		Code: 7, Name: "EdDSA_SHA512_Ed25519", PubKeyLen: 32, PrivKeyLen: 32, SigLen: 64,
		sign: ed25519Sign, verify: ed25519Verify,
	})
)

// Sign produces a signature over msg using the raw private key bytes.
func (t SigType) Sign(priv, msg []byte) ([]byte, error) {
	if t.sign == nil {
		return nil, oops.Code(CodeUnsupportedAlgo).In("common").With("sig_type", t.Name).Errorf("signing not supported for %s", t.Name)
	}
	return t.sign(priv, msg)
}

// Verify checks a signature over msg against the raw public key bytes.
func (t SigType) Verify(pub, msg, sig []byte) bool {
	if t.verify == nil {
		return false
	}
	return t.verify(pub, msg, sig)
}

func dsaSign(priv, msg []byte) ([]byte, error) {
	if len(priv) != 20 {
		return nil, oops.Code(CodeInvalidFormat).In("common").Errorf("DSA private key must be 20 bytes")
	}
	x := new(big.Int).SetBytes(priv)
	key := &dsa.PrivateKey{PublicKey: dsa.PublicKey{Parameters: *i2pDSADomain}, X: x}
	h := sha1.Sum(msg)
	r, s, err := dsa.Sign(rand.Reader, key, h[:])
	if err != nil {
		return nil, err
	}
	out := make([]byte, 40)
	r.FillBytes(out[:20])
	s.FillBytes(out[20:])
	return out, nil
}

func dsaVerify(pub, msg, sig []byte) bool {
	// DSA_SHA1 public keys in I2P are encoded as the raw 128-byte "y"
	// value using I2P's fixed (p, q, g) domain parameters.
	params, y, err := i2pDSAParams(pub)
	if err != nil {
		return false
	}
	if len(sig) != 40 {
		return false
	}
	r := new(big.Int).SetBytes(sig[:20])
	s := new(big.Int).SetBytes(sig[20:])
	h := sha1.Sum(msg)
	pubKey := &dsa.PublicKey{Parameters: *params, Y: y}
	return dsa.Verify(pubKey, h[:], r, s)
}

// i2pDSAParams decodes the 128-byte y value and returns it alongside I2P's
// standard 1024-bit DSA domain parameters.
func i2pDSAParams(pub []byte) (*dsa.Parameters, *big.Int, error) {
	if len(pub) != 128 {
		return nil, nil, oops.Code(CodeInvalidFormat).In("common").Errorf("DSA public key must be 128 bytes")
	}
	// The domain parameters are the fixed ones installed via
	// SetI2PDSADomainParameters; nothing is generated here.
	return i2pDSADomain, new(big.Int).SetBytes(pub), nil
}

// i2pDSADomain holds I2P's fixed DSA (p, q, g) domain parameters, set once
// via SetI2PDSADomainParameters at process start by whichever collaborator
// carries the canonical constants.
var i2pDSADomain = &dsa.Parameters{P: big.NewInt(0), Q: big.NewInt(0), G: big.NewInt(0)}

// SetI2PDSADomainParameters installs the fixed DSA domain parameters used
// to verify legacy DSA_SHA1 router signatures.
func SetI2PDSADomainParameters(p, q, g *big.Int) {
	i2pDSADomain = &dsa.Parameters{P: p, Q: q, G: g}
}

func ed25519Sign(priv, msg []byte) ([]byte, error) {
	if len(priv) != ed25519.SeedSize {
		return nil, oops.Code(CodeInvalidFormat).In("common").Errorf("Ed25519 private key must be %d bytes", ed25519.SeedSize)
	}
	key := ed25519.NewKeyFromSeed(priv)
	return ed25519.Sign(key, msg), nil
}

func ed25519Verify(pub, msg, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), msg, sig)
}

// ed25519PublicFromSeed derives the public key bytes for a 32-byte Ed25519
// seed (I2P's raw signing private key encoding).
func ed25519PublicFromSeed(seed []byte) ([]byte, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, oops.Code(CodeInvalidFormat).In("common").Errorf("Ed25519 seed must be %d bytes", ed25519.SeedSize)
	}
	key := ed25519.NewKeyFromSeed(seed)
	pub := key.Public().(ed25519.PublicKey)
	return append([]byte(nil), pub...), nil
}

func ecdsaSigType(code uint16, name string, curve elliptic.Curve, hash crypto.Hash) SigType {
	byteLen := (curve.Params().BitSize + 7) / 8
	return SigType{
		Code: code, Name: name, PubKeyLen: 2 * byteLen, PrivKeyLen: byteLen, SigLen: 2 * byteLen,
		sign: func(priv, msg []byte) ([]byte, error) {
			d := new(big.Int).SetBytes(priv)
			key := &ecdsa.PrivateKey{PublicKey: ecdsa.PublicKey{Curve: curve}, D: d}
			key.PublicKey.X, key.PublicKey.Y = curve.ScalarBaseMult(priv)
			digest := hashWith(hash, msg)
			r, s, err := ecdsa.Sign(rand.Reader, key, digest)
			if err != nil {
				return nil, err
			}
			out := make([]byte, 2*byteLen)
			r.FillBytes(out[:byteLen])
			s.FillBytes(out[byteLen:])
			return out, nil
		},
		verify: func(pub, msg, sig []byte) bool {
			if len(pub) != 2*byteLen || len(sig) != 2*byteLen {
				return false
			}
			x := new(big.Int).SetBytes(pub[:byteLen])
			y := new(big.Int).SetBytes(pub[byteLen:])
			r := new(big.Int).SetBytes(sig[:byteLen])
			s := new(big.Int).SetBytes(sig[byteLen:])
			key := &ecdsa.PublicKey{Curve: curve, X: x, Y: y}
			digest := hashWith(hash, msg)
			return ecdsa.Verify(key, digest, r, s)
		},
	}
}

func hashWith(h crypto.Hash, msg []byte) []byte {
	switch h {
	case crypto.SHA256:
		sum := sha256.Sum256(msg)
		return sum[:]
	case crypto.SHA384:
		sum := sha512.Sum384(msg)
		return sum[:]
	default:
		sum := sha256.Sum256(msg)
		return sum[:]
	}
}
