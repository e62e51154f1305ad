package common

import (
	"crypto/sha512"

	"filippo.io/edwards25519"
)

// Blinded Ed25519 signing keys back I2P's encrypted LeaseSets: a Destination
// publishes a blinded form of its signing public key that rotates with a
// time period, so two published LeaseSets for the same Destination can't be
// linked without knowing the Destination's (secret) unblinded key. This is
// the same scalar-blinding construction Tor uses for v3 onion service
// descriptors (blindString below mirrors rend-spec-v3's "Derive temporary
// signing key" constant), grounded on cvsouth-tor-go/onion/blind.go's use of
// filippo.io/edwards25519's Scalar/Point arithmetic — stdlib crypto/ed25519
// only signs from a 32-byte seed and has no way to sign under an arbitrary
// scalar, which blinding requires.
//
// RouterIdentity/RouterInfo signing (this module's NTCP2 handshake concern)
// never uses blinded keys, so these functions aren't registered in the
// sigTypes table; they're exposed for a LeaseSet/Destination-blinding
// collaborator built on top of this package.
var blindString = []byte("Derive temporary signing key\x00")

// ed25519BasepointLabel is the textual basepoint encoding the blinding
// factor hash is defined over, matching rend-spec-v3 and cvsouth-tor-go.
var ed25519BasepointLabel = []byte("(15112221349535400772501151409588531511454012693041857206046113283949847762202, 46316835694926478169428394003475163141307993866256225615783033603165251855960)")

// blindingFactor derives the scalar h = SHA-512(blindString | A | basepoint | context)
// reduced via clamping, the same derivation BlindEd25519PublicKey and
// BlindEd25519PrivateKey must agree on for a consistent blinded keypair.
func blindingFactor(pub []byte, context []byte) (*edwards25519.Scalar, error) {
	h := sha512.New()
	h.Write(blindString)
	h.Write(pub)
	h.Write(ed25519BasepointLabel)
	h.Write(context)
	sum := h.Sum(nil)
	return new(edwards25519.Scalar).SetUniformBytes(sum)
}

// BlindEd25519PublicKey derives the blinded public key A' = h*A for an
// Ed25519 public key and an arbitrary context (e.g. an encoded time period),
// without requiring the private key — the operation a relay or a client
// verifying a published blinded descriptor performs.
func BlindEd25519PublicKey(pub [32]byte, context []byte) ([32]byte, error) {
	var blinded [32]byte

	h, err := blindingFactor(pub[:], context)
	if err != nil {
		return blinded, err
	}
	A, err := new(edwards25519.Point).SetBytes(pub[:])
	if err != nil {
		return blinded, parseErr("BlindEd25519PublicKey", "invalid Ed25519 public key point")
	}
	Aprime := new(edwards25519.Point).ScalarMult(h, A)
	copy(blinded[:], Aprime.Bytes())
	return blinded, nil
}

// BlindEd25519PrivateKey derives a blinded signing scalar and nonce prefix
// from an Ed25519 seed and context, plus the blinded public key they
// correspond to. seed is the standard 32-byte Ed25519 private key encoding
// (RFC 8032 form, as stored by RouterSecretKeys.SigningPrivate for
// SigEdDSASHA512Ed25519).
func BlindEd25519PrivateKey(seed [32]byte, context []byte) (scalar, prefix, pub [32]byte, err error) {
	expanded := sha512.Sum512(seed[:])
	baseScalar, err := new(edwards25519.Scalar).SetBytesWithClamping(expanded[:32])
	if err != nil {
		return scalar, prefix, pub, err
	}
	basePrefix := expanded[32:64]

	A := new(edwards25519.Point).ScalarBaseMult(baseScalar)
	var unblindedPub [32]byte
	copy(unblindedPub[:], A.Bytes())

	h, err := blindingFactor(unblindedPub[:], context)
	if err != nil {
		return scalar, prefix, pub, err
	}

	blindedScalar := new(edwards25519.Scalar).Multiply(baseScalar, h)
	Aprime := new(edwards25519.Point).ScalarMult(h, A)

	prefixHash := sha512.New()
	prefixHash.Write(h.Bytes())
	prefixHash.Write(basePrefix)
	blindedPrefix := prefixHash.Sum(nil)[:32]

	copy(scalar[:], blindedScalar.Bytes())
	copy(prefix[:], blindedPrefix)
	copy(pub[:], Aprime.Bytes())
	return scalar, prefix, pub, nil
}

// SignBlinded signs msg under a blinded scalar/prefix pair produced by
// BlindEd25519PrivateKey, following the same R = rB, k = H(R|A|msg),
// S = r + k*scalar construction as plain Ed25519 (RFC 8032 section 5.1.6)
// but with the blinded scalar standing in for the ordinary clamped seed
// scalar.
func SignBlinded(scalar, prefix, pub [32]byte, msg []byte) ([]byte, error) {
	s, err := new(edwards25519.Scalar).SetCanonicalBytes(scalar[:])
	if err != nil {
		return nil, parseErr("SignBlinded", "invalid blinded scalar")
	}

	nonceHash := sha512.New()
	nonceHash.Write(prefix[:])
	nonceHash.Write(msg)
	r, err := new(edwards25519.Scalar).SetUniformBytes(nonceHash.Sum(nil))
	if err != nil {
		return nil, err
	}

	R := new(edwards25519.Point).ScalarBaseMult(r)
	var RBytes [32]byte
	copy(RBytes[:], R.Bytes())

	kHash := sha512.New()
	kHash.Write(RBytes[:])
	kHash.Write(pub[:])
	kHash.Write(msg)
	k, err := new(edwards25519.Scalar).SetUniformBytes(kHash.Sum(nil))
	if err != nil {
		return nil, err
	}

	S := new(edwards25519.Scalar).MultiplyAdd(k, s, r)

	sig := make([]byte, 64)
	copy(sig[:32], RBytes[:])
	copy(sig[32:], S.Bytes())
	return sig, nil
}

// VerifyBlinded checks a signature produced by SignBlinded against the
// blinded public key, via the standard Ed25519 verification equation
// S*B == R + k*A evaluated with edwards25519's combined double-scalar
// multiply rather than two separate scalar multiplications.
func VerifyBlinded(pub [32]byte, msg, sig []byte) bool {
	if len(sig) != 64 {
		return false
	}
	A, err := new(edwards25519.Point).SetBytes(pub[:])
	if err != nil {
		return false
	}
	R, err := new(edwards25519.Point).SetBytes(sig[:32])
	if err != nil {
		return false
	}
	S, err := new(edwards25519.Scalar).SetCanonicalBytes(sig[32:])
	if err != nil {
		return false
	}

	kHash := sha512.New()
	kHash.Write(sig[:32])
	kHash.Write(pub[:])
	kHash.Write(msg)
	k, err := new(edwards25519.Scalar).SetUniformBytes(kHash.Sum(nil))
	if err != nil {
		return false
	}

	negK := new(edwards25519.Scalar).Negate(k)
	check := new(edwards25519.Point).VarTimeDoubleScalarBaseMult(negK, A, S)
	return check.Equal(R) == 1
}
