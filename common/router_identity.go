package common

import (
	"crypto/rand"

	"github.com/samber/oops"
)

// RouterIdentity is (public_key, optional padding, signing_public_key,
// certificate). Its serialized form is exactly 384 bytes plus the
// certificate; the 384 bytes hold the encryption public key (potentially
// padded) followed by the signing public key (potentially truncated into
// the certificate).
type RouterIdentity struct {
	EncType     EncType
	SigType     SigType
	PublicKey   []byte // encryption public key bytes, StandardSlotLen(EncType) long
	Padding     []byte // random padding filling the 384-byte window
	SigningKey  []byte // signing public key bytes, StandardSlotLen(SigType) long
	Certificate Certificate
}

// NewRouterIdentity builds a RouterIdentity from raw public key material.
// If sigType is DsaSha1 the certificate is Null; if Ed25519 it is a Key
// certificate carrying (Ed25519, encType) with fresh random padding sized
// by sigType.PadLen(encType). Other signature types are
// rejected with UnsupportedAlgorithm.
func NewRouterIdentity(encType EncType, sigType SigType, encPub, sigPub []byte) (RouterIdentity, error) {
	if len(encPub) != encType.StandardSlotLen() {
		return RouterIdentity{}, oops.Code(CodeInvalidFormat).In("common").
			With("enc_type", encType.Name).Errorf("encryption public key has wrong length")
	}
	if len(sigPub) != sigType.StandardSlotLen() {
		return RouterIdentity{}, oops.Code(CodeInvalidFormat).In("common").
			With("sig_type", sigType.Name).Errorf("signing public key has wrong length")
	}

	padLen := sigType.PadLen(encType)
	padding := make([]byte, padLen)
	if padLen > 0 {
		if _, err := rand.Read(padding); err != nil {
			return RouterIdentity{}, err
		}
	}

	var cert Certificate
	switch sigType.Code {
	case SigDSASHA1.Code:
		cert = NullCertificate()
	case SigEdDSASHA512Ed25519.Code:
		cert = NewKeyCertificate(sigType, encType, nil, nil)
	default:
		return RouterIdentity{}, oops.Code(CodeUnsupportedAlgo).In("common").
			With("sig_type", sigType.Name).Errorf("unsupported signature type for identity construction")
	}

	return RouterIdentity{
		EncType:     encType,
		SigType:     sigType,
		PublicKey:   append([]byte(nil), encPub...),
		Padding:     padding,
		SigningKey:  append([]byte(nil), sigPub...),
		Certificate: cert,
	}, nil
}

// Bytes serializes the RouterIdentity canonically: the 384-byte prefix
// (encryption key, padding, signing key) followed by the certificate.
func (id RouterIdentity) Bytes() []byte {
	out := make([]byte, 0, totalIdentityWindow+3)
	out = append(out, id.PublicKey...)
	out = append(out, id.Padding...)
	out = append(out, id.SigningKey...)
	out = append(out, id.Certificate.Bytes()...)
	return out
}

// Hash returns SHA-256 of the canonical serialization.
func (id RouterIdentity) Hash() Hash {
	return SHA256Hash(id.Bytes())
}

// ReadRouterIdentity parses a RouterIdentity from the front of data.
// Because the 384-byte window's internal split between encryption key,
// padding, and signing key depends on the certificate (read last), this
// first checks for the 387-byte minimum and reads the certificate at
// offset 384, then resolves sig/enc types to re-slice the 384-byte prefix.
func ReadRouterIdentity(data []byte) (id RouterIdentity, remainder []byte, err error) {
	const minSize = totalIdentityWindow + 3
	if len(data) < minSize {
		err = incompleteErr("ReadRouterIdentity", minSize, len(data))
		return
	}

	cert, _, cerr := ReadCertificate(data[totalIdentityWindow:])
	if cerr != nil {
		err = cerr
		return
	}

	encType := EncElGamal2048
	sigType := SigDSASHA1
	if cert.Type == CertKey {
		encType = cert.Key.EncType
		sigType = cert.Key.SigType
	}

	encLen := encType.StandardSlotLen()
	sigLen := sigType.StandardSlotLen()
	padLen := totalIdentityWindow - encLen - sigLen
	if padLen < 0 {
		err = parseErr("ReadRouterIdentity", "certificate key lengths exceed 384-byte window")
		return
	}

	certLen := 3 + cert.Length()
	if len(data) < minSize+cert.Length() {
		err = incompleteErr("ReadRouterIdentity", minSize+cert.Length(), len(data))
		return
	}

	id = RouterIdentity{
		EncType:     encType,
		SigType:     sigType,
		PublicKey:   append([]byte(nil), data[:encLen]...),
		Padding:     append([]byte(nil), data[encLen:encLen+padLen]...),
		SigningKey:  append([]byte(nil), data[encLen+padLen:encLen+padLen+sigLen]...),
		Certificate: cert,
	}
	remainder = data[totalIdentityWindow+certLen:]
	return
}

// RouterSecretKeys is a RouterIdentity together with both private keys.
// Never transmitted.
type RouterSecretKeys struct {
	Identity       RouterIdentity
	PrivateKey     []byte // encryption private key
	SigningPrivate []byte // signing private key
}

// GenerateRouterSecretKeys creates a fresh RouterSecretKeys for the given
// algorithm pair, deriving public keys from freshly generated private keys.
func GenerateRouterSecretKeys(encType EncType, sigType SigType) (RouterSecretKeys, error) {
	encPriv := make([]byte, encType.PrivKeyLen)
	if _, err := rand.Read(encPriv); err != nil {
		return RouterSecretKeys{}, err
	}
	encPub, err := encType.DerivePublic(encPriv)
	if err != nil {
		return RouterSecretKeys{}, err
	}

	sigPriv := make([]byte, sigType.PrivKeyLen)
	if _, err := rand.Read(sigPriv); err != nil {
		return RouterSecretKeys{}, err
	}
	sigPub, err := derivePublicSigKey(sigType, sigPriv)
	if err != nil {
		return RouterSecretKeys{}, err
	}

	id, err := NewRouterIdentity(encType, sigType, encPub, sigPub)
	if err != nil {
		return RouterSecretKeys{}, err
	}

	return RouterSecretKeys{
		Identity:       id,
		PrivateKey:     encPriv,
		SigningPrivate: sigPriv,
	}, nil
}

func derivePublicSigKey(sigType SigType, priv []byte) ([]byte, error) {
	switch sigType.Code {
	case SigEdDSASHA512Ed25519.Code:
		return ed25519PublicFromSeed(priv)
	default:
		return nil, oops.Code(CodeUnsupportedAlgo).In("common").
			With("sig_type", sigType.Name).Errorf("public key derivation not supported for %s", sigType.Name)
	}
}
