package common

import (
	"crypto/sha256"
	"testing"
)

func TestRouterIdentityRoundTrip(t *testing.T) {
	secrets, err := GenerateRouterSecretKeys(EncECIESX25519AEADRatchet, SigEdDSASHA512Ed25519)
	if err != nil {
		t.Fatalf("GenerateRouterSecretKeys: %v", err)
	}

	data := append(secrets.Identity.Bytes(), 0xDE, 0xAD)
	got, remainder, err := ReadRouterIdentity(data)
	if err != nil {
		t.Fatalf("ReadRouterIdentity: %v", err)
	}
	if len(remainder) != 2 || remainder[0] != 0xDE || remainder[1] != 0xAD {
		t.Fatalf("unexpected remainder: %x", remainder)
	}

	if got.EncType.Code != secrets.Identity.EncType.Code {
		t.Fatalf("EncType mismatch: got %d, want %d", got.EncType.Code, secrets.Identity.EncType.Code)
	}
	if got.SigType.Code != secrets.Identity.SigType.Code {
		t.Fatalf("SigType mismatch: got %d, want %d", got.SigType.Code, secrets.Identity.SigType.Code)
	}
	if string(got.PublicKey) != string(secrets.Identity.PublicKey) {
		t.Fatal("PublicKey mismatch after round trip")
	}
	if string(got.SigningKey) != string(secrets.Identity.SigningKey) {
		t.Fatal("SigningKey mismatch after round trip")
	}
	if string(got.Bytes()) != string(secrets.Identity.Bytes()) {
		t.Fatal("serialized round-trip bytes mismatch")
	}
}

func TestRouterIdentityHashStability(t *testing.T) {
	secrets, err := GenerateRouterSecretKeys(EncECIESX25519AEADRatchet, SigEdDSASHA512Ed25519)
	if err != nil {
		t.Fatalf("GenerateRouterSecretKeys: %v", err)
	}

	want := sha256.Sum256(secrets.Identity.Bytes())
	got := secrets.Identity.Hash()
	if got != Hash(want) {
		t.Fatalf("Hash() = %x, want SHA-256(Bytes()) = %x", got, want)
	}

	// Hashing the same identity through a fresh code path (re-parsed from
	// its own bytes) must produce the same digest.
	reparsed, _, err := ReadRouterIdentity(secrets.Identity.Bytes())
	if err != nil {
		t.Fatalf("ReadRouterIdentity: %v", err)
	}
	if reparsed.Hash() != got {
		t.Fatal("Hash() differs between the original identity and its re-parsed copy")
	}
}

func TestNewRouterIdentityRejectsWrongKeyLength(t *testing.T) {
	_, err := NewRouterIdentity(EncECIESX25519AEADRatchet, SigEdDSASHA512Ed25519, make([]byte, 31), make([]byte, 32))
	if err == nil {
		t.Fatal("expected error for short encryption public key")
	}
	_, err = NewRouterIdentity(EncECIESX25519AEADRatchet, SigEdDSASHA512Ed25519, make([]byte, 32), make([]byte, 31))
	if err == nil {
		t.Fatal("expected error for short signing public key")
	}
}

func TestNewRouterIdentityUnsupportedSigType(t *testing.T) {
	_, err := NewRouterIdentity(EncECIESX25519AEADRatchet, SigECDSASHA256P256, make([]byte, 32), make([]byte, 64))
	if err == nil {
		t.Fatal("expected error constructing an identity with an unsupported signature type")
	}
}
