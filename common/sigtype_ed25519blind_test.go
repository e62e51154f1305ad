package common

import "testing"

func TestBlindEd25519SignVerifyRoundTrip(t *testing.T) {
	secrets, err := GenerateRouterSecretKeys(EncECIESX25519AEADRatchet, SigEdDSASHA512Ed25519)
	if err != nil {
		t.Fatalf("GenerateRouterSecretKeys: %v", err)
	}
	var seed [32]byte
	copy(seed[:], secrets.SigningPrivate)

	context := []byte("time-period-1")
	scalar, prefix, pub, err := BlindEd25519PrivateKey(seed, context)
	if err != nil {
		t.Fatalf("BlindEd25519PrivateKey: %v", err)
	}

	msg := []byte("encrypted leaseset payload")
	sig, err := SignBlinded(scalar, prefix, pub, msg)
	if err != nil {
		t.Fatalf("SignBlinded: %v", err)
	}
	if !VerifyBlinded(pub, msg, sig) {
		t.Fatal("VerifyBlinded should accept a signature produced by SignBlinded")
	}
	if VerifyBlinded(pub, []byte("tampered"), sig) {
		t.Fatal("VerifyBlinded should reject a signature over a different message")
	}
}

func TestBlindEd25519PublicKeyMatchesPrivateDerivation(t *testing.T) {
	secrets, err := GenerateRouterSecretKeys(EncECIESX25519AEADRatchet, SigEdDSASHA512Ed25519)
	if err != nil {
		t.Fatalf("GenerateRouterSecretKeys: %v", err)
	}
	var seed [32]byte
	copy(seed[:], secrets.SigningPrivate)

	unblindedPub, err := ed25519PublicFromSeed(secrets.SigningPrivate)
	if err != nil {
		t.Fatalf("ed25519PublicFromSeed: %v", err)
	}
	var pubArr [32]byte
	copy(pubArr[:], unblindedPub)

	context := []byte("time-period-42")
	fromPublic, err := BlindEd25519PublicKey(pubArr, context)
	if err != nil {
		t.Fatalf("BlindEd25519PublicKey: %v", err)
	}

	_, _, fromPrivate, err := BlindEd25519PrivateKey(seed, context)
	if err != nil {
		t.Fatalf("BlindEd25519PrivateKey: %v", err)
	}

	if fromPublic != fromPrivate {
		t.Fatalf("blinded public key from BlindEd25519PublicKey = %x, want %x (from BlindEd25519PrivateKey)", fromPublic, fromPrivate)
	}
}

func TestBlindEd25519DifferentContextsProduceDifferentKeys(t *testing.T) {
	secrets, err := GenerateRouterSecretKeys(EncECIESX25519AEADRatchet, SigEdDSASHA512Ed25519)
	if err != nil {
		t.Fatalf("GenerateRouterSecretKeys: %v", err)
	}
	var seed [32]byte
	copy(seed[:], secrets.SigningPrivate)

	_, _, pubA, err := BlindEd25519PrivateKey(seed, []byte("period-1"))
	if err != nil {
		t.Fatalf("BlindEd25519PrivateKey(period-1): %v", err)
	}
	_, _, pubB, err := BlindEd25519PrivateKey(seed, []byte("period-2"))
	if err != nil {
		t.Fatalf("BlindEd25519PrivateKey(period-2): %v", err)
	}

	if pubA == pubB {
		t.Fatal("blinded public keys for different contexts should differ")
	}
}
