package common

import "testing"

func TestGenerateX25519KeypairDerivesConsistentPublic(t *testing.T) {
	priv, pub, err := GenerateX25519Keypair()
	if err != nil {
		t.Fatalf("GenerateX25519Keypair: %v", err)
	}

	derived, err := EncECIESX25519AEADRatchet.DerivePublic(priv[:])
	if err != nil {
		t.Fatalf("DerivePublic: %v", err)
	}
	if string(derived) != string(pub[:]) {
		t.Fatalf("DerivePublic(priv) = %x, want %x", derived, pub)
	}
}

func TestElGamalDerivePublicUnsupported(t *testing.T) {
	if _, err := EncElGamal2048.DerivePublic(make([]byte, 256)); err == nil {
		t.Fatal("expected ElGamal_2048 DerivePublic to report unsupported")
	}
}

func TestEncTypeRegistryCoverage(t *testing.T) {
	for _, code := range []uint16{0, 4} {
		if _, ok := EncTypeByCode(code); !ok {
			t.Fatalf("EncTypeByCode(%d) missing from registry", code)
		}
	}
}

func TestECIESSealOpenRoundTrip(t *testing.T) {
	priv, pub, err := GenerateX25519Keypair()
	if err != nil {
		t.Fatalf("GenerateX25519Keypair: %v", err)
	}

	msg := []byte("garlic clove payload")
	ct, err := EncECIESX25519AEADRatchet.Seal(pub[:], msg)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if len(ct) != 32+len(msg)+16 {
		t.Fatalf("Seal output length = %d, want %d", len(ct), 32+len(msg)+16)
	}

	pt, err := EncECIESX25519AEADRatchet.Open(priv[:], ct)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if string(pt) != string(msg) {
		t.Fatalf("Open = %q, want %q", pt, msg)
	}
}

func TestECIESOpenRejectsTamperedCiphertext(t *testing.T) {
	priv, pub, err := GenerateX25519Keypair()
	if err != nil {
		t.Fatalf("GenerateX25519Keypair: %v", err)
	}

	ct, err := EncECIESX25519AEADRatchet.Seal(pub[:], []byte("hello"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	ct[len(ct)-1] ^= 0xFF

	if _, err := EncECIESX25519AEADRatchet.Open(priv[:], ct); err == nil {
		t.Fatal("Open should reject a tampered ciphertext")
	}
}

func TestECIESSealRejectsOtherEncType(t *testing.T) {
	if _, err := EncElGamal2048.Seal(make([]byte, 32), []byte("x")); err == nil {
		t.Fatal("Seal should reject an EncType other than ECIES_X25519")
	}
}
