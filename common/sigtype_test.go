package common

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"testing"
)

func TestEdDSASignVerifyRoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("ed25519.GenerateKey: %v", err)
	}

	msg := []byte("session confirmed payload")
	sig, err := SigEdDSASHA512Ed25519.Sign(priv.Seed(), msg)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !SigEdDSASHA512Ed25519.Verify(pub, msg, sig) {
		t.Fatal("Verify rejected a signature produced by Sign")
	}
	if SigEdDSASHA512Ed25519.Verify(pub, []byte("tampered"), sig) {
		t.Fatal("Verify accepted a signature over a different message")
	}
}

func TestECDSASignVerifyRoundTrip(t *testing.T) {
	cases := []struct {
		st    SigType
		curve elliptic.Curve
	}{
		{SigECDSASHA256P256, elliptic.P256()},
		{SigECDSASHA384P384, elliptic.P384()},
	}
	for _, c := range cases {
		key, err := ecdsa.GenerateKey(c.curve, rand.Reader)
		if err != nil {
			t.Fatalf("%s: GenerateKey: %v", c.st.Name, err)
		}

		byteLen := c.st.PrivKeyLen
		priv := make([]byte, byteLen)
		key.D.FillBytes(priv)
		pub := make([]byte, 2*byteLen)
		key.X.FillBytes(pub[:byteLen])
		key.Y.FillBytes(pub[byteLen:])

		msg := []byte("ntcp2 handshake transcript")
		sig, err := c.st.Sign(priv, msg)
		if err != nil {
			t.Fatalf("%s: Sign: %v", c.st.Name, err)
		}
		if !c.st.Verify(pub, msg, sig) {
			t.Fatalf("%s: Verify rejected a signature produced by Sign", c.st.Name)
		}
	}
}

func TestSigTypeRegistryCoverage(t *testing.T) {
	for _, code := range []uint16{0, 1, 2, 7} {
		if _, ok := SigTypeByCode(code); !ok {
			t.Fatalf("SigTypeByCode(%d) missing from registry", code)
		}
	}
}

func TestUnsupportedSigTypeSignFails(t *testing.T) {
	unregistered := SigType{Code: 9999, Name: "unregistered"}
	if _, err := unregistered.Sign(nil, nil); err == nil {
		t.Fatal("expected error signing with a SigType that has no sign closure")
	}
	if unregistered.Verify(nil, nil, nil) {
		t.Fatal("expected false verifying with a SigType that has no verify closure")
	}
}
