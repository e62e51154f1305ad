package common

import (
	"testing"
	"time"
)

func buildSignedRouterInfo(t *testing.T, addrs []RouterAddress) (*RouterInfo, RouterSecretKeys) {
	t.Helper()
	secrets, err := GenerateRouterSecretKeys(EncECIESX25519AEADRatchet, SigEdDSASHA512Ed25519)
	if err != nil {
		t.Fatalf("GenerateRouterSecretKeys: %v", err)
	}

	ri := NewRouterInfo(secrets.Identity, DateFromTime(time.Unix(1700000000, 0)), addrs, nil)
	if err := ri.Sign(secrets.SigningPrivate); err != nil {
		t.Fatalf("Sign: %v", err)
	}
	return ri, secrets
}

func TestRouterInfoRoundTrip(t *testing.T) {
	ri, _ := buildSignedRouterInfo(t, []RouterAddress{
		NewRouterAddress(5, I2PDate(0), "NTCP2", NewMapping(map[I2PString]I2PString{"host": "1.2.3.4", "port": "1234"})),
	})

	data := append(ri.Bytes(), 0xAA)
	got, remainder, err := ReadRouterInfo(data)
	if err != nil {
		t.Fatalf("ReadRouterInfo: %v", err)
	}
	if len(remainder) != 1 || remainder[0] != 0xAA {
		t.Fatalf("unexpected remainder: %x", remainder)
	}
	if got.Hash() != ri.Hash() {
		t.Fatal("Hash mismatch after round trip")
	}
	if !got.VerifySignature() {
		t.Fatal("round-tripped RouterInfo failed signature verification")
	}
	if len(got.Addresses) != 1 || got.Addresses[0].Host() != "1.2.3.4" {
		t.Fatal("addresses did not survive round trip")
	}
}

func TestRouterInfoSignatureInvalidatedByMutation(t *testing.T) {
	ri, _ := buildSignedRouterInfo(t, nil)
	if !ri.VerifySignature() {
		t.Fatal("freshly signed RouterInfo should verify")
	}

	ri.Published = ri.Published + 1
	if ri.VerifySignature() {
		t.Fatal("mutating Published should invalidate the existing signature")
	}
}

func TestRouterInfoAddressFilter(t *testing.T) {
	p1 := NewRouterAddress(1, I2PDate(0), "other", NewMapping(map[I2PString]I2PString{"port": "1"}))
	p2 := NewRouterAddress(1, I2PDate(0), "test", NewMapping(map[I2PString]I2PString{"port": "2"}))
	p3 := NewRouterAddress(1, I2PDate(0), "test", NewMapping(map[I2PString]I2PString{"port": "3"}))

	ri, _ := buildSignedRouterInfo(t, []RouterAddress{p1, p2, p3})

	if a, ok := ri.Address("test", nil); !ok || a.Port() != "2" {
		t.Fatalf("Address(\"test\", nil) = (%v, %v), want port 2", a, ok)
	}

	if a, ok := ri.Address("test", func(ra RouterAddress) bool { return ra.Port() == "3" }); !ok || a.Port() != "3" {
		t.Fatalf("filtered Address(\"test\", port==3) = (%v, %v), want port 3", a, ok)
	}

	if _, ok := ri.Address("absent", nil); ok {
		t.Fatal("Address should report false for a transport style that is not present")
	}
}
