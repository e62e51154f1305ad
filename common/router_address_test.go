package common

import "testing"

func TestRouterAddressRoundTrip(t *testing.T) {
	opts := NewMapping(map[I2PString]I2PString{
		"host": "192.168.1.1",
		"port": "12345",
		"v":    "2",
		"s":    "abc",
		"i":    "def",
	})
	addr := NewRouterAddress(10, I2PDate(0), "NTCP2", opts)

	data := append(addr.Bytes(), 0x7F)
	got, remainder, err := ReadRouterAddress(data)
	if err != nil {
		t.Fatalf("ReadRouterAddress: %v", err)
	}
	if len(remainder) != 1 || remainder[0] != 0x7F {
		t.Fatalf("unexpected remainder: %x", remainder)
	}

	if got.Cost != addr.Cost {
		t.Fatalf("Cost = %d, want %d", got.Cost, addr.Cost)
	}
	if got.Host() != "192.168.1.1" {
		t.Fatalf("Host() = %q", got.Host())
	}
	if got.Port() != "12345" {
		t.Fatalf("Port() = %q", got.Port())
	}
	if got.NTCP2Version() != "2" {
		t.Fatalf("NTCP2Version() = %q", got.NTCP2Version())
	}
	if got.StaticKeyBase64() != "abc" {
		t.Fatalf("StaticKeyBase64() = %q", got.StaticKeyBase64())
	}
	if got.IVBase64() != "def" {
		t.Fatalf("IVBase64() = %q", got.IVBase64())
	}
}

func TestRouterAddressMissingOptionsAreEmpty(t *testing.T) {
	addr := NewRouterAddress(0, I2PDate(0), "SSU2", nil)
	if addr.Host() != "" || addr.Port() != "" || addr.StaticKeyBase64() != "" {
		t.Fatal("absent options should read back as empty strings, not panic")
	}
	if _, ok := addr.GetOption("host"); ok {
		t.Fatal("GetOption should report false for an absent key")
	}
}

func TestReadRouterAddressIncomplete(t *testing.T) {
	if _, _, err := ReadRouterAddress([]byte{0x00}); err == nil {
		t.Fatal("expected incomplete-data error for truncated input")
	}
}
