package common

import "testing"

func TestBase64RoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00},
		{0xFF, 0xEE, 0xDD, 0xCC},
		SHA256Hash([]byte("router identity")).Bytes(),
	}
	for _, in := range cases {
		enc := EncodeBase64(in)
		out, err := DecodeBase64(enc)
		if err != nil {
			t.Fatalf("DecodeBase64(%q): %v", enc, err)
		}
		if len(out) != len(in) {
			t.Fatalf("round-trip length mismatch: got %d, want %d", len(out), len(in))
		}
		for i := range in {
			if out[i] != in[i] {
				t.Fatalf("round-trip mismatch at byte %d: got %x, want %x", i, out, in)
			}
		}
	}
}

func TestBase64UsesI2PAlphabet(t *testing.T) {
	// 0xFB 0xFF 0xBF encodes to standard base64 "+/+/"; I2P substitutes
	// '-' for '+' and '~' for '/'.
	enc := EncodeBase64([]byte{0xFB, 0xFF, 0xBF})
	for _, c := range enc {
		if c == '+' || c == '/' {
			t.Fatalf("I2P base64 output must not contain standard '+'/'/': %q", enc)
		}
	}
}
