package common

import "testing"

func TestHashXorInvolution(t *testing.T) {
	a := SHA256Hash([]byte("alpha"))
	b := SHA256Hash([]byte("beta"))

	got := a
	got.Xor(b).Xor(b)
	if got != a {
		t.Fatalf("(a xor b) xor b = %x, want %x", got, a)
	}

	zeroed := a
	zeroed.Xor(a)
	var zero Hash
	if zeroed != zero {
		t.Fatalf("a xor a = %x, want zero hash", zeroed)
	}
}

func TestHashEqualAndString(t *testing.T) {
	a := SHA256Hash([]byte("same"))
	b := SHA256Hash([]byte("same"))
	if !a.Equal(b) {
		t.Fatal("identical inputs should hash equal")
	}

	c := SHA256Hash([]byte("different"))
	if a.Equal(c) {
		t.Fatal("different inputs should not hash equal")
	}

	if a.String() == "" {
		t.Fatal("String() should not be empty")
	}
}

func TestReadHashRoundTrip(t *testing.T) {
	h := SHA256Hash([]byte("router identity bytes"))
	data := append(h.Bytes(), 0xAA, 0xBB)

	got, remainder, err := ReadHash(data)
	if err != nil {
		t.Fatalf("ReadHash: %v", err)
	}
	if got != h {
		t.Fatalf("ReadHash = %x, want %x", got, h)
	}
	if len(remainder) != 2 || remainder[0] != 0xAA || remainder[1] != 0xBB {
		t.Fatalf("unexpected remainder: %x", remainder)
	}
}

func TestReadHashIncomplete(t *testing.T) {
	if _, _, err := ReadHash([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected incomplete-data error for short input")
	}
}
