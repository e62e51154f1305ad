package common

import "testing"

func TestMappingRoundTrip(t *testing.T) {
	m := NewMapping(map[I2PString]I2PString{
		"host": "10.0.0.1",
		"port": "12345",
		"v":    "2",
	})

	data := m.Bytes()
	got, remainder, err := ReadMapping(data)
	if err != nil {
		t.Fatalf("ReadMapping: %v", err)
	}
	if len(remainder) != 0 {
		t.Fatalf("unexpected remainder: %x", remainder)
	}
	if !got.Equal(m) {
		t.Fatalf("round-tripped mapping not equal to original")
	}
}

func TestMappingCanonicalOrdering(t *testing.T) {
	a := NewMapping(map[I2PString]I2PString{"b": "2", "a": "1", "c": "3"})
	b := NewMapping(map[I2PString]I2PString{"c": "3", "a": "1", "b": "2"})

	if string(a.Bytes()) != string(b.Bytes()) {
		t.Fatal("mappings with the same entries in different insertion order must serialize identically")
	}
}

func TestMappingGetSet(t *testing.T) {
	m := NewMapping(nil)
	if _, ok := m.Get("missing"); ok {
		t.Fatal("empty mapping should not contain any key")
	}

	m.Set("key", "value")
	v, ok := m.Get("key")
	if !ok || v != "value" {
		t.Fatalf("Get(%q) = (%q, %v), want (\"value\", true)", "key", v, ok)
	}
	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}
}
