package common

import "testing"

func TestNullCertificateRoundTrip(t *testing.T) {
	cert := NullCertificate()
	data := cert.Bytes()
	if len(data) != 3 {
		t.Fatalf("Null certificate should encode as 3 header bytes, got %d", len(data))
	}

	got, remainder, err := ReadCertificate(data)
	if err != nil {
		t.Fatalf("ReadCertificate: %v", err)
	}
	if got.Type != CertNull {
		t.Fatalf("Type = %v, want CertNull", got.Type)
	}
	if len(remainder) != 0 {
		t.Fatalf("unexpected remainder: %x", remainder)
	}
}

func TestKeyCertificateRoundTrip(t *testing.T) {
	cert := NewKeyCertificate(SigEdDSASHA512Ed25519, EncECIESX25519AEADRatchet, nil, nil)
	data := append(cert.Bytes(), 0x01, 0x02, 0x03)

	got, remainder, err := ReadCertificate(data)
	if err != nil {
		t.Fatalf("ReadCertificate: %v", err)
	}
	if got.Type != CertKey {
		t.Fatalf("Type = %v, want CertKey", got.Type)
	}
	if got.Key.SigType.Code != SigEdDSASHA512Ed25519.Code {
		t.Fatalf("SigType.Code = %d, want %d", got.Key.SigType.Code, SigEdDSASHA512Ed25519.Code)
	}
	if got.Key.EncType.Code != EncECIESX25519AEADRatchet.Code {
		t.Fatalf("EncType.Code = %d, want %d", got.Key.EncType.Code, EncECIESX25519AEADRatchet.Code)
	}
	if len(remainder) != 3 {
		t.Fatalf("unexpected remainder length %d", len(remainder))
	}
}

func TestReadCertificateUnrecognizedType(t *testing.T) {
	data := []byte{0xEE, 0x00, 0x00}
	if _, _, err := ReadCertificate(data); err == nil {
		t.Fatal("expected error for unrecognized certificate type code")
	}
}

func TestReadCertificateIncomplete(t *testing.T) {
	if _, _, err := ReadCertificate([]byte{0x00, 0x00}); err == nil {
		t.Fatal("expected incomplete-data error for short input")
	}
}
