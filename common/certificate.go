package common

import "encoding/binary"

// CertType identifies the variant of a Certificate.
type CertType uint8

const (
	CertNull      CertType = 0
	CertHashCash  CertType = 1
	CertHidden    CertType = 2
	CertSigned    CertType = 3
	CertMultiple  CertType = 4
	CertKey       CertType = 5
)

// Certificate is a tagged union: {Null, HashCash(bytes), Hidden,
// Signed(bytes), Multiple(bytes), Key(KeyCertificate)}.
type Certificate struct {
	Type    CertType
	Payload []byte // raw payload bytes for HashCash/Signed/Multiple
	Key     KeyCertificate
}

// KeyCertificate carries (sig_type, enc_type, sig_data, enc_data), where
// sig_data/enc_data hold key bytes that do not fit within the 384-byte
// RouterIdentity prefix.
type KeyCertificate struct {
	SigType SigType
	EncType EncType
	SigData []byte
	EncData []byte
}

// NullCertificate returns the zero-length Null certificate.
func NullCertificate() Certificate {
	return Certificate{Type: CertNull}
}

// NewKeyCertificate builds a Key certificate (type 5) for the given
// signature/encryption algorithm pair.
func NewKeyCertificate(sigType SigType, encType EncType, sigData, encData []byte) Certificate {
	return Certificate{
		Type: CertKey,
		Key: KeyCertificate{
			SigType: sigType,
			EncType: encType,
			SigData: append([]byte(nil), sigData...),
			EncData: append([]byte(nil), encData...),
		},
	}
}

// payloadBytes returns the encoded certificate payload (without the
// 3-byte type+length header).
func (c Certificate) payloadBytes() []byte {
	switch c.Type {
	case CertNull, CertHidden:
		return nil
	case CertHashCash, CertSigned, CertMultiple:
		return c.Payload
	case CertKey:
		out := make([]byte, 4, 4+len(c.Key.SigData)+len(c.Key.EncData))
		binary.BigEndian.PutUint16(out[0:2], c.Key.SigType.Code)
		binary.BigEndian.PutUint16(out[2:4], c.Key.EncType.Code)
		out = append(out, c.Key.SigData...)
		out = append(out, c.Key.EncData...)
		return out
	default:
		return c.Payload
	}
}

// Length returns the byte length of the certificate's payload (not
// including the 3-byte header).
func (c Certificate) Length() int {
	return len(c.payloadBytes())
}

// Bytes encodes the certificate as a 1-byte type code, a 2-byte payload
// length, and the payload itself.
func (c Certificate) Bytes() []byte {
	payload := c.payloadBytes()
	out := make([]byte, 3+len(payload))
	out[0] = byte(c.Type)
	binary.BigEndian.PutUint16(out[1:3], uint16(len(payload)))
	copy(out[3:], payload)
	return out
}

// ReadCertificate reads a Certificate from the front of data, returning
// the remainder. Fails with a parse error on an unrecognized type code or
// malformed Key-certificate payload.
func ReadCertificate(data []byte) (cert Certificate, remainder []byte, err error) {
	if len(data) < 3 {
		err = incompleteErr("ReadCertificate", 3, len(data))
		return
	}
	typ := CertType(data[0])
	length := int(binary.BigEndian.Uint16(data[1:3]))
	if len(data) < 3+length {
		err = incompleteErr("ReadCertificate", 3+length, len(data))
		return
	}
	payload := data[3 : 3+length]
	remainder = data[3+length:]

	switch typ {
	case CertNull, CertHidden:
		cert = Certificate{Type: typ}
	case CertHashCash, CertSigned, CertMultiple:
		cert = Certificate{Type: typ, Payload: append([]byte(nil), payload...)}
	case CertKey:
		if len(payload) < 4 {
			err = parseErr("ReadCertificate", "key certificate payload shorter than 4 bytes")
			return
		}
		sigCode := binary.BigEndian.Uint16(payload[0:2])
		encCode := binary.BigEndian.Uint16(payload[2:4])
		sigType, ok := SigTypeByCode(sigCode)
		if !ok {
			err = parseErr("ReadCertificate", "unrecognized sig_type in key certificate")
			return
		}
		encType, ok := EncTypeByCode(encCode)
		if !ok {
			err = parseErr("ReadCertificate", "unrecognized enc_type in key certificate")
			return
		}
		rest := payload[4:]
		sigExtra := sigType.PubKeyLen - sigType.StandardSlotLen()
		if sigExtra < 0 {
			sigExtra = 0
		}
		if len(rest) < sigExtra {
			err = parseErr("ReadCertificate", "key certificate sig_data truncated")
			return
		}
		sigData := rest[:sigExtra]
		encData := rest[sigExtra:]
		cert = Certificate{
			Type: typ,
			Key: KeyCertificate{
				SigType: sigType,
				EncType: encType,
				SigData: append([]byte(nil), sigData...),
				EncData: append([]byte(nil), encData...),
			},
		}
	default:
		err = parseErr("ReadCertificate", "unrecognized certificate type code")
		return
	}
	return
}
