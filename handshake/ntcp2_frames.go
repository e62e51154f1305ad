package handshake

import (
	"encoding/binary"

	"github.com/samber/oops"
)

// Wire constants for the NTCP2 handshake messages. Message 1
// (SessionRequest) and message 2 (SessionCreated) each carry a fixed
// 16-byte encrypted plaintext block; message 3 (SessionConfirmed) carries
// a variable-length signed RouterInfo plus padding.
const (
	// NTCP2NoiseProtocolName is the full Noise protocol name NTCP2 runs,
	// including its non-standard aesobfse/hs2/hs3 modifications.
	NTCP2NoiseProtocolName = "Noise_XKaesobfse+hs2+hs3_25519_ChaChaPoly_SHA256"

	// NTCP2Version is the value routers advertise in RouterAddress "v".
	NTCP2Version = "2"

	// NTCP2Style is the RouterAddress transport style for NTCP2.
	NTCP2Style = "NTCP2"

	// NTCPStyle is the legacy fallback transport style.
	NTCPStyle = "NTCP"

	// SessionRequestPlaintextLen is the length of message 1's encrypted
	// plaintext block: version (1 byte), padding_length (2 bytes),
	// m3p2_length (2 bytes), timestamp (4 bytes), and 7 reserved zero
	// bytes.
	SessionRequestPlaintextLen = 16

	// SessionRequestCiphertextLen is message 1's total ciphertext length
	// (plaintext plus Poly1305 tag), which follows the 32-byte obfuscated
	// ephemeral key on the wire.
	SessionRequestCiphertextLen = SessionRequestPlaintextLen + 16

	// SessionCreatedPlaintextLen is message 2's encrypted plaintext block:
	// 4 reserved zero bytes, padding_length, timestamp, 6 reserved zero
	// bytes.
	SessionCreatedPlaintextLen = 16

	// SessionCreatedCiphertextLen is message 2's total ciphertext length.
	SessionCreatedCiphertextLen = SessionCreatedPlaintextLen + 16

	// NTCP2MTU bounds the total size of any single NTCP2 frame.
	NTCP2MTU = 65535

	// SessionConfirmedPart1Len is the fixed length of message 3's Noise
	// "s, se" block: the 32-byte encrypted initiator static key plus its
	// 16-byte Poly1305 tag, followed by the 16-byte tag of the Noise
	// message's empty payload. It carries no payload bytes of its own.
	SessionConfirmedPart1Len = 64
)

// SessionRequestFields is the decoded plaintext of NTCP2 message 1.
type SessionRequestFields struct {
	Version             uint8
	PaddingLength       uint16
	Message3Part2Length uint16
	Timestamp           uint32
}

// Bytes encodes the fields into the fixed 16-byte plaintext block:
//
//	[version:1][padding_length:2][m3p2_length:2][timestamp:4][reserved:7]
func (f SessionRequestFields) Bytes() []byte {
	out := make([]byte, SessionRequestPlaintextLen)
	out[0] = f.Version
	binary.BigEndian.PutUint16(out[1:3], f.PaddingLength)
	binary.BigEndian.PutUint16(out[3:5], f.Message3Part2Length)
	binary.BigEndian.PutUint32(out[5:9], f.Timestamp)
	// out[9:16] stays reserved/zero.
	return out
}

// ReadSessionRequestFields decodes the fixed 16-byte plaintext block of
// NTCP2 message 1.
func ReadSessionRequestFields(data []byte) (SessionRequestFields, error) {
	if len(data) != SessionRequestPlaintextLen {
		return SessionRequestFields{}, oops.
			Code("NTCP2_FRAME_LENGTH").
			In("handshake").
			With("want", SessionRequestPlaintextLen).
			With("have", len(data)).
			Errorf("SessionRequest plaintext block has the wrong length")
	}
	for _, b := range data[9:16] {
		if b != 0 {
			return SessionRequestFields{}, oops.
				Code("NTCP2_FRAME_RESERVED").
				In("handshake").
				Errorf("SessionRequest reserved bytes must be zero")
		}
	}
	return SessionRequestFields{
		Version:             data[0],
		PaddingLength:       binary.BigEndian.Uint16(data[1:3]),
		Message3Part2Length: binary.BigEndian.Uint16(data[3:5]),
		Timestamp:           binary.BigEndian.Uint32(data[5:9]),
	}, nil
}

// SessionCreatedFields is the decoded plaintext of NTCP2 message 2.
type SessionCreatedFields struct {
	PaddingLength uint16
	Timestamp     uint32
}

// Bytes encodes the fields into the fixed 16-byte plaintext block:
//
//	[reserved:4][padding_length:2][timestamp:4][reserved:6]
func (f SessionCreatedFields) Bytes() []byte {
	out := make([]byte, SessionCreatedPlaintextLen)
	binary.BigEndian.PutUint16(out[4:6], f.PaddingLength)
	binary.BigEndian.PutUint32(out[6:10], f.Timestamp)
	return out
}

// ReadSessionCreatedFields decodes the fixed 16-byte plaintext block of
// NTCP2 message 2.
func ReadSessionCreatedFields(data []byte) (SessionCreatedFields, error) {
	if len(data) != SessionCreatedPlaintextLen {
		return SessionCreatedFields{}, oops.
			Code("NTCP2_FRAME_LENGTH").
			In("handshake").
			With("want", SessionCreatedPlaintextLen).
			With("have", len(data)).
			Errorf("SessionCreated plaintext block has the wrong length")
	}
	for _, b := range data[0:4] {
		if b != 0 {
			return SessionCreatedFields{}, oops.
				Code("NTCP2_FRAME_RESERVED").
				In("handshake").
				Errorf("SessionCreated reserved bytes must be zero")
		}
	}
	for _, b := range data[10:16] {
		if b != 0 {
			return SessionCreatedFields{}, oops.
				Code("NTCP2_FRAME_RESERVED").
				In("handshake").
				Errorf("SessionCreated reserved bytes must be zero")
		}
	}
	return SessionCreatedFields{
		PaddingLength: binary.BigEndian.Uint16(data[4:6]),
		Timestamp:     binary.BigEndian.Uint32(data[6:10]),
	}, nil
}

// SessionConfirmedPart2 bundles the serialized RouterInfo and trailing
// padding that make up the second, variable-length AEAD frame of NTCP2
// message 3 (the first frame is the fixed-size Noise DH/signature block
// handled by the session layer).
type SessionConfirmedPart2 struct {
	RouterInfo []byte
	Padding    []byte
}

// Bytes concatenates the RouterInfo bytes and padding in wire order.
func (p SessionConfirmedPart2) Bytes() []byte {
	out := make([]byte, 0, len(p.RouterInfo)+len(p.Padding))
	out = append(out, p.RouterInfo...)
	out = append(out, p.Padding...)
	return out
}

// SplitSessionConfirmedPart2 divides a decrypted message-3-part-2 payload
// into its RouterInfo prefix and trailing padding, given the RouterInfo's
// serialized length (learned by parsing the RouterInfo at the front of
// data).
func SplitSessionConfirmedPart2(data []byte, routerInfoLen int) (SessionConfirmedPart2, error) {
	if routerInfoLen < 0 || routerInfoLen > len(data) {
		return SessionConfirmedPart2{}, oops.
			Code("NTCP2_FRAME_LENGTH").
			In("handshake").
			With("router_info_len", routerInfoLen).
			With("have", len(data)).
			Errorf("message 3 part 2 shorter than declared RouterInfo length")
	}
	return SessionConfirmedPart2{
		RouterInfo: append([]byte(nil), data[:routerInfoLen]...),
		Padding:    append([]byte(nil), data[routerInfoLen:]...),
	}, nil
}
