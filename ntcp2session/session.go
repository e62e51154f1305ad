// Package ntcp2session wraps github.com/flynn/noise's Noise_XK handshake
// state with the two NTCP2-specific extensions the upstream library knows
// nothing about: aesobfse (AES-256-CBC obfuscation of the cleartext
// ephemeral keys in messages 1 and 2) and the ASK extension (deriving
// extra SipHash key/IV material from the completed handshake for data-phase
// length obfuscation). It follows the same shape as the teacher's
// AESObfuscationModifier/SipHashLengthModifier pair, but instead of two
// independent modifiers bolted onto a generic transport it is a single
// stateful wrapper purpose-built for NTCP2's fixed three-message pattern,
// since aesobfse's AES state must chain from message 1 into message 2 and
// ASK must run only after the Noise handshake itself has completed.
package ntcp2session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"

	"github.com/dchest/siphash"
	"github.com/flynn/noise"
	"github.com/samber/oops"
)

// cipherSuite is the fixed Noise_XK..._25519_ChaChaPoly_SHA256 suite NTCP2
// runs; NTCP2 has no negotiation of DH/cipher/hash primitives.
var cipherSuite = noise.NewCipherSuite(noise.DH25519, noise.CipherChaChaPoly, noise.HashSHA256)

// Session drives one side of an NTCP2 handshake: the Noise_XK exchange via
// flynn/noise, aesobfse across messages 1/2, transcript-hash mixing of
// handshake padding (set_h_data), and ASK-derived SipHash keys once the
// handshake completes.
type Session struct {
	hs        *noise.HandshakeState
	initiator bool

	obfKey   [32]byte // responder router hash (SHA-256 of its RouterIdentity), the aesobfse AES key
	obfState [16]byte // chained CBC IV: published IV for message 1, then carried forward for message 2

	transcript []byte // hash chain parallel to Noise's own h, seeded with a fixed label and extended by set_h_data for padding bytes not covered by flynn/noise's own MixHash calls

	askChain []byte // current ASK chaining key, seeded at EnableASK from the completed handshake hash

	sendCipher *noise.CipherState
	recvCipher *noise.CipherState
}

// NewOutbound constructs the initiator side of an NTCP2 handshake.
// localStatic is this router's NTCP2 static keypair; remoteStaticPub is
// the 32-byte static public key the peer advertised in its RouterAddress
// "s" option; responderRouterHash is SHA-256 of the peer's RouterIdentity
// (the aesobfse key, per spec); obfuscationIV is the peer's advertised
// 16-byte IV ("i" option).
func NewOutbound(localStatic noise.DHKey, remoteStaticPub []byte, responderRouterHash [32]byte, obfuscationIV [16]byte) (*Session, error) {
	hs, err := noise.NewHandshakeState(noise.Config{
		CipherSuite:   cipherSuite,
		Pattern:       noise.HandshakeXK,
		Initiator:     true,
		StaticKeypair: localStatic,
		PeerStatic:    remoteStaticPub,
	})
	if err != nil {
		return nil, noiseErr("NewOutbound", err)
	}
	return newSession(hs, true, responderRouterHash, obfuscationIV), nil
}

// NewInbound constructs the responder side of an NTCP2 handshake.
// localStatic is this router's NTCP2 static keypair; localRouterHash is
// SHA-256 of this router's own RouterIdentity (the aesobfse key, since the
// responder obfuscates with its own router hash); obfuscationIV is the
// 16-byte IV this router advertises in its own RouterAddress.
func NewInbound(localStatic noise.DHKey, localRouterHash [32]byte, obfuscationIV [16]byte) (*Session, error) {
	hs, err := noise.NewHandshakeState(noise.Config{
		CipherSuite:   cipherSuite,
		Pattern:       noise.HandshakeXK,
		Initiator:     false,
		StaticKeypair: localStatic,
	})
	if err != nil {
		return nil, noiseErr("NewInbound", err)
	}
	return newSession(hs, false, localRouterHash, obfuscationIV), nil
}

func newSession(hs *noise.HandshakeState, initiator bool, routerHash [32]byte, iv [16]byte) *Session {
	s := &Session{hs: hs, initiator: initiator}
	s.obfKey = routerHash
	s.obfState = iv
	s.transcript = append([]byte(nil), []byte("NTCP2 handshake transcript")...)
	return s
}

// aesObfuscate runs AES-256-CBC over a 32-byte ephemeral key using the
// chained obfuscation state, advancing that state for the next call
// (message 1 seeds it from the published IV; message 2 reuses the state
// message 1 left behind). Encryption and decryption are the same CBC
// operation run in opposite cipher.BlockMode directions; since NTCP2's
// aesobfse is only ever applied to a full 32-byte (two AES blocks) key,
// the caller picks the direction.
func (s *Session) aesObfuscate(ephemeral [32]byte, encrypt bool) ([32]byte, error) {
	var out [32]byte
	block, err := aes.NewCipher(s.obfKey[:])
	if err != nil {
		return out, oops.Code(CodeObfuscationFail).In("ntcp2session").Wrapf(err, "aes cipher init failed")
	}

	var mode cipher.BlockMode
	if encrypt {
		mode = cipher.NewCBCEncrypter(block, s.obfState[:])
	} else {
		mode = cipher.NewCBCDecrypter(block, s.obfState[:])
	}

	mode.CryptBlocks(out[:], ephemeral[:])

	// The IV chained into message 2 is the last ciphertext block seen on
	// the wire for message 1 — out[16:32] when encrypting (we are
	// producing that ciphertext), ephemeral[16:32] when decrypting (we
	// already received it), per NTCP2's aesobfse definition.
	if encrypt {
		copy(s.obfState[:], out[16:32])
	} else {
		copy(s.obfState[:], ephemeral[16:32])
	}
	return out, nil
}

// mixHandshakeData folds extra bytes — handshake padding that flynn/noise
// never sees — into the parallel transcript hash, mirroring Noise's own
// MixHash(data) so padding participates in transcript binding the same
// way in-pattern ciphertext does (NTCP2's set_h_data extension).
func (s *Session) mixHandshakeData(data []byte) {
	if len(data) == 0 {
		return
	}
	h := sha256.New()
	h.Write(s.transcript)
	h.Write(data)
	s.transcript = h.Sum(nil)
}

// MixPadding folds a separately-read padding block into the transcript.
// Wire reads of messages 1 and 2 happen in two stages — the fixed AEAD
// block first, then exactly PaddingLength more bytes once that length is
// known from the decrypted plaintext — so callers that can't hand the full
// message to ReadMessage1/ReadMessage2 in one call mix the padding here
// instead.
func (s *Session) MixPadding(data []byte) {
	s.mixHandshakeData(data)
}

// WriteMessage1 produces NTCP2 message 1 (SessionRequest): the obfuscated
// 32-byte initiator ephemeral key, followed by the AEAD-encrypted 16-byte
// plaintext block, followed by padding. padding is mixed into the
// transcript via set_h_data but is not covered by the Noise AEAD itself.
func (s *Session) WriteMessage1(plaintext, padding []byte) ([]byte, error) {
	ct, cs1, cs2, err := s.hs.WriteMessage(nil, plaintext)
	if err != nil {
		return nil, noiseErr("WriteMessage1", err)
	}
	if len(ct) < 32 {
		return nil, oops.Code(CodeNoiseFailure).In("ntcp2session").Errorf("message 1 ciphertext shorter than an ephemeral key")
	}

	var eph [32]byte
	copy(eph[:], ct[:32])
	obf, err := s.aesObfuscate(eph, true)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(ct)+len(padding))
	out = append(out, obf[:]...)
	out = append(out, ct[32:]...)
	out = append(out, padding...)

	s.mixHandshakeData(padding)
	s.captureCiphers(cs1, cs2)
	return out, nil
}

// ReadMessage1 parses NTCP2 message 1 on the responder side: deobfuscates
// the initiator's ephemeral key, runs it (plus the AEAD block) through the
// Noise handshake, and mixes the trailing padding into the transcript.
func (s *Session) ReadMessage1(message []byte, paddingLen int) (plaintext []byte, err error) {
	if len(message) < 32+paddingLen {
		return nil, oops.Code(CodeNoiseFailure).In("ntcp2session").Errorf("message 1 shorter than declared padding")
	}
	aeadEnd := len(message) - paddingLen

	var obf [32]byte
	copy(obf[:], message[:32])
	eph, err := s.aesObfuscate(obf, false)
	if err != nil {
		return nil, err
	}

	reconstructed := make([]byte, 0, aeadEnd)
	reconstructed = append(reconstructed, eph[:]...)
	reconstructed = append(reconstructed, message[32:aeadEnd]...)

	plaintext, cs1, cs2, err := s.hs.ReadMessage(nil, reconstructed)
	if err != nil {
		return nil, noiseErr("ReadMessage1", err)
	}
	s.mixHandshakeData(message[aeadEnd:])
	s.captureCiphers(cs1, cs2)
	return plaintext, nil
}

// WriteMessage2 produces NTCP2 message 2 (SessionCreated): the obfuscated
// responder ephemeral key (continuing the aesobfse CBC chain from message
// 1), the AEAD-encrypted 16-byte plaintext block, and padding.
func (s *Session) WriteMessage2(plaintext, padding []byte) ([]byte, error) {
	ct, cs1, cs2, err := s.hs.WriteMessage(nil, plaintext)
	if err != nil {
		return nil, noiseErr("WriteMessage2", err)
	}
	if len(ct) < 32 {
		return nil, oops.Code(CodeNoiseFailure).In("ntcp2session").Errorf("message 2 ciphertext shorter than an ephemeral key")
	}

	var eph [32]byte
	copy(eph[:], ct[:32])
	obf, err := s.aesObfuscate(eph, true)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(ct)+len(padding))
	out = append(out, obf[:]...)
	out = append(out, ct[32:]...)
	out = append(out, padding...)

	s.mixHandshakeData(padding)
	s.captureCiphers(cs1, cs2)
	return out, nil
}

// ReadMessage2 parses NTCP2 message 2 on the initiator side.
func (s *Session) ReadMessage2(message []byte, paddingLen int) (plaintext []byte, err error) {
	if len(message) < 32+paddingLen {
		return nil, oops.Code(CodeNoiseFailure).In("ntcp2session").Errorf("message 2 shorter than declared padding")
	}
	aeadEnd := len(message) - paddingLen

	var obf [32]byte
	copy(obf[:], message[:32])
	eph, err := s.aesObfuscate(obf, false)
	if err != nil {
		return nil, err
	}

	reconstructed := make([]byte, 0, aeadEnd)
	reconstructed = append(reconstructed, eph[:]...)
	reconstructed = append(reconstructed, message[32:aeadEnd]...)

	plaintext, cs1, cs2, err := s.hs.ReadMessage(nil, reconstructed)
	if err != nil {
		return nil, noiseErr("ReadMessage2", err)
	}
	s.mixHandshakeData(message[aeadEnd:])
	s.captureCiphers(cs1, cs2)
	return plaintext, nil
}

// WriteMessage3Part1 produces the Noise "s, se" portion of NTCP2 message 3
// (SessionConfirmed): the encrypted initiator static key, followed by the
// 16-byte tag of the empty Noise payload. It carries no plaintext payload
// bytes of its own — the signed RouterInfo travels as message
// 3's separately-AEAD'd "part 2", encrypted below by EncryptPart2 once the
// handshake's transport ciphers are available.
func (s *Session) WriteMessage3Part1() ([]byte, error) {
	ct, cs1, cs2, err := s.hs.WriteMessage(nil, nil)
	if err != nil {
		return nil, noiseErr("WriteMessage3Part1", err)
	}
	s.captureCiphers(cs1, cs2)
	return ct, nil
}

// ReadMessage3Part1 parses the Noise "s, se" portion of NTCP2 message 3 on
// the responder side, completing the Noise handshake.
func (s *Session) ReadMessage3Part1(message []byte) error {
	_, cs1, cs2, err := s.hs.ReadMessage(nil, message)
	if err != nil {
		return noiseErr("ReadMessage3Part1", err)
	}
	s.captureCiphers(cs1, cs2)
	return nil
}

func (s *Session) captureCiphers(cs1, cs2 *noise.CipherState) {
	if cs1 == nil || cs2 == nil {
		return
	}
	if s.initiator {
		s.sendCipher, s.recvCipher = cs1, cs2
	} else {
		s.sendCipher, s.recvCipher = cs2, cs1
	}
}

// EncryptPart2 AEAD-encrypts message 3's second frame (the signed
// RouterInfo plus padding) under the send-direction transport cipher
// established by the completed Noise handshake, using nonce 0 as NTCP2
// defines for this frame.
func (s *Session) EncryptPart2(plaintext []byte) ([]byte, error) {
	if s.sendCipher == nil {
		return nil, oops.Code(CodeNoiseFailure).In("ntcp2session").Errorf("handshake not complete: no transport cipher available")
	}
	return s.sendCipher.Encrypt(nil, nil, plaintext), nil
}

// DecryptPart2 AEAD-decrypts message 3's second frame under the receive-
// direction transport cipher.
func (s *Session) DecryptPart2(ciphertext []byte) ([]byte, error) {
	if s.recvCipher == nil {
		return nil, oops.Code(CodeNoiseFailure).In("ntcp2session").Errorf("handshake not complete: no transport cipher available")
	}
	pt, err := s.recvCipher.Decrypt(nil, nil, ciphertext)
	if err != nil {
		return nil, noiseErr("DecryptPart2", err)
	}
	return pt, nil
}

// HandshakeHash returns the completed Noise transcript hash folded together
// with the parallel set_h_data transcript, so that handshake padding (which
// flynn/noise's own ChannelBinding never saw) still participates in what
// ASK derives from. This is the root from which EnableASK derives its
// chaining key.
func (s *Session) HandshakeHash() []byte {
	h := sha256.New()
	h.Write(s.hs.ChannelBinding())
	h.Write(s.transcript)
	return h.Sum(nil)
}

// ASK is the pair of 32-byte secrets an Additional Symmetric Key
// derivation round produces.
type ASK struct {
	Ask0 [32]byte
	Ask1 [32]byte
}

// EnableASK seeds the ASK chaining key from the completed handshake hash.
// Call once per session after the handshake finishes and before any
// InitializeASK/FinalizeASK calls.
func (s *Session) EnableASK() {
	s.askChain = append([]byte(nil), s.HandshakeHash()...)
}

// InitializeASK advances the ASK chaining key for the given extension
// label (e.g. "SipHash"), the first rung of NTCP2's two-stage ASK ladder.
func (s *Session) InitializeASK(label string) error {
	if s.askChain == nil {
		return oops.Code(CodeASKNotReady).In("ntcp2session").Errorf("EnableASK must be called before InitializeASK")
	}
	mac := hmac.New(sha256.New, s.askChain)
	mac.Write([]byte(label))
	s.askChain = mac.Sum(nil)
	return nil
}

// FinalizeASK derives the (ask0, ask1) secret pair for the current ASK
// chaining key and label, the second rung of the ladder. ask0 is the new
// chaining key for any further ASK round under a different label; ask1 is
// the key material actually consumed (here, stretched into SipHash key/IV
// triples by DeriveSipHashMaterial).
func (s *Session) FinalizeASK(label string) (ASK, error) {
	if s.askChain == nil {
		return ASK{}, oops.Code(CodeASKNotReady).In("ntcp2session").Errorf("EnableASK must be called before FinalizeASK")
	}
	mac := hmac.New(sha256.New, s.askChain)
	mac.Write([]byte(label))
	mac.Write([]byte{0x01})
	var ask ASK
	copy(ask.Ask0[:], mac.Sum(nil))

	mac2 := hmac.New(sha256.New, s.askChain)
	mac2.Write([]byte(label))
	mac2.Write(ask.Ask0[:])
	mac2.Write([]byte{0x02})
	copy(ask.Ask1[:], mac2.Sum(nil))

	s.askChain = ask.Ask0[:]
	return ask, nil
}

// SipHashMaterial is one direction's worth of SipHash-2-4 key/IV material
// for data-phase frame length obfuscation.
type SipHashMaterial struct {
	K1 uint64
	K2 uint64
	IV uint64
}

// DeriveSipHashMaterial splits a finalized ASK secret into send and
// receive SipHashMaterial triples (six uint64 values total), each value a
// SipHash-2-4 of Ask1 under keys (0, 1) through (0, 6): the first three
// form the initiator-to-responder triple, the last three the
// responder-to-initiator triple, and initiator picks which of them is send.
// Only Ask1 is consumed; Ask0 does not feed the SipHash material.
func DeriveSipHashMaterial(ask ASK, initiator bool) (send, recv SipHashMaterial) {
	b := ask.Ask1[:]
	// Ask1 is only 32 bytes; fold it through SipHash itself to stretch
	// three uint64 outputs per direction deterministically rather than
	// truncating to fewer than the needed 48 bytes.
	a := siphash.Hash(0, 1, b)
	c := siphash.Hash(0, 2, b)
	e := siphash.Hash(0, 3, b)
	g := siphash.Hash(0, 4, b)
	i := siphash.Hash(0, 5, b)
	k := siphash.Hash(0, 6, b)

	initSend := SipHashMaterial{K1: a, K2: c, IV: e}
	initRecv := SipHashMaterial{K1: g, K2: i, IV: k}
	if initiator {
		return initSend, initRecv
	}
	return initRecv, initSend
}
