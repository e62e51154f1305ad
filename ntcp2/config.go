package ntcp2

import (
	"time"

	"github.com/flynn/noise"
	"github.com/go-i2p/ntcp2core/internal"
)

// Default bounds on handshake padding, mirroring what real NTCP2 routers
// advertise: small, but non-zero, to keep handshake lengths from being a
// trivial fingerprint.
const (
	DefaultMaxPadding       = 64
	DefaultHandshakeTimeout = 15 * time.Second

	// timestampSkewTolerance bounds how far a peer's handshake timestamp
	// may drift from local time before a handshake is rejected.
	timestampSkewTolerance = 60 * time.Second
)

// Config bundles the local identity and tunables an outbound or inbound
// handshake needs. It is shared by both state machines; a router builds it
// once from its persisted identity and reuses it across connections.
type Config struct {
	// StaticKey is the router's NTCP2 static X25519 keypair, advertised
	// in its RouterAddress "s" option and used as the Noise_XK static
	// key.
	StaticKey noise.DHKey

	// RouterHash is this router's own identity hash, used to derive the
	// aesobfse key for connections where this router is the responder.
	RouterHash [32]byte

	// ObfuscationIV seeds the aesobfse CBC chain for new connections;
	// advertised in the RouterAddress "i" option.
	ObfuscationIV [16]byte

	// PaddingSource chooses handshake padding lengths. Defaults to
	// internal.DefaultPaddingSource if left nil.
	PaddingSource internal.PaddingSource

	// MaxPadding bounds the padding length requested from PaddingSource.
	// Defaults to DefaultMaxPadding if zero.
	MaxPadding int

	// HandshakeTimeout bounds the total time a handshake may take.
	// Defaults to DefaultHandshakeTimeout if zero.
	HandshakeTimeout time.Duration
}

// NewConfig builds a Config from a static keypair and router hash, filling
// in the defaults for padding and timeouts.
func NewConfig(staticKey noise.DHKey, routerHash [32]byte, obfuscationIV [16]byte) *Config {
	return &Config{
		StaticKey:        staticKey,
		RouterHash:       routerHash,
		ObfuscationIV:    obfuscationIV,
		PaddingSource:    internal.DefaultPaddingSource,
		MaxPadding:       DefaultMaxPadding,
		HandshakeTimeout: DefaultHandshakeTimeout,
	}
}

func (c *Config) paddingSource() internal.PaddingSource {
	if c.PaddingSource != nil {
		return c.PaddingSource
	}
	return internal.DefaultPaddingSource
}

func (c *Config) maxPadding() int {
	if c.MaxPadding > 0 {
		return c.MaxPadding
	}
	return DefaultMaxPadding
}

func (c *Config) handshakeTimeout() time.Duration {
	if c.HandshakeTimeout > 0 {
		return c.HandshakeTimeout
	}
	return DefaultHandshakeTimeout
}
