// Package sessionpool keeps completed NTCP2 handshake sessions around for
// reuse, keyed by the remote router's identity hash, so that repeated
// transport activity toward the same peer doesn't re-run the handshake.
package sessionpool

import "time"

// Config configures a Pool.
type Config struct {
	MaxPerPeer int           // maximum pooled sessions per remote router hash
	MaxAge     time.Duration // maximum session age before eviction
	MaxIdle    time.Duration // maximum idle time before eviction
}

// DefaultConfig returns sensible pooling defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxPerPeer: 4,
		MaxAge:     30 * time.Minute,
		MaxIdle:    5 * time.Minute,
	}
}
