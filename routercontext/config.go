// Package routercontext holds the local router's identity, its view of the
// network database, and the NTCP2 listen/dial configuration that ties them
// together — the glue a standalone NTCP2 demo or a larger router process
// wires ntcp2.Inbound/ntcp2.Outbound against.
package routercontext

import (
	"os"
	"time"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk NTCP2 listen/dial configuration, loaded from YAML.
type Config struct {
	ListenHost       string        `yaml:"listen_host"`
	ListenPort       int           `yaml:"listen_port"`
	DialTimeout      time.Duration `yaml:"dial_timeout"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	MaxPadding       int           `yaml:"max_padding"`
	IdentityPath     string        `yaml:"identity_path"`
}

// DefaultConfig returns the NTCP2 listen/dial defaults used when no
// configuration file is present.
func DefaultConfig() *Config {
	return &Config{
		ListenHost:       "0.0.0.0",
		ListenPort:       0,
		DialTimeout:      30 * time.Second,
		HandshakeTimeout: 15 * time.Second,
		MaxPadding:       64,
		IdentityPath:     "router.keys.dat",
	}
}

// LoadConfig reads and parses a YAML configuration file at path, starting
// from DefaultConfig so a file only needs to override what it changes.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Code("CONFIG_READ_FAILED").In("routercontext").With("path", path).Wrapf(err, "reading config file")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, oops.Code("CONFIG_PARSE_FAILED").In("routercontext").With("path", path).Wrapf(err, "parsing config file")
	}
	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.ListenPort < 0 || c.ListenPort > 65535 {
		return oops.Code("INVALID_LISTEN_PORT").In("routercontext").With("port", c.ListenPort).Errorf("listen port out of range")
	}
	if c.DialTimeout <= 0 {
		return oops.Code("INVALID_DIAL_TIMEOUT").In("routercontext").With("timeout", c.DialTimeout).Errorf("dial timeout must be positive")
	}
	if c.HandshakeTimeout <= 0 {
		return oops.Code("INVALID_HANDSHAKE_TIMEOUT").In("routercontext").With("timeout", c.HandshakeTimeout).Errorf("handshake timeout must be positive")
	}
	if c.MaxPadding < 0 {
		return oops.Code("INVALID_MAX_PADDING").In("routercontext").With("max_padding", c.MaxPadding).Errorf("max padding must be non-negative")
	}
	return nil
}
