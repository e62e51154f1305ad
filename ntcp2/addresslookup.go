package ntcp2

import (
	"github.com/flynn/noise"
	"github.com/go-i2p/ntcp2core/common"
	"github.com/go-i2p/ntcp2core/handshake"
)

// PeerAddress is the resolved dial target for an outbound NTCP2 handshake:
// the peer's advertised static key and obfuscation IV, decoded from its
// RouterInfo's NTCP2 RouterAddress options.
type PeerAddress struct {
	Host          string
	Port          string
	StaticKey     [32]byte
	ObfuscationIV [16]byte
}

// LookupNTCP2Address finds the first NTCP2 v2 address in peer advertising a
// usable "s" and "i" option and decodes them. Routers that only advertise
// plain NTCP or an NTCP2 address missing its key material are skipped.
func LookupNTCP2Address(peer *common.RouterInfo) (PeerAddress, error) {
	addr, ok := peer.Address(handshake.NTCP2Style, func(a common.RouterAddress) bool {
		return a.NTCP2Version() == handshake.NTCP2Version && a.StaticKeyBase64() != "" && a.IVBase64() != ""
	})
	if !ok {
		return PeerAddress{}, noNTCP2AddressErr(peer)
	}

	staticKeyBytes, err := common.DecodeBase64(addr.StaticKeyBase64())
	if err != nil {
		return PeerAddress{}, frameErr("LookupNTCP2Address: decode static key", err)
	}
	if len(staticKeyBytes) != 32 {
		return PeerAddress{}, frameErr("LookupNTCP2Address", errWrongLength("static key", 32, len(staticKeyBytes)))
	}

	ivBytes, err := common.DecodeBase64(addr.IVBase64())
	if err != nil {
		return PeerAddress{}, frameErr("LookupNTCP2Address: decode obfuscation IV", err)
	}
	if len(ivBytes) != 16 {
		return PeerAddress{}, frameErr("LookupNTCP2Address", errWrongLength("obfuscation iv", 16, len(ivBytes)))
	}

	var out PeerAddress
	out.Host = addr.Host()
	out.Port = addr.Port()
	copy(out.StaticKey[:], staticKeyBytes)
	copy(out.ObfuscationIV[:], ivBytes)
	return out, nil
}

// LocalDHKey converts a Config's static keypair into the noise.DHKey shape
// the Noise_XK handshake state expects.
func (c *Config) LocalDHKey() noise.DHKey {
	return c.StaticKey
}
