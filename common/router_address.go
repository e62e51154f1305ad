package common

// RouterAddress describes how to contact a router through one transport:
// a relative cost, an expiration (null meaning "never expires"), a
// transport style string, and a Mapping of transport-specific options
// such as host/port/version.
type RouterAddress struct {
	Cost      uint8
	Expire    I2PDate
	Transport I2PString
	Options   *Mapping
}

// NewRouterAddress builds a RouterAddress from its parts.
func NewRouterAddress(cost uint8, expire I2PDate, transport I2PString, options *Mapping) RouterAddress {
	if options == nil {
		options = NewMapping(nil)
	}
	return RouterAddress{Cost: cost, Expire: expire, Transport: transport, Options: options}
}

// Bytes serializes the RouterAddress: 1-byte cost, 8-byte expiration,
// transport style string, then options mapping.
func (a RouterAddress) Bytes() []byte {
	out := make([]byte, 0, 1+DateSize+1+len(a.Transport)+2)
	out = append(out, a.Cost)
	out = append(out, a.Expire.Bytes()...)
	out = append(out, a.Transport.Bytes()...)
	out = append(out, a.Options.Bytes()...)
	return out
}

// GetOption returns the value for key and whether it was present.
func (a RouterAddress) GetOption(key string) (I2PString, bool) {
	return a.Options.Get(I2PString(key))
}

// Host returns the "host" option, the empty string if absent.
func (a RouterAddress) Host() string {
	v, _ := a.GetOption("host")
	return string(v)
}

// Port returns the "port" option, the empty string if absent.
func (a RouterAddress) Port() string {
	v, _ := a.GetOption("port")
	return string(v)
}

// NTCP2Version returns the "v" option (the router's advertised NTCP2
// protocol versions, e.g. "2").
func (a RouterAddress) NTCP2Version() string {
	v, _ := a.GetOption("v")
	return string(v)
}

// StaticKeyBase64 returns the "s" option: the peer's base64-encoded NTCP2
// static X25519 public key.
func (a RouterAddress) StaticKeyBase64() string {
	v, _ := a.GetOption("s")
	return string(v)
}

// IVBase64 returns the "i" option: the base64-encoded AES obfuscation IV
// advertised for this address.
func (a RouterAddress) IVBase64() string {
	v, _ := a.GetOption("i")
	return string(v)
}

// ReadRouterAddress parses a RouterAddress from the front of data.
func ReadRouterAddress(data []byte) (addr RouterAddress, remainder []byte, err error) {
	if len(data) < 1+DateSize {
		err = incompleteErr("ReadRouterAddress", 1+DateSize, len(data))
		return
	}
	cost := data[0]
	expire, rest, err := ReadI2PDate(data[1:])
	if err != nil {
		return
	}

	transport, rest, err := ReadI2PString(rest)
	if err != nil {
		return
	}

	options, rest, err := ReadMapping(rest)
	if err != nil {
		return
	}

	addr = RouterAddress{Cost: cost, Expire: expire, Transport: transport, Options: options}
	remainder = rest
	return
}
