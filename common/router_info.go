package common


// RouterInfo is a signed statement by a router of its identity, contact
// addresses, and published date. Mutating Addresses,
// Options, or Published invalidates any previously computed Signature;
// callers must re-sign after mutation.
type RouterInfo struct {
	Identity  RouterIdentity
	Published I2PDate
	Addresses []RouterAddress
	PeerSize  uint8 // historical "peer size" field, always 0 in modern I2P
	Options   *Mapping
	Signature []byte // SigType.SigLen bytes over everything preceding it
}

// NewRouterInfo builds an unsigned RouterInfo; call Sign to populate its
// Signature before serializing for transmission.
func NewRouterInfo(identity RouterIdentity, published I2PDate, addresses []RouterAddress, options *Mapping) *RouterInfo {
	if options == nil {
		options = NewMapping(nil)
	}
	return &RouterInfo{
		Identity:  identity,
		Published: published,
		Addresses: append([]RouterAddress(nil), addresses...),
		Options:   options,
	}
}

// signedPayload returns the bytes covered by the signature: identity,
// published date, address count and addresses, peer size, and options.
func (r *RouterInfo) signedPayload() []byte {
	out := append([]byte(nil), r.Identity.Bytes()...)
	out = append(out, r.Published.Bytes()...)
	out = append(out, byte(len(r.Addresses)))
	for _, a := range r.Addresses {
		out = append(out, a.Bytes()...)
	}
	out = append(out, r.PeerSize)
	out = append(out, r.Options.Bytes()...)
	return out
}

// Bytes serializes the full RouterInfo, including its trailing signature.
func (r *RouterInfo) Bytes() []byte {
	return append(r.signedPayload(), r.Signature...)
}

// Sign computes and installs the Signature over the current contents using
// the identity's SigType and the supplied raw private signing key.
func (r *RouterInfo) Sign(signingPrivateKey []byte) error {
	sig, err := r.Identity.SigType.Sign(signingPrivateKey, r.signedPayload())
	if err != nil {
		return err
	}
	r.Signature = sig
	return nil
}

// VerifySignature reports whether Signature validates over the current
// contents under the identity's signing public key.
func (r *RouterInfo) VerifySignature() bool {
	if len(r.Signature) == 0 {
		return false
	}
	return r.Identity.SigType.Verify(r.Identity.SigningKey, r.signedPayload(), r.Signature)
}

// Hash returns SHA-256 of the identity's canonical serialization — the
// RouterInfo's network database key.
func (r *RouterInfo) Hash() Hash {
	return r.Identity.Hash()
}

// Address returns the first RouterAddress whose transport style matches
// style and for which filter(addr) reports true (a nil filter matches any
// address), or false if none match. Used to pick a dial target, e.g. style
// "NTCP2" filtered on having a non-empty "s" option.
func (r *RouterInfo) Address(style string, filter func(RouterAddress) bool) (RouterAddress, bool) {
	for _, a := range r.Addresses {
		if string(a.Transport) != style {
			continue
		}
		if filter != nil && !filter(a) {
			continue
		}
		return a, true
	}
	return RouterAddress{}, false
}

// ReadRouterInfo parses a RouterInfo from the front of data. The
// signature's length is determined by the parsed identity's SigType, so it
// must be read last.
func ReadRouterInfo(data []byte) (r *RouterInfo, remainder []byte, err error) {
	identity, rest, err := ReadRouterIdentity(data)
	if err != nil {
		return
	}

	published, rest, err := ReadI2PDate(rest)
	if err != nil {
		return
	}

	if len(rest) < 1 {
		err = incompleteErr("ReadRouterInfo", 1, 0)
		return
	}
	numAddrs := int(rest[0])
	rest = rest[1:]

	addrs := make([]RouterAddress, 0, numAddrs)
	for i := 0; i < numAddrs; i++ {
		var a RouterAddress
		a, rest, err = ReadRouterAddress(rest)
		if err != nil {
			return
		}
		addrs = append(addrs, a)
	}

	if len(rest) < 1 {
		err = incompleteErr("ReadRouterInfo", 1, 0)
		return
	}
	peerSize := rest[0]
	rest = rest[1:]

	options, rest, err := ReadMapping(rest)
	if err != nil {
		return
	}

	sigLen := identity.SigType.SigLen
	if len(rest) < sigLen {
		err = incompleteErr("ReadRouterInfo", sigLen, len(rest))
		return
	}

	r = &RouterInfo{
		Identity:  identity,
		Published: published,
		Addresses: addrs,
		PeerSize:  peerSize,
		Options:   options,
		Signature: append([]byte(nil), rest[:sigLen]...),
	}
	remainder = rest[sigLen:]
	return
}
