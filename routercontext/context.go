package routercontext

import (
	"sync"

	"github.com/go-i2p/ntcp2core/common"
	"github.com/go-i2p/ntcp2core/sessionpool"
	"github.com/samber/oops"
)

// RouterContext bundles the local router's signed identity, its in-memory
// view of the network database (peer RouterInfos keyed by hash), and the
// session pool that NTCP2 dial/accept paths share. Every handle is guarded
// by its own RWMutex so the netdb can be refreshed concurrently with
// handshakes reading from it.
type RouterContext struct {
	Config *Config

	identMu  sync.RWMutex
	identity *common.RouterInfo
	secrets  common.RouterSecretKeys

	netdbMu sync.RWMutex
	netdb   map[common.Hash]*common.RouterInfo

	Sessions *sessionpool.Pool
}

// New builds a RouterContext around a freshly generated or previously
// loaded local identity and configuration.
func New(cfg *Config, secrets common.RouterSecretKeys, localInfo *common.RouterInfo) *RouterContext {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &RouterContext{
		Config:   cfg,
		identity: localInfo,
		secrets:  secrets,
		netdb:    make(map[common.Hash]*common.RouterInfo),
		Sessions: sessionpool.NewPool(nil),
	}
}

// LocalRouterInfo returns the local router's current signed RouterInfo.
func (rc *RouterContext) LocalRouterInfo() *common.RouterInfo {
	rc.identMu.RLock()
	defer rc.identMu.RUnlock()
	return rc.identity
}

// SetLocalRouterInfo replaces the local RouterInfo, e.g. after re-publishing
// with an updated address list or timestamp.
func (rc *RouterContext) SetLocalRouterInfo(ri *common.RouterInfo) {
	rc.identMu.Lock()
	defer rc.identMu.Unlock()
	rc.identity = ri
}

// SigningPrivateKey returns the raw private key used to re-sign the local
// RouterInfo after mutation.
func (rc *RouterContext) SigningPrivateKey() []byte {
	rc.identMu.RLock()
	defer rc.identMu.RUnlock()
	return rc.secrets.SigningPrivate
}

// LookupPeer returns the RouterInfo stored in the local network database
// for hash, if any.
func (rc *RouterContext) LookupPeer(hash common.Hash) (*common.RouterInfo, bool) {
	rc.netdbMu.RLock()
	defer rc.netdbMu.RUnlock()
	ri, ok := rc.netdb[hash]
	return ri, ok
}

// StorePeer records a peer's RouterInfo in the local network database,
// rejecting one whose signature doesn't verify.
func (rc *RouterContext) StorePeer(ri *common.RouterInfo) error {
	if ri == nil {
		return oops.Code("NIL_ROUTER_INFO").In("routercontext").Errorf("cannot store a nil RouterInfo")
	}
	if !ri.VerifySignature() {
		return oops.Code("BAD_SIGNATURE").In("routercontext").With("hash", ri.Hash().String()).Errorf("RouterInfo signature does not verify")
	}

	rc.netdbMu.Lock()
	defer rc.netdbMu.Unlock()
	rc.netdb[ri.Hash()] = ri
	return nil
}

// ForgetPeer removes a peer's RouterInfo from the local network database.
func (rc *RouterContext) ForgetPeer(hash common.Hash) {
	rc.netdbMu.Lock()
	defer rc.netdbMu.Unlock()
	delete(rc.netdb, hash)
}

// PeerCount reports how many RouterInfos are currently stored.
func (rc *RouterContext) PeerCount() int {
	rc.netdbMu.RLock()
	defer rc.netdbMu.RUnlock()
	return len(rc.netdb)
}

// Close releases the session pool. It does not touch the network database
// or local identity, which callers may still want to persist.
func (rc *RouterContext) Close() error {
	return rc.Sessions.Close()
}
