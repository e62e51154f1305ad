package routercontext

import (
	"testing"
	"time"

	"github.com/go-i2p/ntcp2core/common"
)

func buildSignedRouterInfo(t *testing.T) (*common.RouterInfo, common.RouterSecretKeys) {
	t.Helper()
	secrets, err := common.GenerateRouterSecretKeys(common.EncECIESX25519AEADRatchet, common.SigEdDSASHA512Ed25519)
	if err != nil {
		t.Fatalf("GenerateRouterSecretKeys: %v", err)
	}
	ri := common.NewRouterInfo(secrets.Identity, common.DateFromTime(time.Now()), nil, nil)
	if err := ri.Sign(secrets.SigningPrivate); err != nil {
		t.Fatalf("Sign: %v", err)
	}
	return ri, secrets
}

func TestRouterContextLocalIdentity(t *testing.T) {
	ri, secrets := buildSignedRouterInfo(t)
	rc := New(DefaultConfig(), secrets, ri)
	defer rc.Close()

	if rc.LocalRouterInfo().Hash() != ri.Hash() {
		t.Fatal("LocalRouterInfo should return the identity passed to New")
	}
	if len(rc.SigningPrivateKey()) == 0 {
		t.Fatal("SigningPrivateKey should not be empty")
	}

	updated, _ := buildSignedRouterInfo(t)
	rc.SetLocalRouterInfo(updated)
	if rc.LocalRouterInfo().Hash() != updated.Hash() {
		t.Fatal("SetLocalRouterInfo should replace the stored identity")
	}
}

func TestRouterContextPeerStorage(t *testing.T) {
	ri, secrets := buildSignedRouterInfo(t)
	rc := New(DefaultConfig(), secrets, ri)
	defer rc.Close()

	peer, _ := buildSignedRouterInfo(t)
	if err := rc.StorePeer(peer); err != nil {
		t.Fatalf("StorePeer: %v", err)
	}
	if rc.PeerCount() != 1 {
		t.Fatalf("PeerCount() = %d, want 1", rc.PeerCount())
	}

	got, ok := rc.LookupPeer(peer.Hash())
	if !ok || got.Hash() != peer.Hash() {
		t.Fatalf("LookupPeer(%x) = (%v, %v), want the stored peer", peer.Hash(), got, ok)
	}

	rc.ForgetPeer(peer.Hash())
	if rc.PeerCount() != 0 {
		t.Fatalf("PeerCount() after ForgetPeer = %d, want 0", rc.PeerCount())
	}
}

func TestRouterContextRejectsUnsignedPeer(t *testing.T) {
	ri, secrets := buildSignedRouterInfo(t)
	rc := New(DefaultConfig(), secrets, ri)
	defer rc.Close()

	unsigned := common.NewRouterInfo(ri.Identity, common.DateFromTime(time.Now()), nil, nil)
	if err := rc.StorePeer(unsigned); err == nil {
		t.Fatal("StorePeer should reject a RouterInfo with no valid signature")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	cfg.ListenPort = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative listen port should fail validation")
	}
}
