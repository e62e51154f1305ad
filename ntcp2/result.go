package ntcp2

import (
	"github.com/go-i2p/ntcp2core/common"
	"github.com/go-i2p/ntcp2core/internal"
	"github.com/go-i2p/ntcp2core/ntcp2session"
)

// Result is what a completed handshake hands back to the caller: the peer's
// RouterInfo (for Inbound, the one received in SessionConfirmed, whose
// signature has been verified; for Outbound, the one the caller passed in,
// not verified here), the session's AEAD transport ciphers, the SipHash
// key/IV material both sides derive for length-obfuscating the transport
// frame stream, and the handshake's timing/byte-count metrics.
type Result struct {
	PeerRouterInfo *common.RouterInfo
	Session        *ntcp2session.Session
	Send           ntcp2session.SipHashMaterial
	Recv           ntcp2session.SipHashMaterial
	Metrics        *internal.ConnectionMetrics
}

// deriveResult runs the ASK extension to completion and bundles the
// resulting SipHash material alongside the now-transport-ready session.
func deriveResult(s *ntcp2session.Session, initiator bool, peer *common.RouterInfo, metrics *internal.ConnectionMetrics) (*Result, error) {
	s.EnableASK()
	if err := s.InitializeASK("siphash"); err != nil {
		return nil, noiseErr("deriveResult: InitializeASK", err)
	}
	ask, err := s.FinalizeASK("siphash")
	if err != nil {
		return nil, noiseErr("deriveResult: FinalizeASK", err)
	}

	metrics.SetHandshakeEnd()
	send, recv := ntcp2session.DeriveSipHashMaterial(ask, initiator)
	return &Result{
		PeerRouterInfo: peer,
		Session:        s,
		Send:           send,
		Recv:           recv,
		Metrics:        metrics,
	}, nil
}
