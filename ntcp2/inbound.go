package ntcp2

import (
	"context"
	"io"
	"time"

	"github.com/go-i2p/ntcp2core/common"
	"github.com/go-i2p/ntcp2core/handshake"
	"github.com/go-i2p/ntcp2core/internal"
	"github.com/go-i2p/ntcp2core/ntcp2session"
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"
)

// InboundPhase names a step of the responder's handshake state machine.
type InboundPhase int

const (
	AwaitSessionRequest InboundPhase = iota
	AwaitSessionRequestPadding
	WriteSessionCreated
	AwaitSessionConfirmed
	InboundComplete
)

// String names the phase for logging.
func (p InboundPhase) String() string {
	switch p {
	case AwaitSessionRequest:
		return "await_session_request"
	case AwaitSessionRequestPadding:
		return "await_session_request_padding"
	case WriteSessionCreated:
		return "write_session_created"
	case AwaitSessionConfirmed:
		return "await_session_confirmed"
	case InboundComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Inbound drives the responder side of an NTCP2 handshake to completion
// over conn, accepting whichever peer dials in and returning its verified
// RouterInfo once SessionConfirmed has been read.
func Inbound(ctx context.Context, conn io.ReadWriter, cfg *Config) (*Result, error) {
	phase := AwaitSessionRequest
	log.WithFields(logrus.Fields{"phase": phase.String()}).Debug("starting inbound NTCP2 handshake")

	metrics := internal.NewConnectionMetrics()
	metrics.SetHandshakeStart()

	session, err := ntcp2session.NewInbound(cfg.LocalDHKey(), cfg.RouterHash, cfg.ObfuscationIV)
	if err != nil {
		return nil, err
	}

	deadline := contextDeadline(ctx, cfg.handshakeTimeout())
	if setter, ok := conn.(interface{ SetDeadline(time.Time) error }); ok && !deadline.IsZero() {
		if err := setter.SetDeadline(deadline); err != nil {
			return nil, oops.Code(CodeNoiseFailure).In("ntcp2").Wrapf(err, "failed to set handshake deadline")
		}
	}

	fixed1 := make([]byte, handshake.SessionRequestCiphertextLen+32)
	if _, err := io.ReadFull(conn, fixed1); err != nil {
		return nil, oops.Code(CodeIncompleteHandshake).In("ntcp2").Wrapf(err, "failed to read session request")
	}
	metrics.AddBytesRead(int64(len(fixed1)))
	plaintext1, err := session.ReadMessage1(fixed1, 0)
	if err != nil {
		return nil, err
	}
	fields1, err := handshake.ReadSessionRequestFields(plaintext1)
	if err != nil {
		return nil, frameErr("Inbound: ReadSessionRequestFields", err)
	}
	if fields1.Version != 2 {
		return nil, oops.Code(CodeUnsupportedVersion).In("ntcp2").With("version", fields1.Version).
			Errorf("unsupported NTCP2 version")
	}
	if err := checkTimestampSkew("Inbound", fields1.Timestamp); err != nil {
		return nil, err
	}

	phase = AwaitSessionRequestPadding
	if fields1.PaddingLength > 0 {
		padding1 := make([]byte, fields1.PaddingLength)
		if _, err := io.ReadFull(conn, padding1); err != nil {
			return nil, oops.Code(CodeIncompleteHandshake).In("ntcp2").Wrapf(err, "failed to read session request padding")
		}
		metrics.AddBytesRead(int64(len(padding1)))
		session.MixPadding(padding1)
	}

	phase = WriteSessionCreated
	padding2Len, err := cfg.paddingSource()(cfg.maxPadding())
	if err != nil {
		return nil, oops.Code(CodeNoiseFailure).In("ntcp2").Wrapf(err, "padding source failed")
	}
	padding2 := make([]byte, padding2Len)
	if _, err := io.ReadFull(randReader, padding2); err != nil {
		return nil, oops.Code(CodeNoiseFailure).In("ntcp2").Wrapf(err, "failed to generate padding")
	}
	fields2 := handshake.SessionCreatedFields{
		PaddingLength: uint16(padding2Len),
		Timestamp:     uint32(nowUnix()),
	}
	msg2, err := session.WriteMessage2(fields2.Bytes(), padding2)
	if err != nil {
		return nil, err
	}
	if len(msg2) > handshake.NTCP2MTU {
		return nil, tooLargeErr("Inbound: message 2", len(msg2))
	}
	if _, err := conn.Write(msg2); err != nil {
		return nil, oops.Code(CodeNoiseFailure).In("ntcp2").Wrapf(err, "failed to write session created")
	}
	metrics.AddBytesWritten(int64(len(msg2)))

	phase = AwaitSessionConfirmed
	part1 := make([]byte, handshake.SessionConfirmedPart1Len)
	if _, err := io.ReadFull(conn, part1); err != nil {
		return nil, oops.Code(CodeIncompleteHandshake).In("ntcp2").Wrapf(err, "failed to read session confirmed part 1")
	}
	metrics.AddBytesRead(int64(len(part1)))
	if err := session.ReadMessage3Part1(part1); err != nil {
		return nil, err
	}

	if int(fields1.Message3Part2Length) > handshake.NTCP2MTU {
		return nil, tooLargeErr("Inbound: message 3 part 2", int(fields1.Message3Part2Length))
	}
	ct2 := make([]byte, fields1.Message3Part2Length)
	if _, err := io.ReadFull(conn, ct2); err != nil {
		return nil, oops.Code(CodeIncompleteHandshake).In("ntcp2").Wrapf(err, "failed to read session confirmed part 2")
	}
	metrics.AddBytesRead(int64(len(ct2)))
	pt2, err := session.DecryptPart2(ct2)
	if err != nil {
		return nil, err
	}

	peer, remainder, err := common.ReadRouterInfo(pt2)
	if err != nil {
		return nil, frameErr("Inbound: ReadRouterInfo", err)
	}
	routerInfoLen := len(pt2) - len(remainder)
	if _, err := handshake.SplitSessionConfirmedPart2(pt2, routerInfoLen); err != nil {
		return nil, frameErr("Inbound: SplitSessionConfirmedPart2", err)
	}

	if !peer.VerifySignature() {
		return nil, oops.Code(CodeFrameFailure).In("ntcp2").
			With("peer_hash", peer.Hash().String()).
			Errorf("peer RouterInfo signature does not verify")
	}

	phase = InboundComplete
	log.WithFields(logrus.Fields{"phase": phase.String(), "peer": peer.Hash().String()}).Info("inbound NTCP2 handshake complete")
	return deriveResult(session, false, peer, metrics)
}
