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

// OutboundPhase names a step of the initiator's handshake state machine, in
// the order it runs: Connecting, then one round trip per NTCP2 message.
type OutboundPhase int

const (
	Connecting OutboundPhase = iota
	WriteSessionRequest
	AwaitSessionCreated
	AwaitSessionCreatedPadding
	WriteSessionConfirmed
	OutboundComplete
)

// String names the phase for logging.
func (p OutboundPhase) String() string {
	switch p {
	case Connecting:
		return "connecting"
	case WriteSessionRequest:
		return "write_session_request"
	case AwaitSessionCreated:
		return "await_session_created"
	case AwaitSessionCreatedPadding:
		return "await_session_created_padding"
	case WriteSessionConfirmed:
		return "write_session_confirmed"
	case OutboundComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Outbound drives the initiator side of an NTCP2 handshake to completion
// over conn, dialing peer using the static key and obfuscation IV it
// advertises and presenting local's signed RouterInfo in SessionConfirmed.
// conn must already be a connected transport stream (e.g. a dialed
// net.Conn); Outbound does not itself resolve host:port.
func Outbound(ctx context.Context, conn io.ReadWriter, cfg *Config, local *common.RouterInfo, peer *common.RouterInfo) (*Result, error) {
	phase := Connecting
	log.WithFields(logrus.Fields{"phase": phase.String()}).Debug("starting outbound NTCP2 handshake")

	metrics := internal.NewConnectionMetrics()
	metrics.SetHandshakeStart()

	peerAddr, err := LookupNTCP2Address(peer)
	if err != nil {
		return nil, err
	}

	session, err := ntcp2session.NewOutbound(cfg.LocalDHKey(), peerAddr.StaticKey[:], peer.Hash(), peerAddr.ObfuscationIV)
	if err != nil {
		return nil, err
	}

	deadline := contextDeadline(ctx, cfg.handshakeTimeout())
	if setter, ok := conn.(interface{ SetDeadline(time.Time) error }); ok && !deadline.IsZero() {
		if err := setter.SetDeadline(deadline); err != nil {
			return nil, oops.Code(CodeNoiseFailure).In("ntcp2").Wrapf(err, "failed to set handshake deadline")
		}
	}

	localBytes := local.Bytes()
	padding3Len, err := cfg.paddingSource()(cfg.maxPadding())
	if err != nil {
		return nil, oops.Code(CodeNoiseFailure).In("ntcp2").Wrapf(err, "padding source failed")
	}
	m3p2Len := len(localBytes) + padding3Len + 16 // + Poly1305 tag

	phase = WriteSessionRequest
	padding1Len, err := cfg.paddingSource()(cfg.maxPadding())
	if err != nil {
		return nil, oops.Code(CodeNoiseFailure).In("ntcp2").Wrapf(err, "padding source failed")
	}
	padding1 := make([]byte, padding1Len)
	if _, err := io.ReadFull(randReader, padding1); err != nil {
		return nil, oops.Code(CodeNoiseFailure).In("ntcp2").Wrapf(err, "failed to generate padding")
	}

	fields1 := handshake.SessionRequestFields{
		Version:             2,
		PaddingLength:       uint16(padding1Len),
		Message3Part2Length: uint16(m3p2Len),
		Timestamp:           uint32(nowUnix()),
	}

	msg1, err := session.WriteMessage1(fields1.Bytes(), padding1)
	if err != nil {
		return nil, err
	}
	if len(msg1) > handshake.NTCP2MTU {
		return nil, tooLargeErr("Outbound: message 1", len(msg1))
	}
	if _, err := conn.Write(msg1); err != nil {
		return nil, oops.Code(CodeNoiseFailure).In("ntcp2").Wrapf(err, "failed to write session request")
	}
	metrics.AddBytesWritten(int64(len(msg1)))

	phase = AwaitSessionCreated
	fixed2 := make([]byte, handshake.SessionCreatedCiphertextLen+32)
	if _, err := io.ReadFull(conn, fixed2); err != nil {
		return nil, oops.Code(CodeIncompleteHandshake).In("ntcp2").Wrapf(err, "failed to read session created")
	}
	metrics.AddBytesRead(int64(len(fixed2)))
	plaintext2, err := session.ReadMessage2(fixed2, 0)
	if err != nil {
		return nil, err
	}
	fields2, err := handshake.ReadSessionCreatedFields(plaintext2)
	if err != nil {
		return nil, frameErr("Outbound: ReadSessionCreatedFields", err)
	}
	if err := checkTimestampSkew("Outbound", fields2.Timestamp); err != nil {
		return nil, err
	}

	phase = AwaitSessionCreatedPadding
	if fields2.PaddingLength > 0 {
		padding2 := make([]byte, fields2.PaddingLength)
		if _, err := io.ReadFull(conn, padding2); err != nil {
			return nil, oops.Code(CodeIncompleteHandshake).In("ntcp2").Wrapf(err, "failed to read session created padding")
		}
		metrics.AddBytesRead(int64(len(padding2)))
		session.MixPadding(padding2)
	}

	phase = WriteSessionConfirmed
	msg3Part1, err := session.WriteMessage3Part1()
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write(msg3Part1); err != nil {
		return nil, oops.Code(CodeNoiseFailure).In("ntcp2").Wrapf(err, "failed to write session confirmed part 1")
	}
	metrics.AddBytesWritten(int64(len(msg3Part1)))

	padding3 := make([]byte, padding3Len)
	if _, err := io.ReadFull(randReader, padding3); err != nil {
		return nil, oops.Code(CodeNoiseFailure).In("ntcp2").Wrapf(err, "failed to generate padding")
	}
	part2 := handshake.SessionConfirmedPart2{RouterInfo: localBytes, Padding: padding3}
	ct2, err := session.EncryptPart2(part2.Bytes())
	if err != nil {
		return nil, err
	}
	if len(ct2) > handshake.NTCP2MTU {
		return nil, tooLargeErr("Outbound: message 3 part 2", len(ct2))
	}
	if _, err := conn.Write(ct2); err != nil {
		return nil, oops.Code(CodeNoiseFailure).In("ntcp2").Wrapf(err, "failed to write session confirmed part 2")
	}
	metrics.AddBytesWritten(int64(len(ct2)))

	phase = OutboundComplete
	log.WithFields(logrus.Fields{"phase": phase.String()}).Info("outbound NTCP2 handshake complete")
	return deriveResult(session, true, peer, metrics)
}
