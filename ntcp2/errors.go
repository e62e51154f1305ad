package ntcp2

import (
	"fmt"

	"github.com/go-i2p/ntcp2core/common"
	"github.com/samber/oops"
)

// Error codes for the NTCP2 state machines.
const (
	CodeUnsupportedVersion  = "UNSUPPORTED_VERSION"
	CodeNoNTCP2Address      = "NO_NTCP2_ADDRESS"
	CodeMessageTooLarge     = "MESSAGE_TOO_LARGE"
	CodeIncompleteHandshake = "INCOMPLETE_HANDSHAKE"
	CodeNoiseFailure        = "NOISE_FAILURE"
	CodeFrameFailure        = "FRAME_FAILURE"
	CodeTimestampSkew       = "TIMESTAMP_SKEW"
)

func frameErr(op string, err error) error {
	return oops.Code(CodeFrameFailure).In("ntcp2").With("op", op).Wrapf(err, "handshake frame decode failed")
}

func noiseErr(op string, err error) error {
	return oops.Code(CodeNoiseFailure).In("ntcp2").With("op", op).Wrapf(err, "noise layer failed")
}

func noNTCP2AddressErr(peer *common.RouterInfo) error {
	return oops.Code(CodeNoNTCP2Address).In("ntcp2").
		With("peer_hash", peer.Hash().String()).
		Errorf("peer has no usable NTCP2 v2 address")
}

func errWrongLength(field string, want, have int) error {
	return fmt.Errorf("%s: want %d bytes, have %d", field, want, have)
}

func timestampSkewErr(op string, skew int64) error {
	return oops.Code(CodeTimestampSkew).In("ntcp2").With("op", op).With("skew_seconds", skew).
		Errorf("handshake timestamp outside tolerance")
}

func tooLargeErr(op string, n int) error {
	return oops.Code(CodeMessageTooLarge).In("ntcp2").With("op", op).With("len", n).
		Errorf("frame exceeds NTCP2 MTU")
}
