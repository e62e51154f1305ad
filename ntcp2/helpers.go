package ntcp2

import (
	"context"
	"crypto/rand"
	"io"
	"time"
)

var randReader io.Reader = rand.Reader

func nowUnix() int64 {
	return time.Now().Unix()
}

// contextDeadline resolves the earlier of ctx's own deadline (if any) and
// now+timeout, so a caller-supplied context can only tighten the handshake
// timeout, never loosen it.
func contextDeadline(ctx context.Context, timeout time.Duration) time.Time {
	byTimeout := time.Now().Add(timeout)
	if ctx == nil {
		return byTimeout
	}
	if d, ok := ctx.Deadline(); ok && d.Before(byTimeout) {
		return d
	}
	return byTimeout
}

// checkTimestampSkew rejects a peer handshake timestamp too far from local
// time, guarding against stale or clock-skewed handshake attempts.
func checkTimestampSkew(op string, ts uint32) error {
	now := nowUnix()
	skew := now - int64(ts)
	if skew < 0 {
		skew = -skew
	}
	if skew > int64(timestampSkewTolerance/time.Second) {
		return timestampSkewErr(op, skew)
	}
	return nil
}
