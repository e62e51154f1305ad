package common

import (
	"encoding/binary"
	"time"
)

// DateSize is the wire length in bytes of an I2PDate.
const DateSize = 8

// I2PDate is an unsigned 64-bit count of milliseconds since the Unix epoch
// in UTC. Zero denotes "null/undefined".
type I2PDate uint64

// DateFromTime constructs an I2PDate from a system timestamp.
func DateFromTime(t time.Time) I2PDate {
	return I2PDate(t.UTC().UnixMilli())
}

// Time converts the I2PDate back to a time.Time in UTC. The zero date maps
// to the zero time.Time.
func (d I2PDate) Time() time.Time {
	if d == 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(d)).UTC()
}

// IsZero reports whether this date is the null/undefined sentinel.
func (d I2PDate) IsZero() bool {
	return d == 0
}

// Bytes encodes the date as 8 big-endian bytes.
func (d I2PDate) Bytes() []byte {
	out := make([]byte, DateSize)
	binary.BigEndian.PutUint64(out, uint64(d))
	return out
}

// ReadI2PDate reads an 8-byte I2PDate from the front of data.
func ReadI2PDate(data []byte) (d I2PDate, remainder []byte, err error) {
	if len(data) < DateSize {
		err = incompleteErr("ReadI2PDate", DateSize, len(data))
		return
	}
	d = I2PDate(binary.BigEndian.Uint64(data[:DateSize]))
	remainder = data[DateSize:]
	return
}
