package common

import "encoding/base64"

// i2pEncoding is the RFC 4648 alphabet with '+' and '/' swapped for
// I2P's own '-' and '~', used for the base64 text form of hashes and keys.
var i2pEncoding = base64.NewEncoding(
	"ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-~",
).WithPadding(base64.NoPadding)

// EncodeBase64 encodes data using the I2P base64 alphabet.
func EncodeBase64(data []byte) string {
	return i2pEncoding.EncodeToString(data)
}

// DecodeBase64 decodes a string in the I2P base64 alphabet.
func DecodeBase64(s string) ([]byte, error) {
	b, err := i2pEncoding.DecodeString(s)
	if err != nil {
		return nil, parseErr("DecodeBase64", err.Error())
	}
	return b, nil
}
