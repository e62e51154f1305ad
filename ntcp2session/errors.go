package ntcp2session

import "github.com/samber/oops"

const (
	CodeNoiseFailure    = "NOISE_FAILURE"
	CodeInvalidKey      = "INVALID_KEY"
	CodeObfuscationFail = "OBFUSCATION_FAILURE"
	CodeASKNotReady     = "ASK_NOT_READY"
)

func noiseErr(op string, err error) error {
	return oops.Code(CodeNoiseFailure).In("ntcp2session").With("op", op).Wrapf(err, "noise handshake failed")
}
