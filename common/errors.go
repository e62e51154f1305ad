package common

import "github.com/samber/oops"

// Error codes used across the common package.
const (
	CodeParseError       = "PARSE_ERROR"
	CodeIncomplete       = "INCOMPLETE_DATA"
	CodeInvalidFormat    = "INVALID_FORMAT"
	CodeSignatureInvalid = "SIGNATURE_INVALID"
	CodeMissingSignature = "MISSING_SIGNATURE"
	CodeUnsupportedAlgo  = "UNSUPPORTED_ALGORITHM"
	CodeNoSuchAddress    = "NO_SUCH_ADDRESS"
)

// incompleteErr builds the "not enough bytes yet" flavor of parse failure.
// Distinct from a structural (fatal) malformed-input error: the former is
// retryable by a caller with more data, the latter is not.
func incompleteErr(op string, need, have int) error {
	return oops.
		Code(CodeIncomplete).
		In("common").
		With("op", op).
		With("need", need).
		With("have", have).
		Errorf("%s: incomplete input, need %d bytes, have %d", op, need, have)
}

// parseErr builds a structural (fatal, non-retryable) parse failure.
func parseErr(op string, reason string) error {
	return oops.
		Code(CodeParseError).
		In("common").
		With("op", op).
		Errorf("%s: %s", op, reason)
}
