// Package emrtderr defines the structured error type shared across the
// eMRTD stack: every failure carries a Kind identifying which layer raised
// it (MRZ, crypto, APDU framing, secure messaging, BAC, transport) plus a
// human-readable description and, where applicable, the wrapped cause.
package emrtderr

// Kind identifies which subsystem raised an Error.
type Kind string

const (
	KindMRZ       Kind = "mrz"
	KindCrypto    Kind = "crypto"
	KindAPDU      Kind = "apdu"
	KindSM        Kind = "sm"
	KindBAC       Kind = "bac"
	KindFiles     Kind = "files"
	KindTransport Kind = "transport"
)

// Error is the eMRTD stack's structured error value.
type Error struct {
	Kind        Kind
	Description string
	Cause       error
}

// Error implements error as "<kind>: <description>", appending ": <cause>"
// when Cause is set.
func (e *Error) Error() string {
	if e.Cause != nil {
		return string(e.Kind) + ": " + e.Description + ": " + e.Cause.Error()
	}

	return string(e.Kind) + ": " + e.Description
}

// Unwrap exposes Cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds a causeless Error.
func New(kind Kind, description string) *Error {
	return &Error{Kind: kind, Description: description}
}

// Wrap builds an Error around an existing cause.
func Wrap(kind Kind, description string, cause error) *Error {
	return &Error{Kind: kind, Description: description, Cause: cause}
}
