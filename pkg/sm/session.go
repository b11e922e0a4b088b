// Package sm implements ISO/IEC 7816-4 §10.3 secure messaging as profiled
// by ICAO Doc 9303 Part 11 §9.8: wrapping a plain command APDU into its
// protected form and unwrapping a protected response, both under the
// session keys and Send Sequence Counter a BAC (or PACE) handshake
// negotiates.
package sm

import (
	"github.com/andrei-cloud/go-emrtd/pkg/apdu"
	"github.com/andrei-cloud/go-emrtd/pkg/bac"
)

// Session holds the secure messaging state for one chip connection: the two
// DES3 keys and the Send Sequence Counter, which both wrap and unwrap
// advance in lock step with the chip's own counter.
type Session struct {
	ksEnc []byte
	ksMac []byte
	ssc   uint64
}

// NewSession starts a secure messaging session from a completed BAC
// handshake's negotiated keys.
func NewSession(keys *bac.SessionKeys) *Session {
	return &Session{ksEnc: keys.KSEnc, ksMac: keys.KSMac, ssc: keys.SSC}
}

// SSC reports the session's current Send Sequence Counter.
func (s *Session) SSC() uint64 {
	return s.ssc
}

// Protect wraps cmd into its secure-messaging-protected form, per Doc 9303
// Part 11 §9.8.3.
func (s *Session) Protect(cmd *apdu.Command) (*apdu.Command, error) {
	return protect(cmd, s.ksEnc, s.ksMac, &s.ssc)
}

// Unprotect authenticates and decrypts a protected response, per Doc 9303
// Part 11 §9.8.4.
func (s *Session) Unprotect(raw []byte) (apdu.Response, error) {
	return unprotect(raw, s.ksEnc, s.ksMac, &s.ssc)
}
