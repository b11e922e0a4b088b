// Package simulator emulates an eMRTD chip over an in-process TCP listener:
// BAC as the responding party, secure messaging in the chip's direction, and
// the staged READ BINARY file service — useful for exercising the reader
// stack without a physical document.
package simulator

import "github.com/andrei-cloud/go-emrtd/pkg/mrz"

// Document is one simulated chip's identity: the MRZ it was personalized
// with (which derives its BAC keys) and the elementary files it serves,
// keyed by short file identifier.
type Document struct {
	MRZ   *mrz.MRZ
	Files map[uint16][]byte
}
