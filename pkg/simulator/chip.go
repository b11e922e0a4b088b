package simulator

import (
	"bytes"
	"crypto/rand"
	"io"

	"github.com/andrei-cloud/go-emrtd/pkg/apdu"
	"github.com/andrei-cloud/go-emrtd/pkg/bac"
	"github.com/andrei-cloud/go-emrtd/pkg/crypto"
	"github.com/andrei-cloud/go-emrtd/pkg/sm"
)

// chipConn is one connection's worth of simulated chip state: which phase of
// BAC it is in, and once authenticated, its secure messaging session and
// currently selected file.
type chipConn struct {
	doc   *Document
	rng   io.Reader
	rndIC []byte

	sess     *sm.Session
	selected []byte
}

func newChipConn(doc *Document, rng io.Reader) *chipConn {
	if rng == nil {
		rng = rand.Reader
	}

	return &chipConn{doc: doc, rng: rng}
}

// handle processes one raw command APDU and returns its raw response,
// dispatching to the BAC responder while unauthenticated and to the secure
// messaging file service afterward.
func (c *chipConn) handle(raw []byte) []byte {
	cmd, err := apdu.ParseCommand(raw)
	if err != nil {
		return respBytes(nil, apdu.TrailerWrongLen)
	}

	if c.sess == nil {
		return c.handlePlain(cmd)
	}

	return c.handleProtected(cmd)
}

func (c *chipConn) handlePlain(cmd *apdu.Command) []byte {
	switch {
	case cmd.INS == 0xA4 && cmd.P1 == 0x04:
		return respBytes(nil, apdu.TrailerOK)
	case cmd.INS == 0x84:
		return c.handleGetChallenge()
	case cmd.INS == 0x82:
		return c.handleExternalAuthenticate(cmd)
	default:
		return respBytes(nil, apdu.TrailerFunctionNotSupported)
	}
}

func (c *chipConn) handleGetChallenge() []byte {
	rndIC := make([]byte, 8)
	if _, err := io.ReadFull(c.rng, rndIC); err != nil {
		return respBytes(nil, apdu.TrailerUnknown)
	}
	c.rndIC = rndIC

	return respBytes(rndIC, apdu.TrailerOK)
}

// handleExternalAuthenticate plays the chip's half of BAC against the
// reader's EXTERNAL AUTHENTICATE cryptogram, per ICAO Doc 9303 Part 11
// §4.3.4: verify E_IFD/M_IFD under this document's static keys, then answer
// with E_IC/M_IC and start a secure messaging session.
func (c *chipConn) handleExternalAuthenticate(cmd *apdu.Command) []byte {
	if c.rndIC == nil || len(cmd.Data) != 40 {
		return respBytes(nil, apdu.TrailerWrongLen)
	}

	kEnc, kMac := c.doc.MRZ.KeyEnc, c.doc.MRZ.KeyMac

	eIFD, mIFD := cmd.Data[:32], cmd.Data[32:]

	expectedMIFD, err := crypto.RetailMAC(kMac, eIFD)
	if err != nil || !bytes.Equal(mIFD, expectedMIFD) {
		return respBytes(nil, apdu.TrailerAuthenticationFailed)
	}

	s, err := crypto.TDESDecryptCBC(kEnc, eIFD)
	if err != nil || len(s) != 32 {
		return respBytes(nil, apdu.TrailerAuthenticationFailed)
	}

	rndIFD, rndICFromIFD, kIFD := s[0:8], s[8:16], s[16:32]
	if !bytes.Equal(rndICFromIFD, c.rndIC) {
		return respBytes(nil, apdu.TrailerAuthenticationFailed)
	}

	kIC := make([]byte, 16)
	if _, err := io.ReadFull(c.rng, kIC); err != nil {
		return respBytes(nil, apdu.TrailerUnknown)
	}

	kSeed := make([]byte, len(kIFD))
	for i := range kIFD {
		kSeed[i] = kIFD[i] ^ kIC[i]
	}

	ksEnc := crypto.DeriveKey(kSeed, crypto.CounterEnc)
	ksMac := crypto.DeriveKey(kSeed, crypto.CounterMAC)

	sPrime := make([]byte, 0, 32)
	sPrime = append(sPrime, c.rndIC...)
	sPrime = append(sPrime, rndIFD...)
	sPrime = append(sPrime, kIC...)

	eIC, err := crypto.TDESEncryptCBC(kEnc, sPrime)
	if err != nil {
		return respBytes(nil, apdu.TrailerUnknown)
	}
	mIC, err := crypto.RetailMAC(kMac, eIC)
	if err != nil {
		return respBytes(nil, apdu.TrailerUnknown)
	}

	ssc := sscFromChallenge(c.rndIC, rndIFD)
	c.sess = sm.NewSession(&bac.SessionKeys{KSEnc: ksEnc, KSMac: ksMac, SSC: ssc})

	resp := make([]byte, 0, len(eIC)+len(mIC))
	resp = append(resp, eIC...)
	resp = append(resp, mIC...)

	return respBytes(resp, apdu.TrailerOK)
}

func (c *chipConn) handleProtected(protected *apdu.Command) []byte {
	decoded, err := c.sess.UnprotectCommand(protected)
	if err != nil {
		return respBytes(nil, apdu.TrailerWrongSMObjects)
	}

	var data []byte
	var trailer apdu.Trailer

	switch {
	case decoded.INS == 0xA4 && decoded.P2 == 0x0C:
		data, trailer = nil, c.selectFile(decoded.Data)
	case decoded.INS == 0xB0:
		data, trailer = c.readBinary(decoded)
	default:
		trailer = apdu.TrailerFunctionNotSupported
	}

	protectedResp, err := c.sess.ProtectResponse(data, trailer, decoded.INS%2 == 0)
	if err != nil {
		return respBytes(nil, apdu.TrailerUnknown)
	}

	return protectedResp
}

func (c *chipConn) selectFile(fileIDBytes []byte) apdu.Trailer {
	if len(fileIDBytes) != 2 {
		return apdu.TrailerWrongLen
	}

	fileID := uint16(fileIDBytes[0])<<8 | uint16(fileIDBytes[1])

	content, ok := c.doc.Files[fileID]
	if !ok {
		return apdu.TrailerFileNotFound
	}

	c.selected = content

	return apdu.TrailerOK
}

func (c *chipConn) readBinary(cmd *apdu.Command) ([]byte, apdu.Trailer) {
	if c.selected == nil {
		return nil, apdu.TrailerCommandNotAllowed
	}

	offset := int(cmd.P1)<<8 | int(cmd.P2)
	length := cmd.RxLen

	if offset < 0 || length < 0 || offset+length > len(c.selected) {
		return nil, apdu.TrailerWrongLen
	}

	return c.selected[offset : offset+length], apdu.TrailerOK
}

// sscFromChallenge builds the initial Send Sequence Counter the same way
// both sides of BAC independently derive it: the low 4 bytes of RND.IC
// concatenated with the low 4 bytes of RND.IFD.
func sscFromChallenge(rndIC, rndIFD []byte) uint64 {
	var b [8]byte
	copy(b[0:4], rndIC[4:8])
	copy(b[4:8], rndIFD[4:8])

	return uint64(b[0])<<56 | uint64(b[1])<<48 | uint64(b[2])<<40 | uint64(b[3])<<32 |
		uint64(b[4])<<24 | uint64(b[5])<<16 | uint64(b[6])<<8 | uint64(b[7])
}

func respBytes(data []byte, trailer apdu.Trailer) []byte {
	out := make([]byte, 0, len(data)+2)
	out = append(out, data...)
	out = append(out, trailer.SW1, trailer.SW2)

	return out
}
