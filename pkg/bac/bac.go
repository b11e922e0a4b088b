// Package bac implements the ICAO Doc 9303 Part 11 §4.3 Basic Access
// Control handshake: GET CHALLENGE, the IFD-side cryptogram construction,
// EXTERNAL AUTHENTICATE, and the resulting session key and initial Send
// Sequence Counter derivation.
package bac

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"io"

	"github.com/andrei-cloud/go-emrtd/pkg/apdu"
	"github.com/andrei-cloud/go-emrtd/pkg/crypto"
	"github.com/andrei-cloud/go-emrtd/pkg/emrtderr"
	"github.com/andrei-cloud/go-emrtd/pkg/mrz"
	"github.com/rs/zerolog/log"
)

// Transceiver sends one command APDU to the chip and returns its response.
// Implementations (pkg/pcsc, pkg/simulator) own the physical or simulated
// transport; bac never talks to a card reader directly.
type Transceiver interface {
	Transceive(ctx context.Context, cmd *apdu.Command) (apdu.Response, error)
}

// SessionKeys holds the two DES3 keys and initial Send Sequence Counter
// negotiated by a successful BAC handshake; they seed a pkg/sm session.
type SessionKeys struct {
	KSEnc []byte
	KSMac []byte
	SSC   uint64
}

// EMRTDApplicationAID is the eMRTD application identifier every ICAO
// Doc 9303 LDS1 chip registers under.
var EMRTDApplicationAID = []byte{0xA0, 0x00, 0x00, 0x02, 0x47, 0x10, 0x01}

// SelectApplication builds the SELECT AID command that must precede BAC.
func SelectApplication() *apdu.Command {
	return &apdu.Command{CLA: 0x00, INS: 0xA4, P1: 0x04, P2: 0x0C, Data: EMRTDApplicationAID}
}

func getChallengeCommand() *apdu.Command {
	return &apdu.Command{CLA: 0x00, INS: 0x84, P1: 0x00, P2: 0x00, RxLen: 8}
}

func externalAuthenticateCommand(data []byte) *apdu.Command {
	return &apdu.Command{CLA: 0x00, INS: 0x82, P1: 0x00, P2: 0x00, Data: data, RxLen: 40}
}

// Handshake runs BAC against an already-selected eMRTD application and
// returns the negotiated session keys. rng supplies RND.IFD and K.IFD; pass
// crypto/rand.Reader in production and a deterministic reader in tests.
func Handshake(ctx context.Context, t Transceiver, m mrz.Raw, rng io.Reader) (*SessionKeys, error) {
	if rng == nil {
		rng = rand.Reader
	}

	kSeed := mrz.DeriveSeedKey(m)
	kEnc := crypto.DeriveKey(kSeed, crypto.CounterEnc)
	kMac := crypto.DeriveKey(kSeed, crypto.CounterMAC)

	challengeRes, err := t.Transceive(ctx, getChallengeCommand())
	if err != nil {
		return nil, emrtderr.Wrap(emrtderr.KindTransport, "GET CHALLENGE transceive failed", err)
	}
	if !challengeRes.Trailer.OK() {
		return nil, emrtderr.New(emrtderr.KindBAC, "GET CHALLENGE failed: "+challengeRes.Trailer.String())
	}
	rndIC := challengeRes.Data

	rndIFD := make([]byte, 8)
	kIFD := make([]byte, 16)
	if _, err := io.ReadFull(rng, rndIFD); err != nil {
		return nil, emrtderr.Wrap(emrtderr.KindBAC, "failed to generate RND.IFD", err)
	}
	if _, err := io.ReadFull(rng, kIFD); err != nil {
		return nil, emrtderr.Wrap(emrtderr.KindBAC, "failed to generate K.IFD", err)
	}

	s := make([]byte, 0, 32)
	s = append(s, rndIFD...)
	s = append(s, rndIC...)
	s = append(s, kIFD...)

	eIFD, err := crypto.TDESEncryptCBC(kEnc, s)
	if err != nil {
		return nil, emrtderr.Wrap(emrtderr.KindCrypto, "EIFD encryption failed", err)
	}
	mIFD, err := crypto.RetailMAC(kMac, eIFD)
	if err != nil {
		return nil, emrtderr.Wrap(emrtderr.KindCrypto, "MIFD MAC failed", err)
	}

	authData := make([]byte, 0, len(eIFD)+len(mIFD))
	authData = append(authData, eIFD...)
	authData = append(authData, mIFD...)

	log.Debug().Hex("eifd", eIFD).Hex("mifd", mIFD).Msg("bac: sending external authenticate")

	authRes, err := t.Transceive(ctx, externalAuthenticateCommand(authData))
	if err != nil {
		return nil, emrtderr.Wrap(emrtderr.KindTransport, "EXTERNAL AUTHENTICATE transceive failed", err)
	}
	if !authRes.Trailer.OK() {
		return nil, emrtderr.New(emrtderr.KindBAC, "EXTERNAL AUTHENTICATE failed: "+authRes.Trailer.String())
	}
	if len(authRes.Data) != 40 {
		return nil, emrtderr.New(emrtderr.KindBAC, "EXTERNAL AUTHENTICATE returned an unexpected length")
	}

	eIC := authRes.Data[:32]
	mIC := authRes.Data[32:]

	expectedMIC, err := crypto.RetailMAC(kMac, eIC)
	if err != nil {
		return nil, emrtderr.Wrap(emrtderr.KindCrypto, "MIC verification MAC failed", err)
	}
	if !equalBytes(mIC, expectedMIC) {
		return nil, emrtderr.New(emrtderr.KindBAC, "invalid MAC on cryptogram EIC")
	}

	dIC, err := crypto.TDESDecryptCBC(kEnc, eIC)
	if err != nil {
		return nil, emrtderr.Wrap(emrtderr.KindCrypto, "EIC decryption failed", err)
	}

	rndICFromIC := dIC[0:8]
	rndIFDFromIC := dIC[8:16]
	kIC := dIC[16:32]

	if !equalBytes(rndIFDFromIC, rndIFD) {
		return nil, emrtderr.New(emrtderr.KindBAC, "invalid RND.IFD value in cryptogram EIC")
	}
	_ = rndICFromIC

	kICXorKIFD := make([]byte, len(kIFD))
	for i := range kIFD {
		kICXorKIFD[i] = kIFD[i] ^ kIC[i]
	}

	ksEnc := crypto.DeriveKey(kICXorKIFD, crypto.CounterEnc)
	ksMac := crypto.DeriveKey(kICXorKIFD, crypto.CounterMAC)

	var sscBytes [8]byte
	copy(sscBytes[0:4], rndIC[4:8])
	copy(sscBytes[4:8], rndIFD[4:8])
	ssc := binary.BigEndian.Uint64(sscBytes[:])

	return &SessionKeys{KSEnc: ksEnc, KSMac: ksMac, SSC: ssc}, nil
}

func equalBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
