package bac_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/andrei-cloud/go-emrtd/pkg/apdu"
	"github.com/andrei-cloud/go-emrtd/pkg/bac"
	"github.com/andrei-cloud/go-emrtd/pkg/crypto"
	"github.com/andrei-cloud/go-emrtd/pkg/mrz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedChip answers GET CHALLENGE and EXTERNAL AUTHENTICATE with
// precomputed responses, playing the IC side of BAC against a known
// RND.IFD/K.IFD stream so the whole handshake is deterministic.
type scriptedChip struct {
	rndIC           []byte
	externalAuthRes apdu.Response
}

func (c *scriptedChip) Transceive(_ context.Context, cmd *apdu.Command) (apdu.Response, error) {
	switch cmd.INS {
	case 0x84:
		return apdu.Response{Data: c.rndIC, Trailer: apdu.TrailerOK}, nil
	case 0x82:
		return c.externalAuthRes, nil
	default:
		return apdu.Response{Trailer: apdu.TrailerOK}, nil
	}
}

func TestHandshakeDerivesSessionKeys(t *testing.T) {
	t.Parallel()

	const td3 = "P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<" +
		"L898902C<3UTO6908061F9406236<<<<<<<<<<<<<<02"

	r, err := mrz.ParseRaw(td3)
	require.NoError(t, err)

	kSeed := mrz.DeriveSeedKey(r)
	kEnc := crypto.DeriveKey(kSeed, crypto.CounterEnc)
	kMac := crypto.DeriveKey(kSeed, crypto.CounterMAC)

	rndIC := bytes.Repeat([]byte{0xAA}, 8)
	rndIFD := bytes.Repeat([]byte{0xBB}, 8)
	kIFD := bytes.Repeat([]byte{0xCC}, 16)
	kIC := bytes.Repeat([]byte{0xDD}, 16)

	rng := bytes.NewReader(append(append([]byte{}, rndIFD...), kIFD...))

	dIC := append(append(append([]byte{}, rndIC...), rndIFD...), kIC...)
	eIC, err := crypto.TDESEncryptCBC(kEnc, dIC)
	require.NoError(t, err)
	mIC, err := crypto.RetailMAC(kMac, eIC)
	require.NoError(t, err)

	chip := &scriptedChip{
		rndIC: rndIC,
		externalAuthRes: apdu.Response{
			Data:    append(append([]byte{}, eIC...), mIC...),
			Trailer: apdu.TrailerOK,
		},
	}

	keys, err := bac.Handshake(context.Background(), chip, r, rng)
	require.NoError(t, err)

	kICXorKIFD := make([]byte, 16)
	for i := range kICXorKIFD {
		kICXorKIFD[i] = kIFD[i] ^ kIC[i]
	}
	wantKSEnc := crypto.DeriveKey(kICXorKIFD, crypto.CounterEnc)
	wantKSMac := crypto.DeriveKey(kICXorKIFD, crypto.CounterMAC)

	assert.Equal(t, wantKSEnc, keys.KSEnc)
	assert.Equal(t, wantKSMac, keys.KSMac)

	wantSSC := uint64(0)
	for _, b := range append(append([]byte{}, rndIC[4:8]...), rndIFD[4:8]...) {
		wantSSC = wantSSC<<8 | uint64(b)
	}
	assert.Equal(t, wantSSC, keys.SSC)
}

func TestHandshakeRejectsBadChallengeTrailer(t *testing.T) {
	t.Parallel()

	const td3 = "P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<" +
		"L898902C<3UTO6908061F9406236<<<<<<<<<<<<<<02"
	r, err := mrz.ParseRaw(td3)
	require.NoError(t, err)

	chip := &failingTransceiver{}
	_, err = bac.Handshake(context.Background(), chip, r, bytes.NewReader(make([]byte, 64)))
	assert.Error(t, err)
}

type failingTransceiver struct{}

func (failingTransceiver) Transceive(_ context.Context, _ *apdu.Command) (apdu.Response, error) {
	return apdu.Response{Trailer: apdu.TrailerWrongCLA}, nil
}
