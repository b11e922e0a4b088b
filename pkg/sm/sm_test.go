package sm

import (
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/andrei-cloud/go-emrtd/pkg/apdu"
	"github.com/andrei-cloud/go-emrtd/pkg/bac"
	"github.com/andrei-cloud/go-emrtd/pkg/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)

	return b
}

// TestProtectMatchesWorkedExample replays the SELECT EF.COM worked example
// from ICAO Doc 9303 Part 11 Appendix D.4.
func TestProtectMatchesWorkedExample(t *testing.T) {
	t.Parallel()

	ksEnc := mustHex(t, "979EC13B1CBFE9DCD01AB0FED307EAE5")
	ksMac := mustHex(t, "F1CB1F1FB5ADF208806B89DC579DC1F8")

	session := NewSession(&bac.SessionKeys{
		KSEnc: ksEnc,
		KSMac: ksMac,
		SSC:   0x887022120C06C226,
	})

	cmd := &apdu.Command{CLA: 0x00, INS: 0xA4, P1: 0x02, P2: 0x0C, Data: []byte{0x01, 0x1E}}

	protected, err := session.Protect(cmd)
	require.NoError(t, err)

	want := mustHex(t, "0CA4020C158709016375432908C044F68E08BF8B92D635FF24F800")
	assert.Equal(t, want, protected.Bytes())
	assert.Equal(t, uint64(0x887022120C06C227), session.SSC())
}

func TestProtectRejectsNothingOnEmptyCommand(t *testing.T) {
	t.Parallel()

	ksEnc := mustHex(t, "979EC13B1CBFE9DCD01AB0FED307EAE5")
	ksMac := mustHex(t, "F1CB1F1FB5ADF208806B89DC579DC1F8")
	session := NewSession(&bac.SessionKeys{KSEnc: ksEnc, KSMac: ksMac, SSC: 1})

	cmd := &apdu.Command{CLA: 0x00, INS: 0xB0, P1: 0x00, P2: 0x00}
	protected, err := session.Protect(cmd)
	require.NoError(t, err)
	assert.Equal(t, byte(0x0C), protected.CLA)
	assert.NotContains(t, protected.Data, byte(TagPaddedData))
}

// buildProtectedResponse assembles a protected RAPDU the way a chip would,
// for unprotect() tests that don't have a worked example to replay.
func buildProtectedResponse(t *testing.T, plain []byte, trailer apdu.Trailer, ksEnc, ksMac []byte, ssc uint64) []byte {
	t.Helper()

	ciphertext, err := crypto.TDESEncryptPad(ksEnc, plain)
	require.NoError(t, err)

	dataTLV := encodeTLV(TagPaddedData, append([]byte{paddingIndicator}, ciphertext...))
	statusTLV := encodeTLV(TagStatus, []byte{trailer.SW1, trailer.SW2})

	k := make([]byte, 0, 8+len(dataTLV)+len(statusTLV))
	k = binary.BigEndian.AppendUint64(k, ssc)
	k = append(k, dataTLV...)
	k = append(k, statusTLV...)

	cc, err := crypto.RetailMAC(ksMac, k)
	require.NoError(t, err)
	macTLV := encodeTLV(TagMAC, cc)

	raw := make([]byte, 0, len(dataTLV)+len(statusTLV)+len(macTLV)+2)
	raw = append(raw, dataTLV...)
	raw = append(raw, statusTLV...)
	raw = append(raw, macTLV...)
	raw = append(raw, trailer.SW1, trailer.SW2)

	return raw
}

func TestProtectUnprotectRoundTrip(t *testing.T) {
	t.Parallel()

	ksEnc := mustHex(t, "AB94FDECF2674FDFB9B391F85D7F76F2")
	ksMac := mustHex(t, "7962D9ECE03D1ACD4C76089DCE131543")

	session := NewSession(&bac.SessionKeys{KSEnc: ksEnc, KSMac: ksMac, SSC: 1})

	cmd := &apdu.Command{CLA: 0x00, INS: 0xB0, P1: 0x00, P2: 0x00, RxLen: 4}
	_, err := session.Protect(cmd)
	require.NoError(t, err)
	require.Equal(t, uint64(2), session.SSC())

	plainResponse := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	protectedResponse := buildProtectedResponse(t, plainResponse, apdu.TrailerOK, ksEnc, ksMac, session.SSC()+1)

	res, err := session.Unprotect(protectedResponse)
	require.NoError(t, err)
	assert.Equal(t, plainResponse, res.Data)
	assert.Equal(t, apdu.TrailerOK, res.Trailer)
	assert.Equal(t, uint64(3), session.SSC())
}

func TestUnprotectRejectsBadMAC(t *testing.T) {
	t.Parallel()

	ksEnc := mustHex(t, "AB94FDECF2674FDFB9B391F85D7F76F2")
	ksMac := mustHex(t, "7962D9ECE03D1ACD4C76089DCE131543")
	session := NewSession(&bac.SessionKeys{KSEnc: ksEnc, KSMac: ksMac, SSC: 0})

	protectedResponse := buildProtectedResponse(t, []byte{0x01, 0x02}, apdu.TrailerOK, ksEnc, ksMac, 1)
	protectedResponse[len(protectedResponse)-3] ^= 0xFF // corrupt the MAC's last byte

	_, err := session.Unprotect(protectedResponse)
	assert.Error(t, err)
}

func TestUnprotectRejectsNonOKTrailer(t *testing.T) {
	t.Parallel()

	ksEnc := mustHex(t, "AB94FDECF2674FDFB9B391F85D7F76F2")
	ksMac := mustHex(t, "7962D9ECE03D1ACD4C76089DCE131543")
	session := NewSession(&bac.SessionKeys{KSEnc: ksEnc, KSMac: ksMac, SSC: 0})

	_, err := session.Unprotect([]byte{0x6A, 0x82})
	assert.Error(t, err)
}

func TestUnprotectCommandMatchesWorkedExample(t *testing.T) {
	t.Parallel()

	ksEnc := mustHex(t, "979EC13B1CBFE9DCD01AB0FED307EAE5")
	ksMac := mustHex(t, "F1CB1F1FB5ADF208806B89DC579DC1F8")

	readerSide := NewSession(&bac.SessionKeys{KSEnc: ksEnc, KSMac: ksMac, SSC: 0x887022120C06C226})
	cmd := &apdu.Command{CLA: 0x00, INS: 0xA4, P1: 0x02, P2: 0x0C, Data: []byte{0x01, 0x1E}}
	protected, err := readerSide.Protect(cmd)
	require.NoError(t, err)

	chipSide := NewSession(&bac.SessionKeys{KSEnc: ksEnc, KSMac: ksMac, SSC: 0x887022120C06C226})
	decoded, err := chipSide.UnprotectCommand(protected)
	require.NoError(t, err)
	assert.Equal(t, cmd.Data, decoded.Data)
	assert.Equal(t, cmd.INS, decoded.INS)
	assert.Equal(t, readerSide.SSC(), chipSide.SSC())
}

func TestChipSideRoundTrip(t *testing.T) {
	t.Parallel()

	ksEnc := mustHex(t, "AB94FDECF2674FDFB9B391F85D7F76F2")
	ksMac := mustHex(t, "7962D9ECE03D1ACD4C76089DCE131543")

	readerSide := NewSession(&bac.SessionKeys{KSEnc: ksEnc, KSMac: ksMac, SSC: 5})
	chipSide := NewSession(&bac.SessionKeys{KSEnc: ksEnc, KSMac: ksMac, SSC: 5})

	cmd := &apdu.Command{CLA: 0x00, INS: 0xB0, P1: 0x00, P2: 0x04, RxLen: 8}
	protected, err := readerSide.Protect(cmd)
	require.NoError(t, err)

	decoded, err := chipSide.UnprotectCommand(protected)
	require.NoError(t, err)
	assert.Equal(t, cmd.INS, decoded.INS)
	assert.Equal(t, cmd.RxLen, decoded.RxLen)

	plainResponse := []byte{0xCA, 0xFE, 0xBA, 0xBE, 0x01, 0x02, 0x03, 0x04}
	protectedResponse, err := chipSide.ProtectResponse(plainResponse, apdu.TrailerOK, true)
	require.NoError(t, err)

	res, err := readerSide.Unprotect(protectedResponse)
	require.NoError(t, err)
	assert.Equal(t, plainResponse, res.Data)
	assert.Equal(t, apdu.TrailerOK, res.Trailer)
	assert.Equal(t, readerSide.SSC(), chipSide.SSC())
}

func TestUnprotectRejectsMissingStatusObject(t *testing.T) {
	t.Parallel()

	ksEnc := mustHex(t, "AB94FDECF2674FDFB9B391F85D7F76F2")
	ksMac := mustHex(t, "7962D9ECE03D1ACD4C76089DCE131543")
	session := NewSession(&bac.SessionKeys{KSEnc: ksEnc, KSMac: ksMac, SSC: 0})

	macTLV := encodeTLV(TagMAC, make([]byte, 8))
	raw := append(macTLV, 0x90, 0x00)

	_, err := session.Unprotect(raw)
	assert.Error(t, err)
}
