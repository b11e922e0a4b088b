package files_test

import (
	"context"
	"testing"

	"github.com/andrei-cloud/go-emrtd/pkg/apdu"
	"github.com/andrei-cloud/go-emrtd/pkg/bac"
	"github.com/andrei-cloud/go-emrtd/pkg/files"
	"github.com/andrei-cloud/go-emrtd/pkg/sm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChip answers SELECT FILE and READ BINARY against one in-memory file,
// playing the chip's half of secure messaging so ReadFile can be exercised
// without a real or simulated card.
type fakeChip struct {
	session *sm.Session
	content []byte
}

func (f *fakeChip) Transmit(_ context.Context, raw []byte) ([]byte, error) {
	protected, err := apdu.ParseCommand(raw)
	if err != nil {
		return nil, err
	}

	decoded, err := f.session.UnprotectCommand(protected)
	if err != nil {
		return nil, err
	}

	var data []byte
	trailer := apdu.TrailerOK

	switch decoded.INS {
	case 0xA4:
		// SELECT FILE: single file in scope, nothing further to do.
	case 0xB0:
		offset := int(decoded.P1)<<8 | int(decoded.P2)
		length := decoded.RxLen
		if offset+length > len(f.content) {
			trailer = apdu.TrailerWrongLen
		} else {
			data = f.content[offset : offset+length]
		}
	default:
		trailer = apdu.TrailerFunctionNotSupported
	}

	return f.session.ProtectResponse(data, trailer, true)
}

func testKeys() *bac.SessionKeys {
	return &bac.SessionKeys{
		KSEnc: mustHexBytes("AB94FDECF2674FDFB9B391F85D7F76F2"),
		KSMac: mustHexBytes("7962D9ECE03D1ACD4C76089DCE131543"),
		SSC:   1,
	}
}

func mustHexBytes(s string) []byte {
	b := make([]byte, len(s)/2)
	for i := range b {
		hi := hexNibble(s[i*2])
		lo := hexNibble(s[i*2+1])
		b[i] = hi<<4 | lo
	}

	return b
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return c - 'a' + 10
	}
}

// buildLongFormFile assembles a file whose outer BER-TLV length needs the
// two-octet long form, forcing ReadFile's chunked loop across MAX_READ
// boundaries.
func buildLongFormFile(valueLen int) []byte {
	value := make([]byte, valueLen)
	for i := range value {
		value[i] = byte(i)
	}

	header := []byte{0x75, 0x82, byte(valueLen >> 8), byte(valueLen)}

	return append(header, value...)
}

func TestReadFileChunksAcrossMaxRead(t *testing.T) {
	t.Parallel()

	content := buildLongFormFile(300)

	chip := &fakeChip{session: sm.NewSession(testKeys()), content: content}
	readerSession := sm.NewSession(testKeys())

	got, err := files.ReadFile(context.Background(), chip, readerSession, files.EFDG2)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestReadFileShortFormLength(t *testing.T) {
	t.Parallel()

	value := []byte("hello, eMRTD")
	content := append([]byte{0x61, byte(len(value))}, value...)

	chip := &fakeChip{session: sm.NewSession(testKeys()), content: content}
	readerSession := sm.NewSession(testKeys())

	got, err := files.ReadFile(context.Background(), chip, readerSession, files.EFCOM)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestReadFileRejectsShortChunk(t *testing.T) {
	t.Parallel()

	content := buildLongFormFile(10) // shorter than its declared length demands below

	chip := &fakeChip{session: sm.NewSession(testKeys()), content: content[:6]}
	readerSession := sm.NewSession(testKeys())

	_, err := files.ReadFile(context.Background(), chip, readerSession, files.EFDG2)
	assert.Error(t, err)
}
