package apdu_test

import (
	"testing"

	"github.com/andrei-cloud/go-emrtd/pkg/apdu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandEncodeNoDataNoLe(t *testing.T) {
	t.Parallel()

	c := &apdu.Command{CLA: 0x00, INS: 0xA4, P1: 0x04, P2: 0x0C}
	assert.Equal(t, []byte{0x00, 0xA4, 0x04, 0x0C}, c.Bytes())
}

func TestCommandEncodeSelectAID(t *testing.T) {
	t.Parallel()

	aid := []byte{0xA0, 0x00, 0x00, 0x02, 0x47, 0x10, 0x01}
	c := &apdu.Command{CLA: 0x00, INS: 0xA4, P1: 0x04, P2: 0x0C, Data: aid}
	want := append([]byte{0x00, 0xA4, 0x04, 0x0C, 0x07}, aid...)
	assert.Equal(t, want, c.Bytes())
}

func TestCommandEncodeGetChallenge(t *testing.T) {
	t.Parallel()

	c := &apdu.Command{CLA: 0x00, INS: 0x84, P1: 0x00, P2: 0x00, RxLen: 8}
	assert.Equal(t, []byte{0x00, 0x84, 0x00, 0x00, 0x08}, c.Bytes())
}

func TestCommandLcBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		dataLen  int
		wantLc   []byte
	}{
		{"zero", 0, []byte{}},
		{"one", 1, []byte{0x01}},
		{"max short", 255, []byte{0xFF}},
		{"min extended", 256, []byte{0x00, 0x01, 0x00}},
		{"max observed", 65535, []byte{0x00, 0xFF, 0xFF}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := &apdu.Command{CLA: 0x00, INS: 0xA4, Data: make([]byte, tt.dataLen)}
			encoded := c.Bytes()
			gotLc := encoded[4 : 4+len(tt.wantLc)]
			assert.Equal(t, tt.wantLc, gotLc)
			assert.Equal(t, c.Len(), len(encoded))
		})
	}
}

func TestCommandLeBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		rxLen  int
		data   []byte
		wantLe []byte
	}{
		{"zero means absent", 0, nil, nil},
		{"one", 1, nil, []byte{0x01}},
		{"short form max 256", 256, nil, []byte{0x00}},
		{"just above short max, short Lc", 257, nil, []byte{0x00, 0x01, 0x01}},
		{"extended 65536, extended Lc", 65536, make([]byte, 256), []byte{0x00, 0x00}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := &apdu.Command{CLA: 0x00, INS: 0xB0, Data: tt.data, RxLen: tt.rxLen}
			encoded := c.Bytes()
			gotLe := encoded[len(encoded)-len(tt.wantLe):]
			if len(tt.wantLe) == 0 {
				assert.Len(t, encoded, 4)
				return
			}
			assert.Equal(t, tt.wantLe, gotLe)
		})
	}
}

func TestCommandEncodeIntoReusesBuffer(t *testing.T) {
	t.Parallel()

	scratch := make([]byte, 0, 32)
	c := &apdu.Command{CLA: 0x00, INS: 0x84, RxLen: 8}
	out := c.EncodeInto(scratch[:0])
	assert.Equal(t, c.Bytes(), out)
}

func TestParseResponseSplitsTrailer(t *testing.T) {
	t.Parallel()

	raw := []byte{0xAA, 0xBB, 0x90, 0x00}
	res := apdu.ParseResponse(raw)
	assert.Equal(t, []byte{0xAA, 0xBB}, res.Data)
	assert.Equal(t, apdu.TrailerOK, res.Trailer)
	assert.True(t, res.Trailer.OK())
}

func TestParseResponseTooShort(t *testing.T) {
	t.Parallel()

	res := apdu.ParseResponse([]byte{0x90})
	assert.Equal(t, []byte{0x90}, res.Data)
	assert.Equal(t, apdu.Trailer{}, res.Trailer)
}

func TestParseCommandRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []*apdu.Command{
		{CLA: 0x00, INS: 0xA4, P1: 0x04, P2: 0x0C},
		{CLA: 0x00, INS: 0xA4, P1: 0x04, P2: 0x0C, Data: []byte{0xA0, 0x00, 0x00, 0x02, 0x47, 0x10, 0x01}},
		{CLA: 0x00, INS: 0x84, P1: 0x00, P2: 0x00, RxLen: 8},
		{CLA: 0x00, INS: 0x82, P1: 0x00, P2: 0x00, Data: make([]byte, 40), RxLen: 40},
		{CLA: 0x0C, INS: 0xA4, P1: 0x02, P2: 0x0C, Data: make([]byte, 21), RxLen: 256},
		{CLA: 0x00, INS: 0xA4, P1: 0x04, P2: 0x0C, Data: make([]byte, 300)},
		{CLA: 0x00, INS: 0xB0, P1: 0x00, P2: 0x00, RxLen: 257},
	}

	for i, want := range tests {
		want := want
		t.Run(string(rune('A'+i)), func(t *testing.T) {
			t.Parallel()
			got, err := apdu.ParseCommand(want.Bytes())
			require.NoError(t, err)
			assert.Equal(t, want.CLA, got.CLA)
			assert.Equal(t, want.INS, got.INS)
			assert.Equal(t, want.P1, got.P1)
			assert.Equal(t, want.P2, got.P2)
			assert.Equal(t, want.Data, got.Data)
			assert.Equal(t, want.RxLen, got.RxLen)
		})
	}
}

func TestParseCommandRejectsTooShort(t *testing.T) {
	t.Parallel()

	_, err := apdu.ParseCommand([]byte{0x00, 0xA4, 0x04})
	assert.Error(t, err)
}
