package crypto_test

import (
	"encoding/hex"
	"testing"

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

func TestPadUnpadRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
	}{
		{"empty", []byte{}},
		{"one byte", []byte{0x01}},
		{"exactly one block", []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		{"one block plus one", []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			padded := crypto.Pad(tt.input)
			assert.Zero(t, len(padded)%crypto.BlockSize)
			assert.Positive(t, len(padded))

			got, err := crypto.Unpad(padded)
			require.NoError(t, err)
			assert.Equal(t, tt.input, got)
		})
	}
}

func TestPadAlwaysAdds(t *testing.T) {
	t.Parallel()

	input := make([]byte, 16)
	padded := crypto.Pad(input)
	assert.Len(t, padded, 24)
	assert.Equal(t, byte(0x80), padded[16])
}

func TestUnpadRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := crypto.Unpad([]byte{1, 2, 3, 4, 5, 6, 7, 0x7F})
	assert.Error(t, err)
}

func TestDESCBCRoundTrip(t *testing.T) {
	t.Parallel()

	key := mustHex(t, "0123456789ABCDEF")
	plain := mustHex(t, "0011223344556677")

	ct, err := crypto.DESEncryptCBC(key, plain)
	require.NoError(t, err)
	assert.Len(t, ct, 8)

	pt, err := crypto.DESDecryptCBC(key, ct)
	require.NoError(t, err)
	assert.Equal(t, plain, pt)
}

func TestTDESEDECBCRoundTrip(t *testing.T) {
	t.Parallel()

	key := mustHex(t, "AB94FDECF2674FDFB9B391F85D7F76F2")
	plain := make([]byte, 32)
	for i := range plain {
		plain[i] = byte(i)
	}

	ct, err := crypto.TDESEncryptCBC(key, plain)
	require.NoError(t, err)
	assert.Len(t, ct, len(plain))

	pt, err := crypto.TDESDecryptCBC(key, ct)
	require.NoError(t, err)
	assert.Equal(t, plain, pt)
}

func TestTDESEncryptPadDecryptUnpadRoundTrip(t *testing.T) {
	t.Parallel()

	key := mustHex(t, "AB94FDECF2674FDFB9B391F85D7F76F2")

	for _, n := range []int{0, 1, 7, 8, 9, 31} {
		plain := make([]byte, n)
		for i := range plain {
			plain[i] = byte(i + 1)
		}

		ct, err := crypto.TDESEncryptPad(key, plain)
		require.NoError(t, err)

		pt, err := crypto.TDESDecryptUnpad(key, ct)
		require.NoError(t, err)
		assert.Equal(t, plain, pt)
	}
}

func TestRetailMACLength(t *testing.T) {
	t.Parallel()

	key := mustHex(t, "7962D9ECE03D1ACD4C76089DCE131543")[:16]
	mac, err := crypto.RetailMAC(key, []byte("arbitrary length message"))
	require.NoError(t, err)
	assert.Len(t, mac, 8)
}

// From ICAO Doc 9303 Part 11 Appendix D.2 worked example.
func TestKDFSpecimen(t *testing.T) {
	t.Parallel()

	seed := mustHex(t, "239AB9CB282DAF66231DC5A4DF6BFBAE")
	kEnc := crypto.DeriveKey(seed, crypto.CounterEnc)
	kMac := crypto.DeriveKey(seed, crypto.CounterMAC)

	assert.Equal(t, "ab94fdecf2674fdfb9b391f85d7f76f2", hex.EncodeToString(kEnc))
	assert.Equal(t, "7962d9ece03d1acd4c76089dce131543", hex.EncodeToString(kMac))
}

func TestDeriveKeyLengthAndParity(t *testing.T) {
	t.Parallel()

	seed := make([]byte, 16)
	for i := range seed {
		seed[i] = byte(i)
	}

	key := crypto.DeriveKey(seed, crypto.CounterEnc)
	require.Len(t, key, 16)

	for _, b := range key {
		count := 0
		for i := 0; i < 8; i++ {
			if b&(1<<i) != 0 {
				count++
			}
		}
		assert.Equal(t, 1, count%2, "byte %08b does not have odd parity", b)
	}
}

func TestDeriveKeyCounterZeroReturnsSeed(t *testing.T) {
	t.Parallel()

	seed := mustHex(t, "00112233445566778899AABBCCDDEEFF")[:16]
	got := crypto.DeriveKey(seed, crypto.CounterSeed)
	assert.Equal(t, seed, got)
}
