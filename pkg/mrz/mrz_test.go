package mrz_test

import (
	"encoding/hex"
	"testing"

	"github.com/andrei-cloud/go-emrtd/pkg/mrz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Specimen built from the document number, date of birth, and date of
// expiry of the ICAO Doc 9303 Part 11 Appendix D.2 BAC worked example (the
// fields the key seed is derived from); optional data and the composite
// check digit are computed fresh since the appendix worked example only
// specifies the key-seed input, not a full printable MRZ.
const td3Specimen = "P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<" +
	"L898902C<3UTO6908061F9406236<<<<<<<<<<<<<<02"

func TestParseRawDispatchesOnLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		format mrz.Format
	}{
		{"td3", td3Specimen, mrz.TD3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, err := mrz.ParseRaw(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.format, r.Format())
		})
	}
}

func TestParseRawRejectsUnknownLength(t *testing.T) {
	t.Parallel()

	_, err := mrz.ParseRaw("too short")
	assert.ErrorIs(t, err, mrz.ErrInvalidLength)
}

func TestTD3SpecimenIsValid(t *testing.T) {
	t.Parallel()

	r, err := mrz.ParseRaw(td3Specimen)
	require.NoError(t, err)
	assert.NoError(t, mrz.IsValid(r))
}

func TestTD3SpecimenSeedKeyAndDerivedKeys(t *testing.T) {
	t.Parallel()

	r, err := mrz.ParseRaw(td3Specimen)
	require.NoError(t, err)

	seed := mrz.DeriveSeedKey(r)
	assert.Equal(t, "239ab9cb282daf66231dc5a4df6bfbae", hex.EncodeToString(seed))
	assert.Equal(t, "ab94fdecf2674fdfb9b391f85d7f76f2", hex.EncodeToString(mrz.DeriveKey(r, 1)))
	assert.Equal(t, "7962d9ece03d1acd4c76089dce131543", hex.EncodeToString(mrz.DeriveKey(r, 2)))
}

func TestFromRawPopulatesOwnedFields(t *testing.T) {
	t.Parallel()

	r, err := mrz.ParseRaw(td3Specimen)
	require.NoError(t, err)

	m, err := mrz.FromRaw(r)
	require.NoError(t, err)

	assert.Equal(t, "P", m.DocumentCode)
	assert.Equal(t, "L898902C", m.DocumentNumber)
	assert.Equal(t, "UTO", m.Issuer)
	assert.Equal(t, "UTO", m.Nationality)
	assert.Equal(t, mrz.Female, m.Sex)
	assert.Equal(t, [][]string{{"ERIKSSON"}, {"ANNA", "MARIA"}}, m.Names)
	assert.Len(t, m.KeySeed, 16)
	assert.Len(t, m.KeyEnc, 16)
	assert.Len(t, m.KeyMac, 16)
	assert.Equal(t, "ab94fdecf2674fdfb9b391f85d7f76f2", hex.EncodeToString(m.KeyEnc))
	assert.Equal(t, "7962d9ece03d1acd4c76089dce131543", hex.EncodeToString(m.KeyMac))
}

func TestRenderRoundTrip(t *testing.T) {
	t.Parallel()

	r, err := mrz.ParseRaw(td3Specimen)
	require.NoError(t, err)

	m, err := mrz.FromRaw(r)
	require.NoError(t, err)

	assert.Equal(t, td3Specimen, m.Render())
}

func TestIsValidRejectsBadChecksum(t *testing.T) {
	t.Parallel()

	corrupt := td3Specimen[:len(td3Specimen)-1] + "0"
	r, err := mrz.ParseRaw(corrupt)
	require.NoError(t, err)
	assert.ErrorIs(t, mrz.IsValid(r), mrz.ErrInvalidChecksum)
}

func TestIsValidRejectsWrongDocumentCode(t *testing.T) {
	t.Parallel()

	corrupt := "X" + td3Specimen[1:]
	r, err := mrz.ParseRaw(corrupt)
	require.NoError(t, err)
	assert.ErrorIs(t, mrz.IsValid(r), mrz.ErrInvalidDocumentCode)
}

func TestCheckDigitSumSpecimen(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, mrz.CheckDigitSum("L898902C<"))
	assert.Equal(t, 1, mrz.CheckDigitSum("690806"))
	assert.Equal(t, 6, mrz.CheckDigitSum("940623"))
}

func TestNormalizeStringStripsNonAlphabet(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "AB12<CD", mrz.NormalizeString("ab12-<cd"))
}
