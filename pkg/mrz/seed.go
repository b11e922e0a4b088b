package mrz

import (
	"crypto/sha1" //nolint:gosec // mandated by ICAO Doc 9303 Part 11 Appendix D.2, not a security choice.
	"strings"

	"github.com/andrei-cloud/go-emrtd/pkg/crypto"
)

// DeriveSeedKey computes the 16-byte BAC key seed (K_seed) from a parsed
// MRZ: SHA-1 over the document number, its check digit (or, for a long
// document number, the overflow digits carried in optional_data_1), date of
// birth and check digit, and date of expiry and check digit — truncated to
// 16 bytes. See Doc 9303 Part 11 §4.3.2.
func DeriveSeedKey(r Raw) []byte {
	h := sha1.New() //nolint:gosec
	h.Write([]byte(r.DocumentNumber()))

	longDocNum := false
	opt := r.OptionalData1()
	checkDigit := r.DocumentNumberCheckDigit()

	if len(checkDigit) == 0 || checkDigit == string(FillChar) {
		if end := strings.IndexByte(opt, byte(FillChar)); end >= 2 {
			h.Write([]byte(opt[:end]))
			longDocNum = true
		}
	}
	if !longDocNum {
		h.Write([]byte(checkDigit))
	}

	h.Write([]byte(r.DateOfBirth()))
	h.Write([]byte(r.DateOfBirthCheckDigit()))
	h.Write([]byte(r.DateOfExpiry()))
	h.Write([]byte(r.DateOfExpiryCheckDigit()))

	seed := make([]byte, crypto.KeyLen)
	copy(seed, h.Sum(nil))

	return seed
}

// DeriveKey derives K_ENC (counter) or K_MAC (counter) directly from an MRZ,
// bypassing a separately-held seed. counter 0 returns the raw seed itself.
func DeriveKey(r Raw, counter uint32) []byte {
	seed := DeriveSeedKey(r)
	if counter == 0 {
		return seed
	}

	return crypto.DeriveKey(seed, counter)
}
