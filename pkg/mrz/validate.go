package mrz

import (
	"strconv"
	"strings"
	"time"
)

// IsValid runs every MRZ validity check in the order ICAO Doc 9303 Part 3
// defines them: the long-document-number layout, the document number check
// digit, the date of birth check digit and calendar validity, the date of
// expiry check digit and calendar validity, the composite check digit, the
// optional data 1 check digit (TD3 only), and finally the document code. It
// returns the first failure.
func IsValid(r Raw) error {
	if r.DocumentNumberCheckDigit() == string(FillChar) {
		end := strings.IndexByte(r.OptionalData1(), byte(FillChar))
		if end < 0 || end < 2 {
			return ErrInvalidDocumentNumber
		}
	}

	number, checkDigit := fullDocumentNumber(r)
	if !checkDigitMatches(number, checkDigit) {
		return ErrInvalidChecksum
	}

	if !checkDigitMatches(r.DateOfBirth(), r.DateOfBirthCheckDigit()) {
		return ErrInvalidChecksum
	}
	if _, err := time.Parse("060102", r.DateOfBirth()); err != nil {
		return ErrInvalidDate
	}

	if !checkDigitMatches(r.DateOfExpiry(), r.DateOfExpiryCheckDigit()) {
		return ErrInvalidChecksum
	}
	if _, err := time.Parse("060102", r.DateOfExpiry()); err != nil {
		return ErrInvalidDate
	}

	if !checkDigitMatches(r.CompositeData(), r.CompositeCheckDigit()) {
		return ErrInvalidChecksum
	}

	if optCheckDigit, ok := r.OptionalData1CheckDigit(); ok {
		if !checkDigitMatches(r.OptionalData1(), optCheckDigit) {
			return ErrInvalidChecksum
		}
	}

	if !r.DocumentCodeValid() {
		return ErrInvalidDocumentCode
	}

	return nil
}

// checkDigitMatches reports whether want parses as exactly the decimal
// digit CheckDigitSum(data) computes. A want that is not a decimal number
// (a filler character, for instance) never matches.
func checkDigitMatches(data, want string) bool {
	n, err := strconv.Atoi(want)
	if err != nil {
		return false
	}

	return n == CheckDigitSum(data)
}
