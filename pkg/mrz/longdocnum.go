package mrz

import "strings"

// fullDocumentNumber unwinds the ICAO long-document-number encoding: when a
// document number does not fit the 9/9-character document number field, the
// document number check digit position holds FillChar and the remaining
// digits plus the real check digit are carried at the front of
// optional_data_1, terminated by the first FillChar in that field (Doc 9303
// Part 3 §4.3, note j). It returns the reassembled number (without its check
// digit) and the check digit, which is the last character before that first
// FillChar.
func fullDocumentNumber(r Raw) (number string, checkDigit string) {
	docCheckDigit := r.DocumentNumberCheckDigit()
	opt := r.OptionalData1()

	if docCheckDigit == string(FillChar) {
		if end := strings.IndexByte(opt, byte(FillChar)); end >= 2 {
			return r.DocumentNumber() + opt[:end-1], opt[end-1 : end]
		}
	}

	return r.DocumentNumber(), docCheckDigit
}
