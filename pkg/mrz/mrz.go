// Package mrz parses and validates the Machine-Readable Zone printed on
// eMRTDs (TD1 ID cards, TD2 ID cards, TD3 passports) and derives the BAC
// key seed from it, per ICAO Doc 9303 Part 3 and Part 11 §4.3.
package mrz

import (
	"fmt"
	"strings"
)

// FillChar is the MRZ padding character.
const FillChar = '<'

// Format identifies which of the three ICAO document layouts an MRZ uses.
type Format int

const (
	TD1 Format = iota
	TD2
	TD3
)

func (f Format) String() string {
	switch f {
	case TD1:
		return "TD1"
	case TD2:
		return "TD2"
	case TD3:
		return "TD3"
	default:
		return "unknown"
	}
}

// Raw is the borrowed, slice-backed view over one of the three MRZ layouts:
// every accessor returns a substring of the string the Raw was parsed from.
// A Raw must not outlive the string it was parsed from.
type Raw interface {
	Format() Format
	DocumentCode() string
	DocumentCodeValid() bool
	Issuer() string
	DocumentNumber() string
	DocumentNumberCheckDigit() string
	DateOfBirth() string
	DateOfBirthCheckDigit() string
	DateOfExpiry() string
	DateOfExpiryCheckDigit() string
	Name() string
	Sex() string
	Nationality() string
	OptionalData1() string
	// OptionalData1CheckDigit returns ("", false) for formats that carry no
	// such field (TD1, TD2 — only TD3 has one).
	OptionalData1CheckDigit() (string, bool)
	// OptionalData2 returns ("", false) for formats that carry no such
	// field (TD2, TD3 — only TD1 has one).
	OptionalData2() (string, bool)
	CompositeCheckDigit() string
	// CompositeData returns the format-specific ordered concatenation used
	// to verify CompositeCheckDigit, per spec §4.3.
	CompositeData() string
	// String renders the Raw back to its exact source substring.
	String() string
}

// NormalizeString strips anything outside the MRZ alphabet [A-Z0-9<] and
// uppercases the rest.
func NormalizeString(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, c := range strings.ToUpper(input) {
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == FillChar {
			b.WriteRune(c)
		}
	}

	return b.String()
}

// ParseRaw tries TD1, then TD2, then TD3, by exact input length. Any
// failure other than a length mismatch aborts immediately.
func ParseRaw(input string) (Raw, error) {
	switch len(input) {
	case td1Length:
		return parseTD1(input)
	case td2Length:
		return parseTD2(input)
	case td3Length:
		return parseTD3(input)
	default:
		return nil, fmt.Errorf("%w: length %d matches no known MRZ format", ErrInvalidLength, len(input))
	}
}
