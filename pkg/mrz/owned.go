package mrz

import (
	"strings"
	"time"

	"github.com/andrei-cloud/go-emrtd/pkg/crypto"
)

// Sex is the three-value ICAO sex marker.
type Sex int

const (
	Unspecified Sex = iota
	Male
	Female
)

// ParseSex maps the single MRZ sex character to a Sex, defaulting to
// Unspecified for anything other than "M" or "F".
func ParseSex(s string) Sex {
	switch s {
	case "M":
		return Male
	case "F":
		return Female
	default:
		return Unspecified
	}
}

func (s Sex) String() string {
	switch s {
	case Male:
		return "M"
	case Female:
		return "F"
	default:
		return string(FillChar)
	}
}

const dateLayout = "060102"

// MRZ is the owned, allocating representation of a validated MRZ: every
// field has been copied out of the source string, fill characters trimmed,
// dates parsed, and the BAC key material precomputed.
type MRZ struct {
	Format         Format
	DocumentCode   string
	DocumentNumber string
	Issuer         string
	// Names holds one slice per "<<"-separated name group (surname(s),
	// given name(s), ...), each further split on single "<" separators.
	Names         [][]string
	DateOfBirth   time.Time
	DateOfExpiry  time.Time
	Sex           Sex
	Nationality   string
	OptionalData1 string
	OptionalData2 string
	KeySeed       []byte
	KeyEnc        []byte
	KeyMac        []byte
}

// FromRaw validates r and, on success, copies it into an owned MRZ with
// derived BAC key material attached.
func FromRaw(r Raw) (*MRZ, error) {
	if err := IsValid(r); err != nil {
		return nil, err
	}

	dob, err := time.Parse(dateLayout, r.DateOfBirth())
	if err != nil {
		return nil, ErrInvalidDate
	}
	doe, err := time.Parse(dateLayout, r.DateOfExpiry())
	if err != nil {
		return nil, ErrInvalidDate
	}

	number, _ := fullDocumentNumber(r)

	keySeed := DeriveSeedKey(r)

	m := &MRZ{
		Format:         r.Format(),
		DocumentCode:   trimFill(r.DocumentCode()),
		DocumentNumber: trimFill(number),
		Issuer:         trimFill(r.Issuer()),
		Names:          splitNames(r.Name()),
		DateOfBirth:    dob,
		DateOfExpiry:   doe,
		Sex:            ParseSex(r.Sex()),
		Nationality:    trimFill(r.Nationality()),
		OptionalData1:  trimFill(r.OptionalData1()),
		KeySeed:        keySeed,
		KeyEnc:         crypto.DeriveKey(keySeed, crypto.CounterEnc),
		KeyMac:         crypto.DeriveKey(keySeed, crypto.CounterMAC),
	}

	if opt2, ok := r.OptionalData2(); ok {
		m.OptionalData2 = trimFill(opt2)
	}

	return m, nil
}

func trimFill(s string) string {
	return strings.TrimRight(s, string(FillChar))
}

// splitNames turns the "<<"-delimited name field into name groups, each
// split further on single "<" separators.
func splitNames(name string) [][]string {
	trimmed := strings.TrimRight(name, string(FillChar))

	groups := strings.Split(trimmed, "<<")
	out := make([][]string, len(groups))
	for i, group := range groups {
		out[i] = strings.Split(group, string(FillChar))
	}

	return out
}
