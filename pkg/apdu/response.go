package apdu

import "fmt"

// Trailer is the two-byte status word (SW1, SW2) trailing every response
// APDU.
type Trailer struct {
	SW1 byte
	SW2 byte
}

func (t Trailer) String() string {
	return fmt.Sprintf("(SW1: 0x%02X, SW2: 0x%02X)", t.SW1, t.SW2)
}

// OK reports whether the trailer is the normal-processing status 0x9000.
func (t Trailer) OK() bool {
	return t == TrailerOK
}

// Status words an eMRTD chip commonly returns. See ISO/IEC 7816-4 §5.4.5
// and ICAO Doc 9303 Part 10.
var (
	TrailerOK                   = Trailer{0x90, 0x00}
	TrailerWrongLen             = Trailer{0x67, 0x00}
	TrailerWrongCLA             = Trailer{0x68, 0x00}
	TrailerFunctionNotSupported = Trailer{0x6A, 0x81}
	TrailerWrongP1P2            = Trailer{0x6B, 0x00}
	TrailerWrongSMObjects       = Trailer{0x69, 0x88}
	TrailerUnknown              = Trailer{0x6C, 0x00}
	TrailerFileNotFound         = Trailer{0x6A, 0x82}
	TrailerCommandNotAllowed    = Trailer{0x69, 0x86}
	TrailerAuthenticationFailed = Trailer{0x63, 0x00}
)

// Response is a decoded response APDU: response data plus its trailing
// status word.
type Response struct {
	Data    []byte
	Trailer Trailer
}

// ParseResponse splits raw transceiver output into data and trailer. A raw
// response shorter than 2 bytes (malformed or truncated transport) yields a
// zero-value Trailer and the bytes as-is in Data.
func ParseResponse(raw []byte) Response {
	if len(raw) < 2 {
		return Response{Data: raw}
	}

	n := len(raw)

	return Response{
		Data:    raw[:n-2],
		Trailer: Trailer{SW1: raw[n-2], SW2: raw[n-1]},
	}
}

func (r Response) String() string {
	if len(r.Data) > 0 {
		return fmt.Sprintf("% X %s", r.Data, r.Trailer)
	}

	return r.Trailer.String()
}
