package sm

import "github.com/andrei-cloud/go-emrtd/pkg/emrtderr"

// Secure messaging data object tags used by ISO/IEC 7816-4 §10.3 / ICAO Doc
// 9303 Part 11 §9.8.
const (
	TagUnpaddedData  byte = 0x85 // DO'85': cryptogram alone (odd INS)
	TagPaddedData    byte = 0x87 // DO'87': padding-indicator byte + cryptogram (even INS)
	TagLe            byte = 0x97 // DO'97': Le of the unprotected command
	TagStatus        byte = 0x99 // DO'99': processing status of the response
	TagMAC           byte = 0x8E // DO'8E': checksum over the preceding DOs
	paddingIndicator byte = 0x01
)

// tlv is one BER-TLV data object with a single-byte tag, which covers every
// tag this package constructs or parses. Raw holds the object's full
// tag+length+value encoding, since the secure messaging MAC is computed
// over the re-encoded data objects, not just their values.
type tlv struct {
	Tag   byte
	Value []byte
	Raw   []byte
}

func encodeTLV(tag byte, value []byte) []byte {
	buf := append([]byte{tag}, encodeBERLength(len(value))...)

	return append(buf, value...)
}

func encodeBERLength(n int) []byte {
	switch {
	case n < 0x80:
		return []byte{byte(n)}
	case n <= 0xFF:
		return []byte{0x81, byte(n)}
	case n <= 0xFFFF:
		return []byte{0x82, byte(n >> 8), byte(n)}
	default:
		return []byte{0x83, byte(n >> 16), byte(n >> 8), byte(n)}
	}
}

// parseTLVs walks a flat sequence of BER-TLV objects with single-byte tags.
func parseTLVs(data []byte) ([]tlv, error) {
	var out []tlv

	i := 0
	for i < len(data) {
		start := i
		tag := data[i]
		i++
		if i >= len(data) {
			return nil, emrtderr.New(emrtderr.KindSM, "truncated TLV length")
		}

		length, consumed, err := decodeBERLength(data[i:])
		if err != nil {
			return nil, err
		}
		i += consumed

		if i+length > len(data) {
			return nil, emrtderr.New(emrtderr.KindSM, "truncated TLV value")
		}

		out = append(out, tlv{Tag: tag, Value: data[i : i+length], Raw: data[start : i+length]})
		i += length
	}

	return out, nil
}

func decodeBERLength(data []byte) (length, consumed int, err error) {
	if len(data) == 0 {
		return 0, 0, emrtderr.New(emrtderr.KindSM, "empty TLV length")
	}

	b := data[0]
	if b < 0x80 {
		return int(b), 1, nil
	}

	n := int(b & 0x7F)
	if n == 0 || n > 4 || len(data) < 1+n {
		return 0, 0, emrtderr.New(emrtderr.KindSM, "unsupported TLV length encoding")
	}

	for i := 0; i < n; i++ {
		length = length<<8 | int(data[1+i])
	}

	return length, 1 + n, nil
}

func findTLV(tlvs []tlv, tag byte) (tlv, bool) {
	for _, t := range tlvs {
		if t.Tag == tag {
			return t, true
		}
	}

	return tlv{}, false
}
