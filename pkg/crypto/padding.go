// Package crypto implements the block-cipher primitives the eMRTD protocol
// stack is built on: DES-CBC, 2-key 3DES-EDE-CBC, ISO/IEC 9797-1 padding,
// Retail MAC (Algorithm 3), and the SHA-1 based session key derivation
// function from ICAO Doc 9303 Part 11.
package crypto

import "fmt"

// PaddingByte is the ISO/IEC 9797-1 padding method 2 marker.
const PaddingByte = 0x80

// BlockSize is the DES/3DES block size in bytes.
const BlockSize = 8

// Pad appends 0x80 followed by the minimum number of 0x00 bytes needed to
// reach a positive multiple of BlockSize. Padding is always added, even if
// input is already block-aligned.
func Pad(input []byte) []byte {
	newLen := ((len(input) + BlockSize) / BlockSize) * BlockSize
	out := make([]byte, newLen)
	copy(out, input)
	out[len(input)] = PaddingByte

	return out
}

// Unpad reverses Pad: it scans from the tail, skipping 0x00 bytes, and
// truncates at the first 0x80 byte. Any other trailing byte is an error.
func Unpad(input []byte) ([]byte, error) {
	for i := len(input) - 1; i >= 0; i-- {
		switch input[i] {
		case 0x00:
			continue
		case PaddingByte:
			out := make([]byte, i)
			copy(out, input[:i])

			return out, nil
		default:
			return nil, fmt.Errorf("crypto: unexpected byte 0x%02x at position %d of padded data", input[i], i)
		}
	}

	return input, nil
}
