package crypto

import (
	"crypto/sha1" //nolint:gosec // mandated by ICAO Doc 9303 Part 11 key derivation
	"encoding/binary"
	"math/bits"
)

// KeyLen is the length in bytes of a derived DES/3DES session key.
const KeyLen = 16

// Counter values for DeriveKey; 0 is a sentinel meaning "return seed as-is".
const (
	CounterSeed = 0
	CounterEnc  = 1
	CounterMAC  = 2
)

// DeriveKey implements the ICAO 9303 key derivation function: SHA-1 over
// seed||BE32(counter), truncated/extended to 16 bytes, then adjusted so
// every byte has odd parity as crypto/des requires. Counter 0 returns seed
// unchanged (it is never hashed).
func DeriveKey(seed []byte, counter uint32) []byte {
	if counter == CounterSeed {
		out := make([]byte, len(seed))
		copy(out, seed)

		return out
	}

	h := sha1.New() //nolint:gosec // ICAO-mandated, not used for collision resistance
	h.Write(seed)

	var counterBytes [4]byte
	binary.BigEndian.PutUint32(counterBytes[:], counter)
	h.Write(counterBytes[:])

	digest := h.Sum(nil)
	key := make([]byte, KeyLen)
	copy(key, digest)

	fixParity(key)

	return key
}

// fixParity flips bit 0 of each byte where needed so the byte has odd
// parity overall, matching the reference implementation's bit-for-bit
// behavior (it tests all 8 bits, not just the top 7, before adjusting
// bit 0 — numerically equivalent, kept for wire compatibility).
func fixParity(key []byte) {
	for i, b := range key {
		if bits.OnesCount8(b)%2 == 0 {
			key[i] = b ^ 0x01
		}
	}
}
