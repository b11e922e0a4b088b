package crypto

import "fmt"

// MACKeyLen is the length of the 16-byte KMAC/KSMAC key (K1|K2, 8 bytes each).
const MACKeyLen = 16

// RetailMAC computes the ISO/IEC 9797-1 Algorithm 3 Retail MAC over data
// using a 16-byte key split K1|K2: data is 0x80-padded, processed in
// 8-byte blocks under single-DES-CBC with K1, and the final block is run
// through a DES decrypt under K2 followed by a DES encrypt under K1.
// The output is always 8 bytes.
func RetailMAC(key, data []byte) ([]byte, error) {
	if len(key) != MACKeyLen {
		return nil, fmt.Errorf("crypto: retail MAC key must be %d bytes, got %d", MACKeyLen, len(key))
	}

	k1 := key[:8]
	k2 := key[8:16]

	padded := Pad(data)

	h := make([]byte, BlockSize)
	for off := 0; off < len(padded); off += BlockSize {
		block := padded[off : off+BlockSize]
		xored := make([]byte, BlockSize)
		for i := range xored {
			xored[i] = block[i] ^ h[i]
		}
		enc, err := DESEncryptCBC(k1, xored)
		if err != nil {
			return nil, fmt.Errorf("crypto: retail MAC chaining step: %w", err)
		}
		h = enc
	}

	decrypted, err := DESDecryptCBC(k2, h)
	if err != nil {
		return nil, fmt.Errorf("crypto: retail MAC final decrypt: %w", err)
	}
	final, err := DESEncryptCBC(k1, decrypted)
	if err != nil {
		return nil, fmt.Errorf("crypto: retail MAC final encrypt: %w", err)
	}

	return final, nil
}
