package crypto

import (
	"crypto/cipher"
	"crypto/des"
	"fmt"
)

// ZeroIV is the all-zero initialization vector used throughout BAC and
// Secure Messaging; neither protocol ever carries an IV on the wire.
var ZeroIV = make([]byte, BlockSize)

// DESEncryptCBC encrypts block-aligned input with single DES-CBC under an
// 8-byte key and a zero IV. Callers pad beforehand; this function never
// pads or unpads.
func DESEncryptCBC(key, input []byte) ([]byte, error) {
	if len(key) != BlockSize {
		return nil, fmt.Errorf("crypto: DES key must be %d bytes, got %d", BlockSize, len(key))
	}
	if len(input)%BlockSize != 0 {
		return nil, fmt.Errorf("crypto: DES-CBC input length %d not a multiple of %d", len(input), BlockSize)
	}

	block, err := des.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: des.NewCipher: %w", err)
	}

	out := make([]byte, len(input))
	cipher.NewCBCEncrypter(block, ZeroIV).CryptBlocks(out, input)

	return out, nil
}

// DESDecryptCBC decrypts block-aligned input with single DES-CBC under an
// 8-byte key and a zero IV.
func DESDecryptCBC(key, input []byte) ([]byte, error) {
	if len(key) != BlockSize {
		return nil, fmt.Errorf("crypto: DES key must be %d bytes, got %d", BlockSize, len(key))
	}
	if len(input)%BlockSize != 0 {
		return nil, fmt.Errorf("crypto: DES-CBC input length %d not a multiple of %d", len(input), BlockSize)
	}

	block, err := des.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: des.NewCipher: %w", err)
	}

	out := make([]byte, len(input))
	cipher.NewCBCDecrypter(block, ZeroIV).CryptBlocks(out, input)

	return out, nil
}
