package crypto

import (
	"crypto/cipher"
	"crypto/des"
	"fmt"
)

// TDESKeyLen is the length of a 2-key (K1|K2) 3DES-EDE key as used on the
// wire and in the MRZ-derived session keys; it is expanded to 24 bytes
// (K1|K2|K1) before being handed to crypto/des.
const TDESKeyLen = 16

// expandTripleDESKey turns a 16-byte 2-key into the 24-byte keying option 2
// form (K1|K2|K1) crypto/des.NewTripleDESCipher expects.
func expandTripleDESKey(key []byte) ([]byte, error) {
	if len(key) != TDESKeyLen {
		return nil, fmt.Errorf("crypto: 3DES key must be %d bytes, got %d", TDESKeyLen, len(key))
	}

	expanded := make([]byte, 24)
	copy(expanded, key)
	copy(expanded[16:], key[:8])

	return expanded, nil
}

// TDESEncryptCBC encrypts block-aligned input with 2-key 3DES-EDE-CBC under
// a zero IV. No padding is applied; inputs must already be block-aligned.
func TDESEncryptCBC(key, input []byte) ([]byte, error) {
	expanded, err := expandTripleDESKey(key)
	if err != nil {
		return nil, err
	}
	if len(input)%BlockSize != 0 {
		return nil, fmt.Errorf("crypto: 3DES-CBC input length %d not a multiple of %d", len(input), BlockSize)
	}

	block, err := des.NewTripleDESCipher(expanded)
	if err != nil {
		return nil, fmt.Errorf("crypto: des.NewTripleDESCipher: %w", err)
	}

	out := make([]byte, len(input))
	cipher.NewCBCEncrypter(block, ZeroIV).CryptBlocks(out, input)

	return out, nil
}

// TDESDecryptCBC decrypts block-aligned input with 2-key 3DES-EDE-CBC under
// a zero IV.
func TDESDecryptCBC(key, input []byte) ([]byte, error) {
	expanded, err := expandTripleDESKey(key)
	if err != nil {
		return nil, err
	}
	if len(input)%BlockSize != 0 {
		return nil, fmt.Errorf("crypto: 3DES-CBC input length %d not a multiple of %d", len(input), BlockSize)
	}

	block, err := des.NewTripleDESCipher(expanded)
	if err != nil {
		return nil, fmt.Errorf("crypto: des.NewTripleDESCipher: %w", err)
	}

	out := make([]byte, len(input))
	cipher.NewCBCDecrypter(block, ZeroIV).CryptBlocks(out, input)

	return out, nil
}

// TDESEncryptPad pads input per ISO/IEC 9797-1 then encrypts it with
// 2-key 3DES-EDE-CBC.
func TDESEncryptPad(key, input []byte) ([]byte, error) {
	return TDESEncryptCBC(key, Pad(input))
}

// TDESDecryptUnpad decrypts input with 2-key 3DES-EDE-CBC then strips the
// ISO/IEC 9797-1 padding.
func TDESDecryptUnpad(key, input []byte) ([]byte, error) {
	plain, err := TDESDecryptCBC(key, input)
	if err != nil {
		return nil, err
	}

	return Unpad(plain)
}
