// Package cipher is the symmetric-cipher pre/post-processing stage the
// codec façade composes around the Huffman/word-graph core: it is an
// external collaborator to the CORE encoding scheme (the Han-character
// encoding itself carries no cryptographic secrecy), but the façade
// still needs a concrete implementation to offer EncodeCipher/
// DecodeCipher, so it lives here rather than in package zencoder.
package cipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"

	"github.com/pkg/errors"
)

// IVSize is the AES-CBC initialization vector length the façade
// prepends to every ciphertext.
const IVSize = aes.BlockSize

// ErrShortCiphertext is returned by Decrypt when the input is too short
// to contain even an IV.
var ErrShortCiphertext = errors.New("cipher: ciphertext shorter than one IV")

// Encrypt generates a random IV, AES-CBC-encrypts plaintext under key,
// and returns IV||ciphertext. plaintext is PKCS#7 padded to the block
// size before encryption.
func Encrypt(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "cipher: creating AES cipher")
	}

	padded := pkcs7Pad(plaintext, block.BlockSize())
	out := make([]byte, IVSize+len(padded))
	iv := out[:IVSize]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, errors.Wrap(err, "cipher: generating IV")
	}

	mode := cipher.NewCBCEncrypter(block, iv)
	mode.CryptBlocks(out[IVSize:], padded)
	return out, nil
}

// Decrypt splits the leading IV off data, AES-CBC-decrypts the
// remainder under key, and strips the PKCS#7 padding.
func Decrypt(data, key []byte) ([]byte, error) {
	if len(data) < IVSize {
		return nil, ErrShortCiphertext
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "cipher: creating AES cipher")
	}

	iv, ciphertext := data[:IVSize], data[IVSize:]
	if len(ciphertext)%block.BlockSize() != 0 {
		return nil, errors.New("cipher: ciphertext is not a multiple of the block size")
	}

	plaintext := make([]byte, len(ciphertext))
	mode := cipher.NewCBCDecrypter(block, iv)
	mode.CryptBlocks(plaintext, ciphertext)

	return pkcs7Unpad(plaintext)
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	padLen := blockSize - len(b)%blockSize
	padding := make([]byte, padLen)
	for i := range padding {
		padding[i] = byte(padLen)
	}
	return append(append([]byte{}, b...), padding...)
}

func pkcs7Unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, errors.New("cipher: cannot unpad empty plaintext")
	}
	padLen := int(b[len(b)-1])
	if padLen == 0 || padLen > len(b) {
		return nil, errors.New("cipher: invalid PKCS#7 padding")
	}
	for _, p := range b[len(b)-padLen:] {
		if int(p) != padLen {
			return nil, errors.New("cipher: invalid PKCS#7 padding")
		}
	}
	return b[:len(b)-padLen], nil
}
