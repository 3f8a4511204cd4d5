// Package zencoder is the codec façade: the user-level entry point that
// owns a built Partitioner and composes it with an external AES-CBC
// cipher stage. EncodePlain/DecodePlain are the pure CORE operations;
// EncodeCipher/DecodeCipher additionally encrypt/decrypt the payload
// before/after running it through the Partitioner.
package zencoder

import (
	"github.com/pkg/errors"

	"github.com/abj1210/zencoder/bitstream"
	"github.com/abj1210/zencoder/cipher"
	"github.com/abj1210/zencoder/partition"
)

// ErrDecodeFailed is returned by DecodePlain/DecodeCipher when the input
// text contains a word not recognized by the underlying Partitioner.
var ErrDecodeFailed = errors.New("zencoder: input is not valid encoded text")

// Codec is the façade over a single built Partitioner.
type Codec struct {
	Partitioner *partition.Partitioner
	Rand        partition.Rand
}

// New returns a Codec over an already-built Partitioner, drawing
// randomness for Encode from a fresh system source.
func New(p *partition.Partitioner) *Codec {
	return &Codec{Partitioner: p, Rand: partition.NewSystemRand()}
}

// EncodePlain turns payload bytes into a string of Han characters.
func (c *Codec) EncodePlain(payload []byte) string {
	words := c.Partitioner.Encode(bitstream.FromBytes(payload), c.Rand)
	return string(words)
}

// DecodePlain recovers the payload bytes encoded in text. It returns
// ErrDecodeFailed if text contains a character the Partitioner does not
// recognize.
func (c *Codec) DecodePlain(text string) ([]byte, error) {
	words := []rune(text)
	s := c.Partitioner.Decode(words)
	if s == nil {
		return nil, ErrDecodeFailed
	}
	return s.ToBytes(), nil
}

// EncodeCipher AES-CBC-encrypts payload under key, prepends the
// generated IV to the ciphertext, and runs the result through
// EncodePlain.
func (c *Codec) EncodeCipher(payload, key []byte) (string, error) {
	ciphertext, err := cipher.Encrypt(payload, key)
	if err != nil {
		return "", errors.Wrap(err, "zencoder: encrypting payload")
	}
	return c.EncodePlain(ciphertext), nil
}

// DecodeCipher reverses EncodeCipher: it decodes text to recover
// IV||ciphertext, then AES-CBC-decrypts the remainder under key.
func (c *Codec) DecodeCipher(text string, key []byte) ([]byte, error) {
	raw, err := c.DecodePlain(text)
	if err != nil {
		return nil, err
	}
	plaintext, err := cipher.Decrypt(raw, key)
	if err != nil {
		return nil, errors.Wrap(err, "zencoder: decrypting payload")
	}
	return plaintext, nil
}
