package cipher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := []byte("0123456789abcdef")
	cases := [][]byte{
		{},
		[]byte("hello"),
		make([]byte, 64),
	}
	for _, pt := range cases {
		ct, err := Encrypt(pt, key)
		require.NoError(t, err)
		assert.True(t, len(ct) >= IVSize)

		got, err := Decrypt(ct, key)
		require.NoError(t, err)
		assert.Equal(t, pt, got)
	}
}

func TestEncryptProducesDistinctIVs(t *testing.T) {
	key := []byte("0123456789abcdef")
	a, err := Encrypt([]byte("same plaintext"), key)
	require.NoError(t, err)
	b, err := Encrypt([]byte("same plaintext"), key)
	require.NoError(t, err)

	assert.NotEqual(t, a[:IVSize], b[:IVSize])
}

func TestDecryptRejectsShortCiphertext(t *testing.T) {
	_, err := Decrypt([]byte{1, 2, 3}, []byte("0123456789abcdef"))
	assert.ErrorIs(t, err, ErrShortCiphertext)
}
