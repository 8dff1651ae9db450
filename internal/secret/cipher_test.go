package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCipherRoundTrip(t *testing.T) {
	c, err := NewCipher("test-passphrase")
	require.NoError(t, err)

	plaintext := "sk-live-very-secret"
	ciphertext, err := c.Encrypt(plaintext)
	require.NoError(t, err)

	assert.NotEqual(t, plaintext, ciphertext)
	assert.True(t, c.IsEncrypted(ciphertext))

	decrypted, err := c.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestCipherDifferentCiphertextPerCall(t *testing.T) {
	c, err := NewCipher("passphrase")
	require.NoError(t, err)

	c1, err := c.Encrypt("same input")
	require.NoError(t, err)
	c2, err := c.Encrypt("same input")
	require.NoError(t, err)

	assert.NotEqual(t, c1, c2)
}

func TestCipherPlaintextPassthrough(t *testing.T) {
	c, err := NewCipher("passphrase")
	require.NoError(t, err)

	plain := "not encrypted at all"
	assert.False(t, c.IsEncrypted(plain))

	got, err := c.Decrypt(plain)
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestCipherWrongPassphraseFails(t *testing.T) {
	c1, err := NewCipher("key-one")
	require.NoError(t, err)
	c2, err := NewCipher("key-two")
	require.NoError(t, err)

	ciphertext, err := c1.Encrypt("secret")
	require.NoError(t, err)

	_, err = c2.Decrypt(ciphertext)
	assert.Error(t, err)
}

func TestCipherEmptyPassphrase(t *testing.T) {
	_, err := NewCipher("")
	assert.ErrorIs(t, err, ErrEmptyPassphrase)
}

func TestCipherTruncatedCiphertext(t *testing.T) {
	c, err := NewCipher("passphrase")
	require.NoError(t, err)

	_, err = c.Decrypt("enc:AAAA")
	assert.Error(t, err)
}
