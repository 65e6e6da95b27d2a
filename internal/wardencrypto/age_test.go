package wardencrypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt(t *testing.T) {
	t.Parallel()
	plaintext := []byte("twelve words of secret material")

	ciphertext, err := Encrypt(plaintext, "correct horse battery staple")
	require.NoError(t, err)
	assert.NotContains(t, string(ciphertext), string(plaintext))

	decrypted, err := Decrypt(ciphertext, "correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestDecrypt_WrongPassword(t *testing.T) {
	t.Parallel()
	ciphertext, err := Encrypt([]byte("secret"), "right")
	require.NoError(t, err)

	_, err = Decrypt(ciphertext, "wrong")
	require.Error(t, err)
}

func TestDecrypt_Corrupted(t *testing.T) {
	t.Parallel()
	_, err := Decrypt([]byte("not an age file"), "password")
	require.Error(t, err)
}

func TestRandomBytes(t *testing.T) {
	t.Parallel()
	a, err := RandomBytes(16)
	require.NoError(t, err)
	require.Len(t, a, 16)

	b, err := RandomBytes(16)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
