package crypto

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func testAEADKey() []byte {
	return bytes.Repeat([]byte{0x42}, 32)
}

func TestNewAESGCM_RejectsBadKey(t *testing.T) {
	_, err := NewAESGCM([]byte("short"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidKeySize))
}

func TestSealOpenSecret(t *testing.T) {
	aead, err := NewAESGCM(testAEADKey())
	require.NoError(t, err)

	sealed, err := SealSecret(aead, "hunter2")
	require.NoError(t, err)
	require.NotContains(t, string(sealed), "hunter2")

	opened, err := OpenSecret(aead, sealed)
	require.NoError(t, err)
	require.Equal(t, "hunter2", opened)
}

func TestSealSecret_EmptyStaysEmpty(t *testing.T) {
	aead, err := NewAESGCM(testAEADKey())
	require.NoError(t, err)

	sealed, err := SealSecret(aead, "")
	require.NoError(t, err)
	require.Nil(t, sealed)

	opened, err := OpenSecret(aead, nil)
	require.NoError(t, err)
	require.Equal(t, "", opened)
}

func TestDecrypt_Tampered(t *testing.T) {
	aead, err := NewAESGCM(testAEADKey())
	require.NoError(t, err)

	sealed, err := Encrypt(aead, []byte("secret"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0xff

	_, err = Decrypt(aead, sealed)
	require.True(t, errors.Is(err, ErrAuthenticationFailed))

	_, err = Decrypt(aead, []byte{1, 2})
	require.True(t, errors.Is(err, ErrInvalidCiphertext))
}
