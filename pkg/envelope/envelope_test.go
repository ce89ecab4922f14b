package envelope

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := New("")
		require.Error(t, err)
	})

	t.Run("same secret gives interoperable ciphers", func(t *testing.T) {
		a, err := New("shared-secret")
		require.NoError(t, err)
		b, err := New("shared-secret")
		require.NoError(t, err)

		sealed, err := a.Encrypt("hello")
		require.NoError(t, err)

		opened, err := b.Decrypt(sealed)
		require.NoError(t, err)
		require.Equal(t, "hello", opened)
	})
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	c, err := New("test-secret")
	require.NoError(t, err)

	for _, plaintext := range []string{
		"",
		"x",
		"header.payload.signature###01J8ZD8Y1B2C3D4E5F6G7H8J9K",
		"unicode: äöü 漢字",
	} {
		sealed, err := c.Encrypt(plaintext)
		require.NoError(t, err)

		opened, err := c.Decrypt(sealed)
		require.NoError(t, err)
		require.Equal(t, plaintext, opened)
	}
}

func TestEncryptIsRandomized(t *testing.T) {
	t.Parallel()

	c, err := New("test-secret")
	require.NoError(t, err)

	a, err := c.Encrypt("same plaintext")
	require.NoError(t, err)
	b, err := c.Encrypt("same plaintext")
	require.NoError(t, err)

	// Fresh nonce per call means distinct envelopes for equal plaintexts.
	require.NotEqual(t, a, b)
}

func TestTamperRejection(t *testing.T) {
	t.Parallel()

	c, err := New("test-secret")
	require.NoError(t, err)

	sealed, err := c.Encrypt("sensitive session payload")
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	require.NoError(t, err)

	t.Run("single bit flips fail everywhere", func(t *testing.T) {
		for i := range raw {
			mutated := make([]byte, len(raw))
			copy(mutated, raw)
			mutated[i] ^= 0x01

			_, err := c.Decrypt(base64.RawURLEncoding.EncodeToString(mutated))
			require.ErrorIs(t, err, ErrAuthenticationFailed, "byte %d", i)
		}
	})

	t.Run("truncation fails", func(t *testing.T) {
		_, err := c.Decrypt(base64.RawURLEncoding.EncodeToString(raw[:len(raw)-1]))
		require.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("wrong key fails", func(t *testing.T) {
		other, err := New("different-secret")
		require.NoError(t, err)

		_, err = other.Decrypt(sealed)
		require.ErrorIs(t, err, ErrAuthenticationFailed)
	})
}

func TestDecryptFormatErrors(t *testing.T) {
	t.Parallel()

	c, err := New("test-secret")
	require.NoError(t, err)

	t.Run("empty input", func(t *testing.T) {
		_, err := c.Decrypt("")
		require.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("not base64", func(t *testing.T) {
		_, err := c.Decrypt("!!! definitely not base64 !!!")
		require.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("shorter than a nonce", func(t *testing.T) {
		short := base64.RawURLEncoding.EncodeToString([]byte{1, 2, 3})
		_, err := c.Decrypt(short)
		require.ErrorIs(t, err, ErrInvalidFormat)
	})
}

func TestDecryptToleratesLegacyEncodings(t *testing.T) {
	t.Parallel()

	c, err := New("test-secret")
	require.NoError(t, err)

	sealed, err := c.Encrypt("legacy-compat payload +//+")
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	require.NoError(t, err)

	t.Run("padded standard alphabet", func(t *testing.T) {
		opened, err := c.Decrypt(base64.StdEncoding.EncodeToString(raw))
		require.NoError(t, err)
		require.Equal(t, "legacy-compat payload +//+", opened)
	})

	t.Run("padded url alphabet", func(t *testing.T) {
		opened, err := c.Decrypt(base64.URLEncoding.EncodeToString(raw))
		require.NoError(t, err)
		require.Equal(t, "legacy-compat payload +//+", opened)
	})
}
