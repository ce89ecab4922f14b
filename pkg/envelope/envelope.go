// Package envelope implements the authenticated-encryption wrapper that
// turns an arbitrary plaintext into the opaque bearer-token text the
// platform hands to clients, and back.
//
// Wire format: base64url (no padding) of nonce(12B) || AES-256-GCM
// ciphertext (including the 16B auth tag). Decoding tolerates the padded
// and standard-alphabet base64 variants produced by older issuances.
package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrInvalidFormat reports input that is not a decodable envelope
	// (bad base64, or shorter than a nonce).
	ErrInvalidFormat = errors.New("envelope: invalid format")

	// ErrAuthenticationFailed reports a GCM tag mismatch. Any bit flip or
	// truncation of a valid envelope lands here, never in garbage plaintext.
	ErrAuthenticationFailed = errors.New("envelope: authentication failed")
)

// Cipher seals and opens envelopes with a key derived once at construction.
// The key is never reassigned after New returns; share one Cipher across
// goroutines freely.
type Cipher struct {
	aead cipher.AEAD
}

// New derives a 32-byte AES-256 key from the server secret via SHA-256 and
// returns a ready Cipher. The secret itself is not retained.
func New(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, errors.New("envelope: empty secret")
	}

	key := sha256.Sum256([]byte(secret))

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("envelope: create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("envelope: create GCM: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random 96-bit nonce and returns the
// URL-safe text form.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("envelope: generate nonce: %w", err)
	}

	// Seal appends ciphertext+tag to the nonce slice, giving nonce||ct||tag.
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. The GCM tag check is never skipped.
func (c *Cipher) Decrypt(envelopeText string) (string, error) {
	raw, err := decodeText(envelopeText)
	if err != nil {
		return "", err
	}

	nonceSize := c.aead.NonceSize()
	if len(raw) < nonceSize {
		return "", ErrInvalidFormat
	}

	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrAuthenticationFailed
	}

	return string(plaintext), nil
}

// decodeText normalizes older issuances that used the standard alphabet or
// carried padding, then decodes as raw base64url.
func decodeText(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidFormat
	}

	s = strings.TrimRight(s, "=")
	s = strings.ReplaceAll(s, "+", "-")
	s = strings.ReplaceAll(s, "/", "_")

	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	return raw, nil
}
