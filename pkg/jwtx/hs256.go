package jwtx

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Codec signs and verifies claims tokens with a server-held HS256 secret.
// The secret is fixed at construction and never reassigned; a single Codec
// is safe for concurrent use.
type Codec struct {
	secret []byte
}

// NewCodec wraps the signing secret. The secret is required: an empty MAC
// key would make every token forgeable.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("jwtx: empty signing secret")
	}
	return &Codec{secret: []byte(secret)}, nil
}

// Sign serializes claims into the compact three-part form.
func (c *Codec) Sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks structure, MAC and expiry, in that order, and returns the
// decoded claims. Callers dispatch on ErrMalformed, ErrInvalidSig and
// ErrExpired.
func (c *Codec) Verify(token string) (Claims, error) {
	// Reject early unless the token has exactly three dot-separated
	// segments; no point running MAC verification on noise.
	if strings.Count(token, ".") != 2 {
		return Claims{}, ErrMalformed
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSig
		}
		return c.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrInvalidSig):
			return Claims{}, ErrInvalidSig
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, ErrMalformed
		default:
			return Claims{}, ErrInvalidClaim
		}
	}

	return claims, nil
}

// ExtractUnverified decodes the payload without checking the MAC or expiry.
// Used where the token id is needed from a token that is already known to
// be suspect, such as blacklisting on theft detection. Never trust these
// claims for authorization.
func (c *Codec) ExtractUnverified(token string) (Claims, error) {
	if strings.Count(token, ".") != 2 {
		return Claims{}, ErrMalformed
	}

	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Claims{}, ErrMalformed
	}
	return claims, nil
}
