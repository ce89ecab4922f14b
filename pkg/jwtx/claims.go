// Package jwtx builds and parses the signed claims token carried inside the
// encrypted envelope. Tokens use the standard three-part compact form
// (header.payload.signature) with a symmetric HS256 MAC.
package jwtx

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// Claims are the signed facts consumed by callers after validation.
// Immutable once signed; the validator never mutates them.
type Claims struct {
	jwt.RegisteredClaims

	// UserID is the numeric account id.
	UserID int64 `json:"userId,omitempty"`

	// Authorities are the role strings granted to the subject. This
	// subsystem passes them through without interpreting them.
	Authorities RoleList `json:"authorities,omitempty"`

	// Fingerprint binds the token to the device that obtained it.
	Fingerprint string `json:"fingerprint,omitempty"`
}

// NewAccessClaims builds minimally-correct claims for an access token.
// The jti is a fresh random UUID.
func NewAccessClaims(
	username string,
	userID int64,
	authorities []string,
	deviceFingerprint string,
	ttl time.Duration,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		UserID:      userID,
		Authorities: RoleList(authorities),
		Fingerprint: deviceFingerprint,
	}
}

// Remaining reports how long the claims stay valid from now. Zero or
// negative means already expired.
func (c *Claims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Time.Sub(now)
}

// RoleList is the canonical encoding for authorities: a JSON array of
// strings. Historically payloads also carried the list as a JSON-encoded
// string or a bracketed comma-joined string; decoding accepts those forms.
//
// Deprecated string forms exist only for tokens signed before the encoding
// was unified. New signing always emits the array form.
type RoleList []string

func (r *RoleList) UnmarshalJSON(data []byte) error {
	// Canonical form: a native JSON array.
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*r = list
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidClaim
	}

	// Legacy form 1: a JSON array serialized into a string.
	if err := json.Unmarshal([]byte(s), &list); err == nil {
		*r = list
		return nil
	}

	// Legacy form 2: "[ROLE_A, ROLE_B]", brackets around a comma join.
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if s == "" {
		*r = RoleList{}
		return nil
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"`)
		if p != "" {
			out = append(out, p)
		}
	}
	*r = out
	return nil
}
