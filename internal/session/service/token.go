// Package service orchestrates the session-token protocol: issuance of
// encrypted device-bound tokens, validation with theft detection, one-time
// refresh rotation and revocation.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oakhall/depot/internal/session/domain"
	"github.com/oakhall/depot/internal/session/store"
	"github.com/oakhall/depot/pkg/envelope"
	"github.com/oakhall/depot/pkg/fingerprint"
	"github.com/oakhall/depot/pkg/jwtx"
	"github.com/oakhall/depot/pkg/slogx"
)

// Expected rejection outcomes. The caller (an authentication middleware or
// controller) decides the HTTP-level response; none of these are
// infrastructure faults.
var (
	ErrMalformed      = errors.New("malformed_token")
	ErrBadSignature   = errors.New("bad_signature")
	ErrExpired        = errors.New("token_expired")
	ErrSessionExpired = errors.New("session_expired_or_missing")
	ErrTheftDetected  = errors.New("token_theft_detected")
	ErrRevoked        = errors.New("token_revoked")
	ErrRefreshReused  = errors.New("refresh_expired_or_reused")
)

// Infrastructure faults. There is no safe degraded behaviour for either:
// a token is never issued without a backing session, and validation never
// passes without consulting the store.
var (
	ErrStoreUnavailable = errors.New("store_unavailable")
	ErrIssuanceFailed   = errors.New("issuance_failed")
)

const (
	// envelopeDelimiter separates the signed token from the session id
	// inside the encrypted payload.
	envelopeDelimiter = "###"

	// legacyDelimiter is accepted on decode for tokens issued before the
	// delimiter change. Decode-only; new issuances always use
	// envelopeDelimiter.
	legacyDelimiter = ":"

	// sessionGrace keeps the session record alive slightly past the access
	// token so the store-level check never expires first under clock skew.
	sessionGrace = 300 * time.Second

	// refreshTTLFactor scales the access TTL into the refresh TTL.
	refreshTTLFactor = 10

	// theftBlacklistTTL blocks a stolen token's id well past its nominal
	// expiry, covering replay with a forged expiry claim.
	theftBlacklistTTL = 30 * 24 * time.Hour

	bearerPrefix = "Bearer"
)

// RoleSource resolves the current role set for a user. It is backed by the
// platform's user directory, which lives outside this subsystem; rotation
// consults it so a refreshed token carries up-to-date authorities.
type RoleSource interface {
	RolesForUser(ctx context.Context, userID int64) ([]string, error)
}

// TokenService implements the secure session-token protocol. All fields
// are set once at wiring time and never reassigned afterwards.
type TokenService struct {
	Store  store.Store
	Codec  *jwtx.Codec
	Cipher *envelope.Cipher
	Roles  RoleSource

	// AccessTTL is the access token validity window. Refresh TTL and
	// session TTL are derived from it.
	AccessTTL time.Duration
}

// Issue mints a device-bound access/refresh envelope pair and registers
// the backing session. A store-write failure aborts the whole issuance;
// the caller never receives an envelope without a live session record.
func (s *TokenService) Issue(
	ctx context.Context,
	userID int64,
	username string,
	authorities []string,
	meta fingerprint.Metadata,
) (domain.TokenPair, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	// 1. Bind to the requesting device.
	fp := fingerprint.Derive(meta)

	// 2. Build and sign the claims token.
	claims := jwtx.NewAccessClaims(username, userID, authorities, fp, s.AccessTTL, now)
	signed, err := s.Codec.Sign(claims)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("%w: sign claims: %v", ErrIssuanceFailed, err)
	}

	// 3. Register the session for the token's validity plus grace.
	sessionID := uuid.NewString()
	rec := domain.SessionRecord{
		UserID:            userID,
		DeviceFingerprint: fp,
		CreatedAt:         now,
		LastActivityAt:    now,
	}
	if err := s.Store.Sessions().Put(ctx, sessionID, rec, s.AccessTTL+sessionGrace); err != nil {
		return domain.TokenPair{}, fmt.Errorf("%w: write session: %v", ErrIssuanceFailed, err)
	}

	// 4. Seal signed token and session id into the access envelope.
	accessEnvelope, err := s.Cipher.Encrypt(signed + envelopeDelimiter + sessionID)
	if err != nil {
		s.discardSession(ctx, sessionID)
		return domain.TokenPair{}, fmt.Errorf("%w: seal access envelope: %v", ErrIssuanceFailed, err)
	}

	// 5. Register the single-use refresh record.
	refreshID := uuid.NewString()
	refreshRec := domain.RefreshRecord{UserID: userID, Username: username}
	refreshTTL := time.Duration(refreshTTLFactor) * s.AccessTTL
	if err := s.Store.Refresh().Put(ctx, refreshID, refreshRec, refreshTTL); err != nil {
		s.discardSession(ctx, sessionID)
		return domain.TokenPair{}, fmt.Errorf("%w: write refresh record: %v", ErrIssuanceFailed, err)
	}

	// 6. The refresh envelope wraps the bare record id.
	refreshEnvelope, err := s.Cipher.Encrypt(refreshID)
	if err != nil {
		s.discardSession(ctx, sessionID)
		return domain.TokenPair{}, fmt.Errorf("%w: seal refresh envelope: %v", ErrIssuanceFailed, err)
	}

	l.Info("session issued",
		"user_id", userID,
		"session_id", sessionID,
		"token_id", claims.ID,
	)

	return domain.TokenPair{
		AccessToken:  accessEnvelope,
		RefreshToken: refreshEnvelope,
		ExpiresIn:    s.AccessTTL,
	}, nil
}

// discardSession removes a session written during an issuance that failed
// part-way, so no session outlives an envelope that was never returned.
func (s *TokenService) discardSession(ctx context.Context, sessionID string) {
	if err := s.Store.Sessions().Delete(ctx, sessionID); err != nil {
		slogx.FromContext(ctx).Error("failed to discard session after aborted issuance",
			"session_id", sessionID, "error", err)
	}
}

// stripBearerPrefix tolerates both "Bearer <envelope>" and a bare envelope.
// The scheme must be followed by a space; a bare envelope whose base64 text
// happens to start with the letters "Bearer" passes through untouched.
func stripBearerPrefix(token string) string {
	token = strings.TrimSpace(token)
	if strings.HasPrefix(token, bearerPrefix+" ") {
		return strings.TrimSpace(token[len(bearerPrefix)+1:])
	}
	return token
}

// splitEnvelopePayload separates the signed token from the session id.
// Exactly two parts are required. Payloads from before the delimiter
// change used ":"; since the signed token itself never contains a colon
// the last segment is the session id and the rest is rejoined.
func splitEnvelopePayload(plaintext string) (signedToken, sessionID string, err error) {
	if parts := strings.Split(plaintext, envelopeDelimiter); len(parts) == 2 {
		return parts[0], parts[1], nil
	} else if len(parts) > 2 {
		return "", "", ErrMalformed
	}

	legacy := strings.Split(plaintext, legacyDelimiter)
	if len(legacy) < 2 {
		return "", "", ErrMalformed
	}
	return strings.Join(legacy[:len(legacy)-1], legacyDelimiter), legacy[len(legacy)-1], nil
}

// storeFault tags an infrastructure error from the TTL store. Timeouts and
// connection failures land here; they are never treated as a pass.
func storeFault(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}
