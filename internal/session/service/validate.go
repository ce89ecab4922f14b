package service

import (
	"context"
	"errors"
	"time"

	"github.com/oakhall/depot/internal/session/domain"
	"github.com/oakhall/depot/internal/session/store"
	"github.com/oakhall/depot/pkg/fingerprint"
	"github.com/oakhall/depot/pkg/jwtx"
	"github.com/oakhall/depot/pkg/slogx"
)

// Validate checks an access envelope end to end and returns the verified
// authentication on success. The checks run strictly in order: envelope
// integrity, live session, device binding, claims signature and expiry,
// blacklist. The device binding runs before MAC verification on purpose:
// a replayed envelope from the wrong device is grounds for theft handling
// regardless of what its claims would verify to. A binding mismatch
// destroys the session and blacklists the token id before the caller is
// told.
func (s *TokenService) Validate(
	ctx context.Context,
	rawToken string,
	meta fingerprint.Metadata,
) (domain.Authentication, error) {
	l := slogx.FromContext(ctx)

	signed, sessionID, err := s.openAccessEnvelope(rawToken)
	if err != nil {
		return domain.Authentication{}, err
	}

	rec, err := s.Store.Sessions().Get(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Authentication{}, ErrSessionExpired
	} else if err != nil {
		return domain.Authentication{}, storeFault("get session", err)
	}

	if rec.DeviceFingerprint != fingerprint.Derive(meta) {
		if err := s.quarantineStolenToken(ctx, sessionID, signed); err != nil {
			return domain.Authentication{}, err
		}
		l.Warn("device binding mismatch, session destroyed",
			"user_id", rec.UserID,
			"session_id", sessionID,
		)
		return domain.Authentication{}, ErrTheftDetected
	}

	claims, err := s.verifyClaims(signed)
	if err != nil {
		return domain.Authentication{}, err
	}

	denied, err := s.Store.Blacklist().Contains(ctx, claims.ID)
	if err != nil {
		return domain.Authentication{}, storeFault("check blacklist", err)
	}
	if denied {
		return domain.Authentication{}, ErrRevoked
	}

	// Sliding session: each successful validation renews the record for
	// the token's full window plus grace.
	rec.LastActivityAt = time.Now()
	if err := s.Store.Sessions().Put(ctx, sessionID, rec, s.AccessTTL+sessionGrace); err != nil {
		return domain.Authentication{}, storeFault("touch session", err)
	}

	return domain.Authentication{Claims: claims, SessionID: sessionID}, nil
}

// openAccessEnvelope strips an optional Bearer prefix, decrypts the
// envelope and splits out the signed token and session id. Every envelope
// failure is a malformed token to the caller; decryption cannot tell
// corruption from forgery and there is nothing useful in distinguishing
// them.
func (s *TokenService) openAccessEnvelope(rawToken string) (signed, sessionID string, err error) {
	token := stripBearerPrefix(rawToken)
	if token == "" {
		return "", "", ErrMalformed
	}

	plaintext, err := s.Cipher.Decrypt(token)
	if err != nil {
		return "", "", ErrMalformed
	}

	return splitEnvelopePayload(plaintext)
}

// verifyClaims maps codec failures onto the service error taxonomy.
func (s *TokenService) verifyClaims(signed string) (jwtx.Claims, error) {
	claims, err := s.Codec.Verify(signed)
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwtx.ErrExpired):
		return jwtx.Claims{}, ErrExpired
	case errors.Is(err, jwtx.ErrInvalidSig):
		return jwtx.Claims{}, ErrBadSignature
	default:
		return jwtx.Claims{}, ErrMalformed
	}
}

// quarantineStolenToken destroys the mismatched session and blacklists the
// presented token's id far beyond its nominal lifetime. The token id is
// recovered without signature verification so a forged or expired claim
// set still lands on the blacklist.
func (s *TokenService) quarantineStolenToken(ctx context.Context, sessionID, signed string) error {
	if err := s.Store.Sessions().Delete(ctx, sessionID); err != nil {
		return storeFault("delete stolen session", err)
	}

	claims, err := s.Codec.ExtractUnverified(signed)
	if err != nil || claims.ID == "" {
		// No usable token id; the destroyed session already blocks reuse.
		return nil
	}
	if err := s.Store.Blacklist().Add(ctx, claims.ID, domain.BlacklistReasonStolen, theftBlacklistTTL); err != nil {
		return storeFault("blacklist stolen token", err)
	}
	return nil
}
