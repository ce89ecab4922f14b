package service

import (
	"context"
	"time"

	"github.com/oakhall/depot/internal/session/domain"
	"github.com/oakhall/depot/pkg/slogx"
)

// minBlacklistTTL keeps a revoked token id on the blacklist for at least
// one tick even when the token has already expired, so revocation of an
// expired token is still observable.
const minBlacklistTTL = 1 * time.Second

// Revoke terminates the session behind an access envelope and blacklists
// the token id for the remainder of its validity. Claims are decoded
// without signature verification so an expired or even tampered token can
// still be revoked; the operation is idempotent, revoking an already
// revoked token succeeds again.
func (s *TokenService) Revoke(ctx context.Context, rawToken string) error {
	l := slogx.FromContext(ctx)

	signed, sessionID, err := s.openAccessEnvelope(rawToken)
	if err != nil {
		return err
	}

	if err := s.Store.Sessions().Delete(ctx, sessionID); err != nil {
		return storeFault("delete session", err)
	}

	claims, err := s.Codec.ExtractUnverified(signed)
	if err != nil || claims.ID == "" {
		// Nothing usable to blacklist; session removal already ends it.
		return nil
	}

	ttl := minBlacklistTTL
	if remaining := claims.Remaining(time.Now()); remaining > ttl {
		ttl = remaining
	}
	if err := s.Store.Blacklist().Add(ctx, claims.ID, domain.BlacklistReasonRevoked, ttl); err != nil {
		return storeFault("blacklist revoked token", err)
	}

	l.Info("session revoked",
		"session_id", sessionID,
		"token_id", claims.ID,
	)
	return nil
}
