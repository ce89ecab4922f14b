package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/oakhall/depot/internal/session/domain"
	"github.com/oakhall/depot/internal/session/store"
	"github.com/oakhall/depot/pkg/fingerprint"
	"github.com/oakhall/depot/pkg/slogx"
)

// Refresh consumes a single-use refresh envelope and mints a fresh
// access/refresh pair bound to the presenting device. The refresh record
// is removed from the store atomically with the read, so two concurrent
// presentations of the same envelope can never both succeed. Authorities
// are re-resolved from the role source rather than carried over, so a
// role change since issuance takes effect on rotation.
func (s *TokenService) Refresh(
	ctx context.Context,
	rawRefreshToken string,
	meta fingerprint.Metadata,
) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	token := stripBearerPrefix(rawRefreshToken)
	if token == "" {
		return domain.TokenPair{}, ErrMalformed
	}

	refreshID, err := s.Cipher.Decrypt(token)
	if err != nil {
		return domain.TokenPair{}, ErrMalformed
	}

	rec, err := s.Store.Refresh().Take(ctx, refreshID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.TokenPair{}, ErrRefreshReused
	} else if err != nil {
		return domain.TokenPair{}, storeFault("take refresh record", err)
	}

	authorities, err := s.Roles.RolesForUser(ctx, rec.UserID)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("%w: resolve roles: %v", ErrIssuanceFailed, err)
	}

	pair, err := s.Issue(ctx, rec.UserID, rec.Username, authorities, meta)
	if err != nil {
		return domain.TokenPair{}, err
	}

	l.Info("session rotated", "user_id", rec.UserID)
	return pair, nil
}
