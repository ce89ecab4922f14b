package redis

import (
	"context"
	"time"
)

type blacklistRepo struct {
	s *Store
}

func (r *blacklistRepo) Add(ctx context.Context, tokenID, reason string, ttl time.Duration) error {
	ctx, cancel := r.s.opCtx(ctx)
	defer cancel()
	return r.s.client.Set(ctx, blacklistKeyPrefix+tokenID, reason, ttl).Err()
}

func (r *blacklistRepo) Contains(ctx context.Context, tokenID string) (bool, error) {
	ctx, cancel := r.s.opCtx(ctx)
	defer cancel()

	n, err := r.s.client.Exists(ctx, blacklistKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
