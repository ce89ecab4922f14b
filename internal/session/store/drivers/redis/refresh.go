package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/oakhall/depot/internal/session/domain"
	"github.com/oakhall/depot/internal/session/store"
)

type refreshRepo struct {
	s *Store
}

func (r *refreshRepo) Put(
	ctx context.Context,
	id string,
	rec domain.RefreshRecord,
	ttl time.Duration,
) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("redis: marshal refresh record: %w", err)
	}

	ctx, cancel := r.s.opCtx(ctx)
	defer cancel()
	return r.s.client.Set(ctx, refreshKeyPrefix+id, data, ttl).Err()
}

// Take uses GETDEL so read and delete are one atomic server-side command.
// Concurrent rotations of the same refresh token race here and exactly one
// wins; the loser sees ErrNotFound.
func (r *refreshRepo) Take(ctx context.Context, id string) (domain.RefreshRecord, error) {
	ctx, cancel := r.s.opCtx(ctx)
	defer cancel()

	val, err := r.s.client.GetDel(ctx, refreshKeyPrefix+id).Result()
	if errors.Is(err, goredis.Nil) {
		return domain.RefreshRecord{}, store.ErrNotFound
	}
	if err != nil {
		return domain.RefreshRecord{}, err
	}

	var rec domain.RefreshRecord
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return domain.RefreshRecord{}, fmt.Errorf("redis: unmarshal refresh record: %w", err)
	}
	return rec, nil
}
