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

type sessionsRepo struct {
	s *Store
}

func (r *sessionsRepo) Put(
	ctx context.Context,
	id string,
	rec domain.SessionRecord,
	ttl time.Duration,
) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("redis: marshal session: %w", err)
	}

	ctx, cancel := r.s.opCtx(ctx)
	defer cancel()
	return r.s.client.Set(ctx, sessionKeyPrefix+id, data, ttl).Err()
}

func (r *sessionsRepo) Get(ctx context.Context, id string) (domain.SessionRecord, error) {
	ctx, cancel := r.s.opCtx(ctx)
	defer cancel()

	val, err := r.s.client.Get(ctx, sessionKeyPrefix+id).Result()
	if errors.Is(err, goredis.Nil) {
		return domain.SessionRecord{}, store.ErrNotFound
	}
	if err != nil {
		return domain.SessionRecord{}, err
	}

	var rec domain.SessionRecord
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return domain.SessionRecord{}, fmt.Errorf("redis: unmarshal session: %w", err)
	}
	return rec, nil
}

func (r *sessionsRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.s.opCtx(ctx)
	defer cancel()
	return r.s.client.Del(ctx, sessionKeyPrefix+id).Err()
}
