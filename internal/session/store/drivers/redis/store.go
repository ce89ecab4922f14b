// Package redis implements the session store against a Redis-compatible
// TTL key-value store using go-redis.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/oakhall/depot/internal/session/store"
)

// Key namespaces. These are part of the external contract: operators and
// other tools inspect the store by these prefixes.
const (
	sessionKeyPrefix   = "active-session:"
	refreshKeyPrefix   = "refresh-session:"
	blacklistKeyPrefix = "blacklist:"
)

// DefaultOpTimeout bounds every store call. A call that cannot complete in
// time fails; validation treats that as a rejection, never as a pass.
const DefaultOpTimeout = 2 * time.Second

// Config for the Redis-backed store.
type Config struct {
	Addr     string
	Password string
	DB       int

	// OpTimeout is the per-operation deadline. Zero means DefaultOpTimeout.
	OpTimeout time.Duration
}

// Store implements store.Store on a Redis client.
type Store struct {
	client  *goredis.Client
	timeout time.Duration
}

// NewStore connects and verifies the connection with a ping.
func NewStore(cfg Config) (*Store, error) {
	timeout := cfg.OpTimeout
	if timeout <= 0 {
		timeout = DefaultOpTimeout
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	s := &Store{client: client, timeout: timeout}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: connect %s: %w", cfg.Addr, err)
	}

	return s, nil
}

func (s *Store) Sessions() store.Sessions      { return &sessionsRepo{s} }
func (s *Store) Refresh() store.RefreshRecords { return &refreshRepo{s} }
func (s *Store) Blacklist() store.Blacklist    { return &blacklistRepo{s} }

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error { return s.client.Close() }

// opCtx bounds a single store operation.
func (s *Store) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}
