package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/oakhall/depot/internal/session/domain"
	"github.com/oakhall/depot/internal/session/store"
)

// startRedis runs a disposable Redis container and returns a connected
// Store. Requires a local Docker daemon; skipped in -short runs.
func startRedis(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed store test in short mode")
	}

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	s, err := NewStore(Config{Addr: endpoint})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestRedisStore(t *testing.T) {
	s := startRedis(t)
	ctx := context.Background()

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, s.Ping(ctx))
	})

	t.Run("session round trip with ttl", func(t *testing.T) {
		rec := domain.SessionRecord{
			UserID:            42,
			DeviceFingerprint: "fp-device-a",
			CreatedAt:         time.Now().UTC().Truncate(time.Second),
			LastActivityAt:    time.Now().UTC().Truncate(time.Second),
		}
		require.NoError(t, s.Sessions().Put(ctx, "sid-1", rec, time.Minute))

		got, err := s.Sessions().Get(ctx, "sid-1")
		require.NoError(t, err)
		require.Equal(t, rec.UserID, got.UserID)
		require.Equal(t, rec.DeviceFingerprint, got.DeviceFingerprint)

		require.NoError(t, s.Sessions().Delete(ctx, "sid-1"))
		_, err = s.Sessions().Get(ctx, "sid-1")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("session expires with key ttl", func(t *testing.T) {
		require.NoError(t, s.Sessions().Put(ctx, "sid-ttl", domain.SessionRecord{UserID: 1}, time.Second))

		_, err := s.Sessions().Get(ctx, "sid-ttl")
		require.NoError(t, err)

		time.Sleep(1500 * time.Millisecond)
		_, err = s.Sessions().Get(ctx, "sid-ttl")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("refresh take is atomic and single use", func(t *testing.T) {
		rec := domain.RefreshRecord{UserID: 42, Username: "alice"}
		require.NoError(t, s.Refresh().Put(ctx, "rid-1", rec, time.Minute))

		got, err := s.Refresh().Take(ctx, "rid-1")
		require.NoError(t, err)
		require.Equal(t, rec, got)

		_, err = s.Refresh().Take(ctx, "rid-1")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("blacklist add and contains", func(t *testing.T) {
		hit, err := s.Blacklist().Contains(ctx, "jti-1")
		require.NoError(t, err)
		require.False(t, hit)

		require.NoError(t, s.Blacklist().Add(ctx, "jti-1", domain.BlacklistReasonStolen, time.Minute))

		hit, err = s.Blacklist().Contains(ctx, "jti-1")
		require.NoError(t, err)
		require.True(t, hit)
	})
}
