package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oakhall/depot/internal/session/domain"
	"github.com/oakhall/depot/internal/session/store"
)

// faultStore fails every operation with a fixed error, standing in for an
// unreachable or timed-out backing store.
type faultStore struct{ err error }

func (f *faultStore) Sessions() store.Sessions { return faultSessions{f.err} }
func (f *faultStore) Refresh() store.RefreshRecords { return faultRefresh{f.err} }
func (f *faultStore) Blacklist() store.Blacklist { return faultBlacklist{f.err} }
func (f *faultStore) Ping(context.Context) error { return f.err }
func (f *faultStore) Close() error { return nil }

type faultSessions struct{ err error }

func (s faultSessions) Put(context.Context, string, domain.SessionRecord, time.Duration) error {
	return s.err
}

func (s faultSessions) Get(context.Context, string) (domain.SessionRecord, error) {
	return domain.SessionRecord{}, s.err
}

func (s faultSessions) Delete(context.Context, string) error { return s.err }

type faultRefresh struct{ err error }

func (r faultRefresh) Put(context.Context, string, domain.RefreshRecord, time.Duration) error {
	return r.err
}

func (r faultRefresh) Take(context.Context, string) (domain.RefreshRecord, error) {
	return domain.RefreshRecord{}, r.err
}

type faultBlacklist struct{ err error }

func (b faultBlacklist) Add(context.Context, string, string, time.Duration) error { return b.err }

func (b faultBlacklist) Contains(context.Context, string) (bool, error) { return false, b.err }

var errStoreDown = errors.New("dial tcp 10.0.0.9:6379: i/o timeout")

func TestValidateStoreFaultFailsClosed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestService(t, time.Minute, nil)
	pair, err := svc.Issue(ctx, 42, "alice", []string{"USER"}, deviceA)
	require.NoError(t, err)

	// The store drops out after issuance. A token that would otherwise
	// pass must be rejected, never implicitly accepted.
	svc.Store = &faultStore{err: errStoreDown}

	_, err = svc.Validate(ctx, pair.AccessToken, deviceA)
	require.ErrorIs(t, err, ErrStoreUnavailable)
	require.NotErrorIs(t, err, ErrSessionExpired)
}

func TestRefreshStoreFaultFailsClosed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestService(t, time.Minute, nil)
	pair, err := svc.Issue(ctx, 42, "alice", []string{"USER"}, deviceA)
	require.NoError(t, err)

	svc.Store = &faultStore{err: errStoreDown}

	_, err = svc.Refresh(ctx, pair.RefreshToken, deviceA)
	require.ErrorIs(t, err, ErrStoreUnavailable)
	require.NotErrorIs(t, err, ErrRefreshReused)
}

func TestIssueStoreFault(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestService(t, time.Minute, nil)
	svc.Store = &faultStore{err: errStoreDown}

	pair, err := svc.Issue(ctx, 42, "alice", []string{"USER"}, deviceA)
	require.ErrorIs(t, err, ErrIssuanceFailed)
	require.Empty(t, pair.AccessToken)
	require.Empty(t, pair.RefreshToken)
}

func TestStripBearerPrefix(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"scheme and token", "Bearer abc123", "abc123"},
		{"bare token", "abc123", "abc123"},
		{"surrounding whitespace", "  Bearer abc123  ", "abc123"},
		{"token starting with scheme letters", "Bearer12abc", "Bearer12abc"},
		{"scheme only", "Bearer ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, stripBearerPrefix(tc.in))
		})
	}
}
