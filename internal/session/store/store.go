// Package store defines the data access interface over the external TTL
// key-value store backing sessions, refresh records and the blacklist.
// Concrete drivers (redis, memory) implement it. The store is the only
// persistence this subsystem has: flushing it logs every user out, an
// accepted trade-off of the design.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/oakhall/depot/internal/session/domain"
)

// ErrNotFound reports a key that is absent or already expired.
var ErrNotFound = errors.New("store: not found")

// Store is the root data access interface, split into the three key
// namespaces the subsystem uses. Correctness across concurrent requests
// depends on the backing store's per-key operation atomicity; no in-process
// locking is layered on top.
type Store interface {
	Sessions() Sessions
	Refresh() RefreshRecords
	Blacklist() Blacklist

	// Ping verifies the store connection is alive.
	Ping(ctx context.Context) error

	// Close releases the underlying client.
	Close() error
}

// Sessions is the active-session region, keyed by session id.
type Sessions interface {
	// Put writes or replaces a record and (re)sets its TTL. Used both at
	// issuance and for the last-activity touch on successful validation;
	// last-writer-wins on the TTL renewal is acceptable.
	Put(ctx context.Context, id string, rec domain.SessionRecord, ttl time.Duration) error

	// Get returns the record or ErrNotFound when missing/expired.
	Get(ctx context.Context, id string) (domain.SessionRecord, error)

	// Delete removes the record. Deleting an absent key is not an error.
	Delete(ctx context.Context, id string) error
}

// RefreshRecords is the active-refresh region, keyed by refresh token id.
type RefreshRecords interface {
	Put(ctx context.Context, id string, rec domain.RefreshRecord, ttl time.Duration) error

	// Take atomically reads and deletes the record (single-use semantics).
	// Two concurrent Takes for the same id must never both succeed; a plain
	// read-then-delete would let one refresh token rotate twice.
	Take(ctx context.Context, id string) (domain.RefreshRecord, error)
}

// Blacklist is the deny-list region, keyed by token id (jti).
type Blacklist interface {
	// Add records a token id with a reason tag for the given TTL.
	Add(ctx context.Context, tokenID, reason string, ttl time.Duration) error

	// Contains reports whether the token id is currently denied.
	Contains(ctx context.Context, tokenID string) (bool, error)
}
