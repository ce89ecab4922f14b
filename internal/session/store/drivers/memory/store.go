// Package memory implements the session store as an in-process TTL map.
// It exists for development without a Redis instance and for tests;
// nothing survives a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oakhall/depot/internal/session/domain"
	"github.com/oakhall/depot/internal/session/store"
)

type entry struct {
	reason    string
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// Store implements store.Store on a mutex-guarded map. Expired entries are
// dropped lazily on access.
type Store struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry
	refresh  map[string]refreshEntry
	denied   map[string]entry
}

type sessionEntry struct {
	rec       domain.SessionRecord
	expiresAt time.Time
}

type refreshEntry struct {
	rec       domain.RefreshRecord
	expiresAt time.Time
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]sessionEntry),
		refresh:  make(map[string]refreshEntry),
		denied:   make(map[string]entry),
	}
}

func (s *Store) Sessions() store.Sessions      { return &sessionsRepo{s} }
func (s *Store) Refresh() store.RefreshRecords { return &refreshRepo{s} }
func (s *Store) Blacklist() store.Blacklist    { return &blacklistRepo{s} }

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

type sessionsRepo struct {
	s *Store
}

func (r *sessionsRepo) Put(
	_ context.Context,
	id string,
	rec domain.SessionRecord,
	ttl time.Duration,
) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.sessions[id] = sessionEntry{rec: rec, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (r *sessionsRepo) Get(_ context.Context, id string) (domain.SessionRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.sessions[id]
	if !ok || time.Now().After(e.expiresAt) {
		delete(r.s.sessions, id)
		return domain.SessionRecord{}, store.ErrNotFound
	}
	return e.rec, nil
}

func (r *sessionsRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.sessions, id)
	return nil
}

type refreshRepo struct {
	s *Store
}

func (r *refreshRepo) Put(
	_ context.Context,
	id string,
	rec domain.RefreshRecord,
	ttl time.Duration,
) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.refresh[id] = refreshEntry{rec: rec, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Take holds the lock across read and delete, matching the atomicity the
// Redis driver gets from GETDEL.
func (r *refreshRepo) Take(_ context.Context, id string) (domain.RefreshRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.refresh[id]
	delete(r.s.refresh, id)
	if !ok || time.Now().After(e.expiresAt) {
		return domain.RefreshRecord{}, store.ErrNotFound
	}
	return e.rec, nil
}

type blacklistRepo struct {
	s *Store
}

func (r *blacklistRepo) Add(_ context.Context, tokenID, reason string, ttl time.Duration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.denied[tokenID] = entry{reason: reason, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (r *blacklistRepo) Contains(_ context.Context, tokenID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.denied[tokenID]
	if !ok {
		return false, nil
	}
	if e.expired(time.Now()) {
		delete(r.s.denied, tokenID)
		return false, nil
	}
	return true, nil
}
