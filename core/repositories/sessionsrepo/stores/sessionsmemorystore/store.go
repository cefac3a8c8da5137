// Package sessionsmemorystore keeps session entries in process memory, for
// single-instance deployments without Redis.
package sessionsmemorystore

import (
	"context"
	"sync"
	"time"

	"github.com/jrazmi/flowdesk/core/repositories"
	"github.com/jrazmi/flowdesk/core/repositories/authrepo"
)

type entry struct {
	identity  authrepo.UserIdentity
	expiresAt time.Time
}

type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// WithClock replaces the store's time source.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Put stores identity and sweeps expired entries.
func (s *Store) Put(_ context.Context, key string, identity authrepo.UserIdentity, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	s.entries[key] = entry{identity: identity, expiresAt: now.Add(ttl)}
	return nil
}

func (s *Store) Get(_ context.Context, key string) (authrepo.UserIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return authrepo.UserIdentity{}, repositories.ErrNotFound
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return authrepo.UserIdentity{}, repositories.ErrNotFound
	}
	return e.identity, nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Len returns the number of entries, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
