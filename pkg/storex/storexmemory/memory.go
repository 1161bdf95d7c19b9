// Package storexmemory keeps entries in a map. Expired entries are dropped
// when they are read or purged.
package storexmemory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rohit9625/natively-backend/pkg/storex"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Store implements storex.Store and storex.Purger in memory.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// New creates an empty store. A nil clock uses time.Now.
func New(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{entries: make(map[string]entry), now: now}
}

func (s *Store) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := storex.ValidateTTL(ttl); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: slices.Clone(value), expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || !e.expiresAt.After(s.now()) {
		return nil, storex.NotFound(key)
	}
	return slices.Clone(e.value), nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.Get(ctx, key)
	if err != nil {
		return false, nil
	}
	return true, nil
}

// Purge drops expired entries and returns how many were removed.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var n int64
	for k, e := range s.entries {
		if !e.expiresAt.After(now) {
			delete(s.entries, k)
			n++
		}
	}
	return n, nil
}
