// Package storex is a small key/value store with a per-key time to live.
// Entries expire on their own; callers never sweep.
package storex

import (
	"context"
	"time"
)

// Store persists opaque values under string keys.
type Store interface {
	// Put writes value under key, replacing any previous value. ttl must be positive.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get returns ErrNotFound for missing and expired keys.
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// Purger is implemented by stores whose backend does not drop expired
// entries by itself.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}
