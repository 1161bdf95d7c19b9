package storexredis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rohit9625/natively-backend/pkg/storex"
)

// RedisStore implements storex.Store with native key expiry.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Put stores the value with SET ... EX.
func (s *RedisStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := storex.ValidateTTL(ttl); err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return storex.Unavailable("put", key, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storex.NotFound(key)
		}
		return nil, storex.Unavailable("get", key, err)
	}
	return data, nil
}

func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, storex.Unavailable("exists", key, err)
	}
	return n > 0, nil
}
