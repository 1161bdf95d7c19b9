package storexredis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rohit9625/natively-backend/pkg/storex"
	"github.com/rohit9625/natively-backend/pkg/storex/storexredis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_ExpiresAfterTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	s := storexredis.NewRedisStore(rdb)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "translation:result:1", []byte(`{"status":"COMPLETED"}`), time.Hour))

	for range 2 {
		got, err := s.Get(ctx, "translation:result:1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":"COMPLETED"}`, string(got))
	}
	ok, err := s.Exists(ctx, "translation:result:1")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(time.Hour + time.Second)

	_, err = s.Get(ctx, "translation:result:1")
	assert.True(t, errors.Is(err, storex.ErrNotFound))
	ok, err = s.Exists(ctx, "translation:result:1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_RejectsNonPositiveTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	err := storexredis.NewRedisStore(rdb).Put(context.Background(), "k", []byte("v"), 0)
	assert.True(t, errors.Is(err, storex.ErrInvalidTTL))
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	err := storexredis.NewRedisStore(rdb).Put(context.Background(), "k", []byte("v"), time.Minute)
	assert.True(t, errors.Is(err, storex.ErrUnavailable))
}
