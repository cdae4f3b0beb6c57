package kv_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Syed-FurqanAhmed/iste-club-activity/pkg/kv"
)

func newRedisStore(t *testing.T) (*kv.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, err := kv.NewRedisStore(client)
	require.NoError(t, err)
	return store, mr
}

func TestNewRedisStore(t *testing.T) {
	t.Parallel()

	t.Run("nil client", func(t *testing.T) {
		t.Parallel()

		store, err := kv.NewRedisStore(nil)
		assert.ErrorIs(t, err, kv.ErrClientRequired)
		assert.Nil(t, store)
	})
}

func TestRedisStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		store, _ := newRedisStore(t)
		require.NoError(t, store.Set(ctx, "ratelimit:registration", `{"tokens":3}`))

		value, ok, err := store.Get(ctx, "ratelimit:registration")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"tokens":3}`, value)
	})

	t.Run("miss reported without error", func(t *testing.T) {
		t.Parallel()

		store, _ := newRedisStore(t)
		_, ok, err := store.Get(ctx, "ratelimit:absent")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		store, _ := newRedisStore(t)
		require.NoError(t, store.Set(ctx, "k", "v"))
		require.NoError(t, store.Delete(ctx, "k"))

		_, ok, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("backend failure surfaces as error", func(t *testing.T) {
		t.Parallel()

		store, mr := newRedisStore(t)
		mr.Close()

		_, _, err := store.Get(ctx, "k")
		assert.Error(t, err)
		assert.Error(t, store.Set(ctx, "k", "v"))
	})
}

func TestConnectRedis(t *testing.T) {
	t.Parallel()

	t.Run("invalid url", func(t *testing.T) {
		t.Parallel()

		_, err := kv.ConnectRedis(context.Background(), kv.RedisConfig{
			ConnectionURL:  "not-a-url",
			RetryAttempts:  1,
			RetryInterval:  time.Millisecond,
			ConnectTimeout: time.Second,
		})
		assert.ErrorIs(t, err, kv.ErrInvalidConnectionURL)
	})

	t.Run("connects to running server", func(t *testing.T) {
		t.Parallel()

		mr := miniredis.RunT(t)
		store, err := kv.ConnectRedis(context.Background(), kv.RedisConfig{
			ConnectionURL:  "redis://" + mr.Addr(),
			RetryAttempts:  1,
			RetryInterval:  time.Millisecond,
			ConnectTimeout: time.Second,
		})
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })

		require.NoError(t, store.Set(context.Background(), "k", "v"))
	})
}
