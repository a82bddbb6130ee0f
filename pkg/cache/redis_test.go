package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRevocationStore(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := NewRevocationStore(rdb)
	ctx := context.Background()
	sid := uuid.New()

	revoked, err := store.IsRevoked(ctx, sid)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, sid, time.Minute))
	revoked, err = store.IsRevoked(ctx, sid)
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(time.Minute + time.Second)
	revoked, err = store.IsRevoked(ctx, sid)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationStore_NonPositiveTTL(t *testing.T) {
	_, rdb := newTestRedis(t)
	store := NewRevocationStore(rdb)
	sid := uuid.New()

	require.NoError(t, store.Revoke(context.Background(), sid, 0))
	revoked, err := store.IsRevoked(context.Background(), sid)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestCounter_Allow(t *testing.T) {
	mr, rdb := newTestRedis(t)
	counter := NewCounter(rdb)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := counter.Allow(ctx, "login", "ip:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := counter.Allow(ctx, "login", "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// other clients have their own window
	ok, err = counter.Allow(ctx, "login", "ip:5.6.7.8", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(time.Minute + time.Second)
	ok, err = counter.Allow(ctx, "login", "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCounter_RedisDown(t *testing.T) {
	mr, rdb := newTestRedis(t)
	mr.Close()

	_, err := NewCounter(rdb).Allow(context.Background(), "login", "ip:1.2.3.4", 3, time.Minute)
	assert.Error(t, err)
}
