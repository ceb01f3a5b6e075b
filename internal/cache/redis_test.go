package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/syndicate/internal/config"
)

type statsSnapshot struct {
	Total   int     `json:"total_bets"`
	WinRate float64 `json:"win_rate"`
}

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func TestSetAndGet(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	expected := statsSnapshot{Total: 4, WinRate: 75.0}
	require.NoError(t, cache.Set(ctx, "stats", expected, time.Minute))

	var actual statsSnapshot
	found, err := cache.Get(ctx, "stats", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestGetNotFound(t *testing.T) {
	cache, _ := setupTestCache(t)

	var out statsSnapshot
	found, err := cache.Get(context.Background(), "no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSet_Expires(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "stats", statsSnapshot{Total: 1}, 5*time.Minute))
	mr.FastForward(6 * time.Minute)

	var out statsSnapshot
	found, err := cache.Get(ctx, "stats", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", "value", time.Minute))
	require.NoError(t, cache.Set(ctx, "b", "value", time.Minute))

	require.NoError(t, cache.Invalidate(ctx, "a", "b"))
	require.NoError(t, cache.Invalidate(ctx))

	var out string
	found, err := cache.Get(ctx, "a", &out)
	require.NoError(t, err)
	assert.False(t, found)
	found, err = cache.Get(ctx, "b", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidatePrefix(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "picks:upcoming:free:2025-01-01", []int{1}, time.Minute))
	require.NoError(t, cache.Set(ctx, "picks:results:vip", []int{2}, time.Minute))
	require.NoError(t, cache.Set(ctx, "stats", statsSnapshot{}, time.Minute))

	require.NoError(t, cache.InvalidatePrefix(ctx, "picks:"))

	assert.False(t, mr.Exists("picks:upcoming:free:2025-01-01"))
	assert.False(t, mr.Exists("picks:results:vip"))
	assert.True(t, mr.Exists("stats"))
}

func TestGetInvalidJSON(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Db.Set(ctx, "bad", []byte("not-json"), time.Minute).Err())

	var out statsSnapshot
	found, err := cache.Get(ctx, "bad", &out)
	assert.False(t, found)
	assert.Error(t, err)
}

func TestInitServerInvalidAddr(t *testing.T) {
	cfg := config.RedisConnection{
		AddressRedis: "127.0.0.1:9999",
		DialTimeout:  100 * time.Millisecond,
	}

	cache, err := InitServer(context.Background(), cfg)
	assert.Nil(t, cache)
	assert.Error(t, err)
}

func TestIncr(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	tests := []struct {
		name string
		want int64
	}{
		{name: "missing key starts at one", want: 1},
		{name: "existing key grows", want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cache.Incr(ctx, "gen")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	var gen int64
	found, err := cache.Get(ctx, "gen", &gen)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(2), gen)
}
