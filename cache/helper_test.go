package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	Client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(Close)
	return mr
}

func TestCacheAsideHitSkipsFetch(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fill := func(dest *[]string) func() error {
		return func() error {
			fetches++
			*dest = []string{"a", "b"}
			return nil
		}
	}

	var first []string
	require.NoError(t, CacheAside(ctx, "list:1", &first, time.Minute, fill(&first)))
	require.Equal(t, 1, fetches)

	var second []string
	require.NoError(t, CacheAside(ctx, "list:1", &second, time.Minute, fill(&second)))
	assert.Equal(t, 1, fetches, "the second lookup is served from the cache")
	assert.Equal(t, first, second)
}

func TestCacheAsideRefetchesAfterTTL(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()

	fetches := 0
	var out int
	fill := func() error {
		fetches++
		out = fetches
		return nil
	}

	require.NoError(t, CacheAside(ctx, "counter:1", &out, time.Minute, fill))
	mr.FastForward(2 * time.Minute)
	require.NoError(t, CacheAside(ctx, "counter:1", &out, time.Minute, fill))
	assert.Equal(t, 2, fetches)
	assert.Equal(t, 2, out)
}

func TestCacheAsideEvictsCorruptEntry(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("list:1", "{not json"))

	var got []string
	err := CacheAside(ctx, "list:1", &got, time.Minute, func() error {
		got = []string{"fresh"}
		return nil
	})
	require.NoError(t, err, "a corrupt entry falls through to the source")
	assert.Equal(t, []string{"fresh"}, got)

	// The bad entry was replaced; the next lookup hits.
	var again []string
	require.NoError(t, CacheAside(ctx, "list:1", &again, time.Minute, func() error {
		t.Fatal("fetch should not run on a warm cache")
		return nil
	}))
	assert.Equal(t, got, again)
}

func TestCacheAsideFetchErrorPropagates(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()

	boom := errors.New("source unavailable")
	var out []string
	err := CacheAside(ctx, "list:1", &out, time.Minute, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("list:1"), "failed fetches are not cached")
}

func TestHelpersPassThroughWithoutRedis(t *testing.T) {
	Client = nil
	ctx := context.Background()

	var out []string
	found, err := GetJSON(ctx, "list:1", &out)
	require.NoError(t, err)
	assert.False(t, found)
	require.NoError(t, SetJSON(ctx, "list:1", []string{"a"}, time.Minute))

	fetches := 0
	for i := 0; i < 2; i++ {
		require.NoError(t, CacheAside(ctx, "list:1", &out, time.Minute, func() error {
			fetches++
			return nil
		}))
	}
	assert.Equal(t, 2, fetches, "without redis every lookup goes to the source")
}
