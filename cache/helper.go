package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// GetJSON looks the key up and unmarshals the stored value into dest.
// Returns (true, nil) on a hit, (false, nil) on a miss or when caching is
// disabled.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if Client == nil {
		return false, nil
	}
	s, err := Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		cacheMisses.WithLabelValues(keyPrefix(key)).Inc()
		return false, nil
	}
	if err != nil {
		cacheErrors.WithLabelValues("get").Inc()
		slog.Warn("cache read failed", "key", key, "error", err)
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		// A corrupt entry is unreadable forever; drop it so the next
		// lookup repopulates.
		cacheErrors.WithLabelValues("decode").Inc()
		slog.Warn("cache entry corrupt, evicting", "key", key, "error", err)
		Invalidate(ctx, key)
		return false, err
	}
	cacheHits.WithLabelValues(keyPrefix(key)).Inc()
	return true, nil
}

// SetJSON marshals v and stores it under key for ttl.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if Client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := Client.Set(ctx, key, b, ttl).Err(); err != nil {
		cacheErrors.WithLabelValues("set").Inc()
		slog.Warn("cache write failed", "key", key, "error", err)
		return err
	}
	return nil
}

// Invalidate removes a key. Safe to call when caching is disabled.
func Invalidate(ctx context.Context, key string) {
	if Client == nil {
		return
	}
	if err := Client.Del(ctx, key).Err(); err != nil {
		cacheErrors.WithLabelValues("del").Inc()
		slog.Warn("cache invalidation failed", "key", key, "error", err)
	}
}

// CacheAside serves dest from Redis when possible; on a miss it runs fetch
// (which must write into dest) and stores the result for ttl. Cache failures
// never fail the request: a broken read falls through to fetch and a broken
// write is dropped.
func CacheAside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := GetJSON(ctx, key, dest)
	if err == nil && found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	_ = SetJSON(ctx, key, dest, ttl)
	return nil
}
