// Package cache wraps the optional Redis client. When Redis is unreachable
// the application keeps running without caching.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

// InitRedis connects to Redis at addr. On failure the client stays nil and
// every helper becomes a pass-through.
func InitRedis(addr string) {
	Client = redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, continuing without cache", "addr", addr, "error", err)
		Client = nil
	} else {
		slog.Info("redis connected", "addr", addr)
	}
}

// GetClient returns the shared client, or nil when caching is disabled.
func GetClient() *redis.Client {
	return Client
}

// Close releases the Redis connection if one was established.
func Close() {
	if Client != nil {
		_ = Client.Close()
		Client = nil
	}
}
