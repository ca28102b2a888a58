// Package redisad holds the Redis-backed run lock and last-report cache.
package redisad

import (
	"context"

	"github.com/redis/go-redis/v9"
)

func NewClient(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}

// Ping checks connectivity at startup.
func Ping(ctx context.Context, c *redis.Client) error { return c.Ping(ctx).Err() }
