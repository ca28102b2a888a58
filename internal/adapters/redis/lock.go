package redisad

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"glacier_alert/internal/domain"
)

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a single-key mutual exclusion lock with a TTL. The TTL bounds how
// long a crashed run can block the next one.
type Locker struct {
	c   *redis.Client
	key string
	ttl time.Duration
}

func NewLocker(c *redis.Client, key string, ttl time.Duration) *Locker {
	if key == "" {
		key = "glacier:run_lock"
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Locker{c: c, key: key, ttl: ttl}
}

func (l *Locker) Acquire(ctx context.Context) (func(context.Context) error, error) {
	token := uuid.NewString()
	ok, err := l.c.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, domain.ErrRunLocked
	}
	return func(ctx context.Context) error {
		return releaseScript.Run(ctx, l.c, []string{l.key}, token).Err()
	}, nil
}
