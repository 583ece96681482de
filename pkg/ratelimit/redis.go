package ratelimit

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
var windowScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`)

// RedisLimiter is a fixed-window counter shared by every API instance.
type RedisLimiter struct {
	client goredis.Scripter
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(client goredis.Scripter, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	ttlSeconds := int(l.window.Seconds())
	if ttlSeconds < 1 {
		ttlSeconds = 1
	}

	result, err := windowScript.Run(ctx, l.client, []string{l.prefix + key}, ttlSeconds).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("%w: redis eval: %v", ErrUnavailable, err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return Decision{}, fmt.Errorf("%w: unexpected redis result %T", ErrUnavailable, result)
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)
	if ttl < 0 {
		ttl = int64(ttlSeconds)
	}

	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   int(count) <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   l.now().Add(time.Duration(ttl) * time.Second),
	}, nil
}
