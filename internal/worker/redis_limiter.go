package worker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingWindow trims the window, counts it and records the request in one
// atomic step. It returns {1, ""} when admitted and {0, oldestScore} when
// the window is full.
var slidingWindow = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[2])
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[3]) then
	local oldest = redis.call('ZRANGE', KEYS[1], 0, 0, 'WITHSCORES')
	return {0, oldest[2] or ''}
end
redis.call('ZADD', KEYS[1], ARGV[1], ARGV[5])
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return {1, ''}
`)

// RedisLimiter is a sliding-window log shared by every replica. Each
// admitted request is a member of a sorted set scored by its timestamp.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

// NewRedisLimiter admits limit requests per key within window
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: "aiprobe:ratelimit:",
		now:    time.Now,
	}
}

// Allow admits the request if the key's window has room. The check and the
// insert run as a single script, so concurrent replicas cannot overshoot.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now()
	windowStart := now.Add(-l.window).UnixNano()
	member := strconv.FormatInt(now.UnixNano(), 10) + "-" + uuid.NewString()

	res, err := slidingWindow.Run(ctx, l.client, []string{l.prefix + key},
		now.UnixNano(),
		windowStart,
		l.limit,
		l.window.Milliseconds(),
		member,
	).Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("redis window: %w", err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("redis window: unexpected reply %v", res)
	}

	if admitted, _ := res[0].(int64); admitted == 1 {
		return Decision{Allowed: true}, nil
	}

	retry := l.window
	if raw, ok := res[1].(string); ok && raw != "" {
		if oldest, err := strconv.ParseFloat(raw, 64); err == nil {
			retry = time.Duration(int64(oldest) + l.window.Nanoseconds() - now.UnixNano())
		}
	}
	if retry <= 0 {
		retry = time.Millisecond
	}
	if retry > l.window {
		retry = l.window
	}
	return Decision{Allowed: false, RetryAfter: retry}, nil
}
