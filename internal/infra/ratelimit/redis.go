package ratelimit

import (
	"context"
	"errors"
	"time"

	"paprd/internal/domain"

	"github.com/redis/go-redis/v9"
)

// windowScript counts a hit and reports the window's remaining lifetime in
// one round trip. INCR and PEXPIRE must be atomic or two replicas could
// both open a window; the PTTL < 0 branch also repairs a counter that lost
// its expiry (for example after a partial failover) instead of letting it
// deny forever.
var windowScript = redis.NewScript(`
local hits = redis.call("INCR", KEYS[1])
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  ttl = tonumber(ARGV[1])
  redis.call("PEXPIRE", KEYS[1], ttl)
end
return {hits, ttl}
`)

type redisLimiter struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisLimiter shares the token-endpoint budget across replicas.
func NewRedisLimiter(addr, password string, db int) (domain.RateLimiter, error) {
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisLimiter{client: client, now: time.Now}, nil
}

func (r *redisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (domain.RateLimitDecision, error) {
	if limit <= 0 {
		return domain.RateLimitDecision{Allowed: true, Limit: limit, Remaining: limit}, nil
	}
	windowMillis := window.Milliseconds()
	if windowMillis <= 0 {
		windowMillis = time.Second.Milliseconds()
	}
	vals, err := windowScript.Run(ctx, r.client, []string{key}, windowMillis).Int64Slice()
	if err != nil {
		return domain.RateLimitDecision{}, err
	}
	if len(vals) != 2 {
		return domain.RateLimitDecision{}, errors.New("unexpected redis rate limit reply")
	}
	hits, ttlMillis := vals[0], vals[1]

	remaining := int64(limit) - hits
	if remaining < 0 {
		remaining = 0
	}
	return domain.RateLimitDecision{
		Allowed:   hits <= int64(limit),
		Limit:     limit,
		Remaining: int(remaining),
		ResetAt:   r.now().Add(time.Duration(ttlMillis) * time.Millisecond),
	}, nil
}
