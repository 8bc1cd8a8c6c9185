package ratelimit

import (
	"context"
	"sync"
	"time"

	"paprd/internal/domain"
)

// NewMemoryLimiter is the single-process fallback used when no redis
// address is configured. Fixed window per key.
func NewMemoryLimiter(now func() time.Time) domain.RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &memoryLimiter{
		now:     now,
		buckets: make(map[string]*bucket),
	}
}

type memoryLimiter struct {
	mu      sync.Mutex
	now     func() time.Time
	buckets map[string]*bucket
}

type bucket struct {
	count     int
	windowEnd time.Time
}

func (m *memoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (domain.RateLimitDecision, error) {
	if limit <= 0 {
		return domain.RateLimitDecision{Allowed: true, Limit: limit, Remaining: limit}, nil
	}
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buckets[key]
	if !ok || now.After(b.windowEnd) {
		m.expire(now)
		b = &bucket{windowEnd: now.Add(window)}
		m.buckets[key] = b
	}

	if b.count < limit {
		b.count++
		return domain.RateLimitDecision{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit - b.count,
			ResetAt:   b.windowEnd,
		}, nil
	}
	return domain.RateLimitDecision{
		Allowed: false,
		Limit:   limit,
		ResetAt: b.windowEnd,
	}, nil
}

func (m *memoryLimiter) expire(now time.Time) {
	for key, b := range m.buckets {
		if now.After(b.windowEnd) {
			delete(m.buckets, key)
		}
	}
}
