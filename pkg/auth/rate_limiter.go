package auth

import (
	"sync"
	"time"
)

// TokenBucketLimiter is an in-memory per-key token bucket. Keys are
// client IPs in the router; each bucket refills one token per refill
// interval up to maxTokens.
type TokenBucketLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	maxTokens  int
	refillRate time.Duration
}

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// NewTokenBucketLimiter creates a limiter allowing maxTokens burst with
// one token restored per refillRate.
func NewTokenBucketLimiter(maxTokens int, refillRate time.Duration) *TokenBucketLimiter {
	l := &TokenBucketLimiter{
		buckets:    make(map[string]*bucket),
		maxTokens:  maxTokens,
		refillRate: refillRate,
	}
	go l.cleanup()
	return l
}

// NewIPRateLimiter creates a limiter sized for requests-per-minute per IP.
func NewIPRateLimiter(requestsPerMinute int) *TokenBucketLimiter {
	return NewTokenBucketLimiter(requestsPerMinute, time.Minute/time.Duration(requestsPerMinute))
}

// Allow consumes a token for key, reporting whether the request may proceed.
func (l *TokenBucketLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.maxTokens, lastRefill: time.Now()}
		l.buckets[key] = b
	}

	now := time.Now()
	if refill := int(now.Sub(b.lastRefill) / l.refillRate); refill > 0 {
		b.tokens = min(b.tokens+refill, l.maxTokens)
		b.lastRefill = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

// cleanup drops buckets idle for over an hour.
func (l *TokenBucketLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, b := range l.buckets {
			if now.Sub(b.lastRefill) > time.Hour {
				delete(l.buckets, key)
			}
		}
		l.mu.Unlock()
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
