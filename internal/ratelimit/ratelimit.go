// Package ratelimit provides a keyed token bucket limiter for inbound requests.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultIdleTTL is how long an unused key is kept before eviction.
const DefaultIdleTTL = 10 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter manages per-key rate limiting. Each key (typically a
// client IP) gets its own bucket; buckets idle for longer than the TTL are
// evicted so the map does not grow without bound.
type KeyedRateLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// Option configures a KeyedRateLimiter.
type Option func(*KeyedRateLimiter)

// WithIdleTTL sets how long an unused key survives.
func WithIdleTTL(ttl time.Duration) Option {
	return func(k *KeyedRateLimiter) {
		k.idleTTL = ttl
	}
}

// WithClock overrides the time source used for idle tracking.
func WithClock(now func() time.Time) Option {
	return func(k *KeyedRateLimiter) {
		k.now = now
	}
}

// New creates a keyed limiter allowing rps requests per second per key with
// the given burst, and starts the background eviction loop.
func New(rps float64, burst int, opts ...Option) *KeyedRateLimiter {
	k := &KeyedRateLimiter{
		entries: make(map[string]*entry),
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: DefaultIdleTTL,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(k)
	}

	go k.cleanup()

	return k
}

// PerMinute converts a per-minute budget into requests per second.
func PerMinute(n int) float64 {
	return float64(n) / 60
}

// Allow reports whether a request for key may proceed now. It never blocks.
func (k *KeyedRateLimiter) Allow(key string) bool {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.entries[key] = e
	}
	e.lastSeen = k.now()
	k.mu.Unlock()

	return e.limiter.Allow()
}

// Stop shuts down the eviction loop. It is safe to call more than once.
func (k *KeyedRateLimiter) Stop() {
	k.stopOnce.Do(func() {
		close(k.done)
	})
}

func (k *KeyedRateLimiter) cleanup() {
	interval := k.idleTTL / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-k.done:
			return
		case <-ticker.C:
			k.evictIdle()
		}
	}
}

// evictIdle drops keys not seen within the idle TTL.
func (k *KeyedRateLimiter) evictIdle() {
	cutoff := k.now().Add(-k.idleTTL)

	k.mu.Lock()
	defer k.mu.Unlock()
	for key, e := range k.entries {
		if e.lastSeen.Before(cutoff) {
			delete(k.entries, key)
		}
	}
}
