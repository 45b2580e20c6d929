package rate

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter throttles RPC calls, partitioned by a key such as the target layer.
type Limiter interface {
	// Allow reports whether a call for key may proceed now.
	Allow(key string) bool

	// Wait blocks until a call for key may proceed or ctx is done.
	Wait(ctx context.Context, key string) error
}

type localRateLimiter struct {
	limit rate.Limit
	burst int

	sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewLocalRateLimiter returns an in memory limiter allowing limit calls per
// second for each key. A burst below one is raised to one.
func NewLocalRateLimiter(limit float64, burst int) Limiter {
	if burst < 1 {
		burst = 1
	}

	return &localRateLimiter{
		limit:    rate.Limit(limit),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (l *localRateLimiter) get(key string) *rate.Limiter {
	l.Lock()
	defer l.Unlock()

	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}
	return limiter
}

// Allow implements Limiter.Allow.
func (l *localRateLimiter) Allow(key string) bool {
	return l.get(key).Allow()
}

// Wait implements Limiter.Wait.
func (l *localRateLimiter) Wait(ctx context.Context, key string) error {
	return l.get(key).Wait(ctx)
}

// NoLimiter never limits calls.
type NoLimiter struct{}

// Allow implements Limiter.Allow.
func (NoLimiter) Allow(string) bool { return true }

// Wait implements Limiter.Wait.
func (NoLimiter) Wait(ctx context.Context, _ string) error { return ctx.Err() }
