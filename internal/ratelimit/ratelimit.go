// Package ratelimit paces outbound metadata lookups with per-key token
// buckets. The enricher keys limiters by upstream provider so a burst
// against one API cannot eat into another's budget.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Keyed manages independent rate limiters, one per key.
type Keyed struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// New creates a keyed limiter allowing rps requests per second per key,
// with the given burst available immediately.
func New(rps float64, burst int) *Keyed {
	return &Keyed{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

// NewInterval creates a keyed limiter that spaces requests at least d
// apart per key. A non-positive d disables limiting.
func NewInterval(d time.Duration, burst int) *Keyed {
	if d <= 0 {
		return New(float64(rate.Inf), burst)
	}
	return New(float64(time.Second)/float64(d), burst)
}

// Allow reports whether a request for key may proceed right now.
func (k *Keyed) Allow(key string) bool {
	return k.limiter(key).Allow()
}

// Wait blocks until a request for key is allowed or ctx is canceled.
func (k *Keyed) Wait(ctx context.Context, key string) error {
	return k.limiter(key).Wait(ctx)
}

// limiter returns the limiter for key, creating one if needed.
func (k *Keyed) limiter(key string) *rate.Limiter {
	k.mu.RLock()
	lim, ok := k.limiters[key]
	k.mu.RUnlock()
	if ok {
		return lim
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if lim, ok = k.limiters[key]; ok {
		return lim
	}
	lim = rate.NewLimiter(k.limit, k.burst)
	k.limiters[key] = lim
	return lim
}
