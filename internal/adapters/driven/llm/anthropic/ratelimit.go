package anthropic

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacing defaults. Prep sessions make a handful of calls, so these only
// guard against loops such as answering every generated question at once.
const (
	DefaultRequestsPerSecond = 1.0
	DefaultBurst             = 3
	defaultBackoff           = 30 * time.Second
)

// rateLimiter is a token bucket plus a backoff window set from 429 and 529
// responses.
type rateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &rateLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Wait blocks until a request may be sent, honouring any backoff window.
func (r *rateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		timer := time.NewTimer(time.Until(retryAt))
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// Backoff opens a backoff window from the Retry-After header, in seconds.
func (r *rateLimiter) Backoff(header http.Header) {
	wait := defaultBackoff
	if secs, err := strconv.Atoi(header.Get("Retry-After")); err == nil && secs > 0 {
		wait = time.Duration(secs) * time.Second
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.retryAt = time.Now().Add(wait)
}
