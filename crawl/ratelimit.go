package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/lexdoc"
	"golang.org/x/time/rate"
)

var _ lexdoc.RateLimiter = (*RateLimiter)(nil)

// RateLimiter is the single token bucket every outbound request of a session
// passes through. Tokens refill continuously at the configured rate and
// accumulate up to the burst size.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a RateLimiter allowing rps requests per second with
// the given burst capacity. A burst below 1 is treated as 1.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Acquire blocks until a token is available and consumes it.
// It fails only with the context's own error: a deadline that falls before
// the next token is waited out rather than reported early.
func (l *RateLimiter) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r := l.limiter.Reserve()
	if !r.OK() {
		return lexdoc.Errorf(lexdoc.EINTERNAL, "rate limiter cannot grant a token")
	}
	delay := r.Delay()
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}
