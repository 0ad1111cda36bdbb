package crawl

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/fwojciec/lexdoc"
)

// ErrExhausted is returned when every attempt failed with a transient error.
var ErrExhausted = errors.New("retries exhausted")

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep waits for d, returning early with the context error if ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Retryer runs an operation with bounded exponential-backoff retry.
// Only transient failures (see lexdoc.IsTransient) are retried.
type Retryer struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	Backoff Backoff

	// Sleep waits between attempts. Defaults to Sleep.
	Sleep SleepFunc

	// Rand returns values in [0, 1) for jitter. Defaults to rand.Float64.
	Rand func() float64

	// OnRetry, if set, is called before each backoff sleep.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// Do runs op until it succeeds, fails permanently, or runs out of attempts.
// It returns the number of attempts made. Cancellation is checked before
// every attempt and before every sleep; a canceled run returns the context
// error. Permanent errors are returned unchanged; exhaustion returns an
// error wrapping both ErrExhausted and the last failure.
func (r *Retryer) Do(ctx context.Context, op func(ctx context.Context) error) (int, error) {
	maxAttempts := max(r.MaxAttempts, 1)
	sleep := r.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	random := r.Rand
	if random == nil {
		random = rand.Float64
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}

		err := op(ctx)
		if err == nil {
			return attempt, nil
		}
		if !lexdoc.IsTransient(err) {
			return attempt, err
		}
		lastErr = err

		if attempt == maxAttempts {
			break
		}

		delay := r.Backoff.Delay(attempt, random())
		if r.OnRetry != nil {
			r.OnRetry(attempt, delay, err)
		}

		if err := ctx.Err(); err != nil {
			return attempt, err
		}
		if err := sleep(ctx, delay); err != nil {
			return attempt, err
		}
	}

	return maxAttempts, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, maxAttempts, lastErr)
}
