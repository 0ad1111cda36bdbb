package crawl

import (
	"math"
	"math/rand/v2"
	"time"
)

// Backoff computes exponential retry delays.
type Backoff struct {
	// Base is the delay before the first retry.
	Base time.Duration

	// Max caps every delay. Zero or less means no cap; delays then saturate
	// at the largest representable duration.
	Max time.Duration

	// Jitter is the largest fraction of the exponential delay added at
	// random. Values outside [0, 1) are clamped so delays never decrease.
	Jitter float64
}

// Delay returns the delay after the given failed attempt (1-based):
// Base * 2^(attempt-1), plus u * Jitter of that, capped at Max.
// u is a random value in [0, 1).
func (b Backoff) Delay(attempt int, u float64) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if b.Base <= 0 {
		return 0
	}

	exp := float64(b.Base) * float64(uint64(1)<<min(attempt-1, 62))
	if b.Max > 0 && exp >= float64(b.Max) {
		return b.Max
	}

	jitter := min(max(b.Jitter, 0), 0.99)
	u = min(max(u, 0), 1)
	d := exp * (1 + u*jitter)
	if b.Max > 0 && d >= float64(b.Max) {
		return b.Max
	}
	if d >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}

// Schedule returns the delays for n consecutive failed attempts using a
// generator seeded with seed. The same seed always yields the same schedule.
func (b Backoff) Schedule(n int, seed uint64) []time.Duration {
	rnd := rand.New(rand.NewPCG(seed, seed))
	delays := make([]time.Duration, n)
	for i := range delays {
		delays[i] = b.Delay(i+1, rnd.Float64())
	}
	return delays
}
