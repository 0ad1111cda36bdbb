package crawl

import (
	"time"

	"github.com/fwojciec/lexdoc"
)

// Config holds the inputs of one harvest session. The Harvester uses these
// values as given and assumes no defaults of its own.
type Config struct {
	Range lexdoc.DateRange

	// Concurrency bounds the candidates processed in parallel within a date.
	Concurrency int

	// Rate is the sustained request rate in requests per second and Burst
	// the token bucket size.
	Rate  float64
	Burst int

	// RetryLimit is the maximum number of fetch attempts per request.
	RetryLimit  int
	RetryBase   time.Duration
	RetryMax    time.Duration
	RetryJitter float64

	// FetchTimeout bounds each fetch attempt; zero means no per-attempt limit.
	FetchTimeout time.Duration

	// SessionTimeout bounds the whole session; zero means no limit.
	SessionTimeout time.Duration

	// PrefetchDedup enables the index lookup on the listing-derived key
	// before a candidate is fetched.
	PrefetchDedup bool
}

// Validate returns an EINVALID error describing the first invalid setting.
func (c Config) Validate() error {
	if err := c.Range.Validate(); err != nil {
		return err
	}
	switch {
	case c.Concurrency < 1:
		return lexdoc.Errorf(lexdoc.EINVALID, "concurrency must be at least 1, got %d", c.Concurrency)
	case c.Rate <= 0:
		return lexdoc.Errorf(lexdoc.EINVALID, "rate must be positive, got %g", c.Rate)
	case c.Burst < 1:
		return lexdoc.Errorf(lexdoc.EINVALID, "burst must be at least 1, got %d", c.Burst)
	case c.RetryLimit < 1:
		return lexdoc.Errorf(lexdoc.EINVALID, "retry limit must be at least 1, got %d", c.RetryLimit)
	case c.RetryBase < 0 || c.RetryMax < 0:
		return lexdoc.Errorf(lexdoc.EINVALID, "retry delays must not be negative")
	case c.RetryMax < c.RetryBase:
		return lexdoc.Errorf(lexdoc.EINVALID, "retry max delay %s is below base delay %s", c.RetryMax, c.RetryBase)
	case c.RetryJitter < 0 || c.RetryJitter >= 1:
		return lexdoc.Errorf(lexdoc.EINVALID, "retry jitter must be in [0, 1), got %g", c.RetryJitter)
	case c.FetchTimeout < 0 || c.SessionTimeout < 0:
		return lexdoc.Errorf(lexdoc.EINVALID, "timeouts must not be negative")
	}
	return nil
}
