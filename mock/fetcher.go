package mock

import (
	"context"

	"github.com/fwojciec/lexdoc"
)

var _ lexdoc.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of lexdoc.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*lexdoc.RawPage, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*lexdoc.RawPage, error) {
	return f.FetchFn(ctx, url)
}

var _ lexdoc.RateLimiter = (*RateLimiter)(nil)

// RateLimiter is a mock implementation of lexdoc.RateLimiter.
type RateLimiter struct {
	AcquireFn func(ctx context.Context) error
}

func (l *RateLimiter) Acquire(ctx context.Context) error {
	return l.AcquireFn(ctx)
}
