package lexdoc

import (
	"context"
	"time"
)

// RawPage is a fetched page. It lives only until it has been extracted.
type RawPage struct {
	URL       string
	Body      []byte
	FetchedAt time.Time
}

// Fetcher retrieves pages from the source.
//
// Failures are classified by error code: EUNAVAILABLE for timeouts, connection
// resets and overload responses (retried), ENOTFOUND for missing resources and
// EINVALID for rejected requests (never retried).
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*RawPage, error)
}

// RateLimiter bounds the rate of outbound requests. Acquire blocks until a
// token is available and only fails when ctx is done.
type RateLimiter interface {
	Acquire(ctx context.Context) error
}
