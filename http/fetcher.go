// Package http provides an HTTP-based implementation of lexdoc.Fetcher.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/lexdoc"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// DefaultUserAgent identifies the harvester to the source.
const DefaultUserAgent = "Mozilla/5.0 (compatible; lexdoc/1.0; +https://github.com/fwojciec/lexdoc)"

// DefaultMaxBodyBytes caps the size of a single response body.
const DefaultMaxBodyBytes = 32 << 20

// Ensure Fetcher implements lexdoc.Fetcher at compile time.
var _ lexdoc.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages over HTTP and classifies failures by error code.
type Fetcher struct {
	client       *http.Client
	timeout      time.Duration
	userAgent    string
	maxBodyBytes int64
	now          func() time.Time
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodyBytes limits the accepted response size.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodyBytes = n
	}
}

// WithClient replaces the underlying HTTP client. The timeout option is
// ignored when a client is supplied.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		userAgent:    DefaultUserAgent,
		maxBodyBytes: DefaultMaxBodyBytes,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
		}
	}

	return f
}

// Fetch retrieves the page at url.
//
// Transport failures, timeouts, 408, 429 and 5xx responses are EUNAVAILABLE.
// 404 and 410 are ENOTFOUND. Any other non-200 status is EINVALID. If ctx is
// done the context error is returned as is.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*lexdoc.RawPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, lexdoc.Errorf(lexdoc.EINVALID, "bad request for %s: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, lexdoc.Errorf(lexdoc.EUNAVAILABLE, "request %s: %v", url, err)
	}
	defer resp.Body.Close()

	if err := classify(resp.StatusCode, url); err != nil {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4<<10)
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, lexdoc.Errorf(lexdoc.EUNAVAILABLE, "read %s: %v", url, err)
	}
	if int64(len(body)) > f.maxBodyBytes {
		return nil, lexdoc.Errorf(lexdoc.EINVALID, "response from %s exceeds %d bytes", url, f.maxBodyBytes)
	}

	return &lexdoc.RawPage{
		URL:       url,
		Body:      body,
		FetchedAt: f.now().UTC(),
	}, nil
}

func classify(status int, url string) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusNotFound || status == http.StatusGone:
		return lexdoc.Errorf(lexdoc.ENOTFOUND, "HTTP %d for %s", status, url)
	case status == http.StatusRequestTimeout || status == http.StatusTooManyRequests || status >= 500:
		return lexdoc.Errorf(lexdoc.EUNAVAILABLE, "HTTP %d for %s", status, url)
	default:
		return lexdoc.Errorf(lexdoc.EINVALID, "HTTP %d for %s", status, url)
	}
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
