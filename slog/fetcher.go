package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/lexdoc"
)

// Ensure LoggingFetcher implements lexdoc.Fetcher.
var _ lexdoc.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with request logging.
type LoggingFetcher struct {
	next   lexdoc.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next lexdoc.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
// Failures are logged at Warn with their error code.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (page *lexdoc.RawPage, err error) {
	defer func(begin time.Time) {
		var n int
		if page != nil {
			n = len(page.Body)
		}
		logger := withSession(ctx, f.logger)
		if err != nil {
			logger.Warn("fetch",
				"url", url,
				"code", lexdoc.ErrorCode(err),
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		logger.Debug("fetch",
			"url", url,
			"bytes", n,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}
