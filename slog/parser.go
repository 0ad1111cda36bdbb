package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/lexdoc"
)

// Ensure the decorators implement their interfaces.
var (
	_ lexdoc.Lister    = (*LoggingLister)(nil)
	_ lexdoc.Extractor = (*LoggingExtractor)(nil)
)

// LoggingLister wraps a Lister and logs each parsed listing.
type LoggingLister struct {
	next   lexdoc.Lister
	logger *slog.Logger
}

// NewLoggingLister creates a new LoggingLister.
func NewLoggingLister(next lexdoc.Lister, logger *slog.Logger) *LoggingLister {
	return &LoggingLister{next: next, logger: logger}
}

// ListingURL delegates to the wrapped lister.
func (l *LoggingLister) ListingURL(date time.Time) string {
	return l.next.ListingURL(date)
}

// ParseListing delegates to the wrapped lister and logs the candidate count.
// An empty listing is logged with count=0.
func (l *LoggingLister) ParseListing(page *lexdoc.RawPage, date time.Time) (candidates []*lexdoc.Candidate, err error) {
	defer func(begin time.Time) {
		if err != nil {
			l.logger.Warn("listing parsed",
				"kind", "parse",
				"date", date.Format(lexdoc.DateLayout),
				"url", page.URL,
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		l.logger.Info("listing parsed",
			"date", date.Format(lexdoc.DateLayout),
			"count", len(candidates),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return l.next.ParseListing(page, date)
}

// LoggingExtractor wraps an Extractor. Parse failures are logged at Warn
// with kind=parse so that source format drift stands out.
type LoggingExtractor struct {
	next   lexdoc.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next lexdoc.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor.
func (e *LoggingExtractor) Extract(page *lexdoc.RawPage) (doc *lexdoc.Document, err error) {
	defer func(begin time.Time) {
		if err != nil {
			e.logger.Warn("extract",
				"kind", "parse",
				"url", page.URL,
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		e.logger.Debug("extract",
			"url", page.URL,
			"id", doc.ID,
			"chars", len(doc.Content),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return e.next.Extract(page)
}
