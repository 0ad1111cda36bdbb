package mock

import (
	"time"

	"github.com/fwojciec/lexdoc"
)

var _ lexdoc.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of lexdoc.Extractor.
type Extractor struct {
	ExtractFn func(page *lexdoc.RawPage) (*lexdoc.Document, error)
}

func (e *Extractor) Extract(page *lexdoc.RawPage) (*lexdoc.Document, error) {
	return e.ExtractFn(page)
}

var _ lexdoc.Lister = (*Lister)(nil)

// Lister is a mock implementation of lexdoc.Lister.
type Lister struct {
	ListingURLFn   func(date time.Time) string
	ParseListingFn func(page *lexdoc.RawPage, date time.Time) ([]*lexdoc.Candidate, error)
}

func (l *Lister) ListingURL(date time.Time) string {
	return l.ListingURLFn(date)
}

func (l *Lister) ParseListing(page *lexdoc.RawPage, date time.Time) ([]*lexdoc.Candidate, error) {
	return l.ParseListingFn(page, date)
}
