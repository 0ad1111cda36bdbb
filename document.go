package lexdoc

import (
	"context"
	"time"
)

// Document represents one legal act as captured from the source.
//
// Optional metadata uses pointers so that an absent value survives a round
// trip through storage distinctly from an empty one.
type Document struct {
	// ID is the stable identifier (CELEX number) and the deduplication key.
	ID string `json:"id"`

	// Ref is the key the journal listing used for this act. It may disagree
	// with ID when listing metadata is stale.
	Ref string `json:"ref"`

	Title           string   `json:"title"`
	ReferenceNumber *string  `json:"referenceNumber"`
	ELI             *string  `json:"eli"`
	URLs            []string `json:"urls"`
	Labels          []string `json:"labels"`
	Authors         []string `json:"authors"`
	Form            *string  `json:"form"`
	ResponsibleBody *string  `json:"responsibleBody"`

	DocumentDate  *time.Time `json:"documentDate"`
	EffectiveDate *time.Time `json:"effectiveDate"`
	EndOfValidity *time.Time `json:"endOfValidity"`

	// ListingDate is the journal date the act was listed under.
	ListingDate time.Time `json:"listingDate"`

	Content     string `json:"content"`
	Fingerprint string `json:"fingerprint"`
}

// Partition returns the date used to place the document in storage.
// The document date wins; the listing date is the fallback.
func (d *Document) Partition() time.Time {
	if d.DocumentDate != nil {
		return *d.DocumentDate
	}
	return d.ListingDate
}

// Storage writes documents to durable hierarchical storage.
type Storage interface {
	// Store writes doc atomically and returns its path relative to the
	// storage root. A reader never observes a partially written file.
	Store(ctx context.Context, doc *Document) (path string, err error)

	// Walk calls fn for every stored document in path order. A file that
	// cannot be decoded is passed to fn with a nil document and an
	// EMALFORMED error; returning an error from fn stops the walk.
	Walk(ctx context.Context, fn func(path string, doc *Document, err error) error) error

	// Remove deletes the document stored at path.
	// Returns ENOTFOUND if no such document exists.
	Remove(ctx context.Context, path string) error
}
