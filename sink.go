package lexdoc

import (
	"context"
	"time"
)

// RecordSink accepts stored documents for downstream reporting.
type RecordSink interface {
	PutRecord(ctx context.Context, doc *Document, path string) error
}

// Record is the reporting view of a stored document.
type Record struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Form         string     `json:"form"`
	DocumentDate *time.Time `json:"documentDate"`
	ListingDate  time.Time  `json:"listingDate"`
	Path         string     `json:"path"`
	Labels       []string   `json:"labels"`
	Authors      []string   `json:"authors"`
}

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	Form  *string    `json:"form"`
	Label *string    `json:"label"`
	From  *time.Time `json:"from"`
	To    *time.Time `json:"to"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RecordService stores and queries reporting records.
type RecordService interface {
	RecordSink

	// FindRecords returns records matching filter, ordered by listing date.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*Record, error)

	// CountRecords returns the total number of records.
	CountRecords(ctx context.Context) (int, error)
}
