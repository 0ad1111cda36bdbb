package lexdoc

import "time"

// Candidate is one unit of prospective work: a listed act before it is known
// whether it is new, a duplicate, or invalid.
type Candidate struct {
	// Date is the journal date the candidate was listed under.
	Date time.Time

	// Position is the zero-based ordinal within that date's listing.
	Position int

	// URL is where the act is fetched from.
	URL string

	// Ref is an identifier derived from the listing, if any. It is only good
	// enough for the cheap pre-fetch duplicate check.
	Ref string
}

// Lister enumerates the candidates published on a date.
type Lister interface {
	// ListingURL returns the URL of the journal listing for date.
	ListingURL(date time.Time) string

	// ParseListing extracts candidates from a fetched listing page.
	// Returns EMALFORMED if the page cannot be parsed.
	ParseListing(page *RawPage, date time.Time) ([]*Candidate, error)
}
