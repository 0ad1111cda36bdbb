// Package goquery implements the EUR-Lex journal listing and document
// parsers using goquery.
package goquery

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lexdoc"
)

// DefaultBaseURL is the EUR-Lex site root.
const DefaultBaseURL = "https://eur-lex.europa.eu"

// EarliestJournalDate is the first journal date published act by act.
// Earlier dates use a different listing format.
var EarliestJournalDate = time.Date(2023, time.October, 2, 0, 0, 0, 0, time.UTC)

// refPrefix marks the journal identifier in document links.
const refPrefix = "OJ:L_"

// Ensure Lister implements lexdoc.Lister at compile time.
var _ lexdoc.Lister = (*Lister)(nil)

// Lister builds and parses EUR-Lex daily L-series listings.
type Lister struct {
	BaseURL string
}

// NewLister creates a Lister for the site at baseURL.
func NewLister(baseURL string) *Lister {
	return &Lister{BaseURL: strings.TrimRight(baseURL, "/")}
}

// ListingURL returns the daily view URL for date.
func (l *Lister) ListingURL(date time.Time) string {
	return fmt.Sprintf("%s/oj/daily-view/L-series/default.html?ojDate=%s", l.BaseURL, date.Format("02012006"))
}

// DocumentURL returns the all-metadata view of the act with journal id.
func (l *Lister) DocumentURL(id string) string {
	return documentURL(l.BaseURL, "ALL", id)
}

func documentURL(base, view, id string) string {
	return fmt.Sprintf("%s/legal-content/EN/%s/?uri=%s%s", base, view, refPrefix, id)
}

// ParseListing returns one candidate per distinct act linked from the
// listing's main content, in page order. Corrigenda and links with malformed
// identifiers are skipped. A page without main content lists nothing.
func (l *Lister) ParseListing(page *lexdoc.RawPage, date time.Time) ([]*lexdoc.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, lexdoc.Errorf(lexdoc.EMALFORMED, "failed to parse listing HTML: %v", err)
	}

	// Days without a journal are served without a main content block.
	main := doc.Find("div#MainContent")
	if main.Length() == 0 {
		return nil, nil
	}

	seen := make(map[string]bool)
	var candidates []*lexdoc.Candidate
	main.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		id, ok := listingID(href)
		if !ok || seen[id] {
			return
		}
		seen[id] = true
		candidates = append(candidates, &lexdoc.Candidate{
			Date:     lexdoc.Day(date),
			Position: len(candidates),
			URL:      l.DocumentURL(id),
			Ref:      refPrefix + id,
		})
	})
	return candidates, nil
}

// listingID extracts the journal identifier from a document link.
func listingID(href string) (string, bool) {
	if !strings.Contains(href, "legal-content/EN/") {
		return "", false
	}
	_, rest, ok := strings.Cut(href, "uri="+refPrefix)
	if !ok {
		return "", false
	}
	id, _, _ := strings.Cut(rest, "&")
	id, _, _ = strings.Cut(id, "#")
	if !ValidListingID(id) {
		return "", false
	}
	return id, true
}

// ValidListingID reports whether id is a nine character journal identifier
// of an act. The fifth character is 9 for corrigenda, which are rejected.
// Example: 202400123 is valid, 202490001 is a corrigendum.
func ValidListingID(id string) bool {
	id = strings.TrimPrefix(id, "L_")
	if len(id) != 9 {
		return false
	}
	for _, r := range id[:4] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return id[4] != '9'
}

// refFromURL returns the journal identifier in a document URL, if any.
func refFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	id, ok := strings.CutPrefix(u.Query().Get("uri"), refPrefix)
	if !ok {
		return ""
	}
	return id
}
