package goquery

import (
	"bytes"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lexdoc"
)

// referencePattern matches reference numbers such as L/2024/123 or C/2024/7/EU.
var referencePattern = regexp.MustCompile(`^[A-Z]/\d{4}/\d+(/[A-Z]+)?$`)

// dateLayouts are tried in order when reading metadata dates.
var dateLayouts = []string{"02/01/2006", "02.01.2006", "2006-01-02", "January 2, 2006"}

// contentSelectors locate the act body, most specific first.
var contentSelectors = []string{"div#document-content", "div#TexteOnly", "div#text"}

// skippedClasses mark blocks inside the body that are not act text.
var skippedClasses = []string{"hidden-print", "navigation", "metadata"}

// Ensure Extractor implements lexdoc.Extractor at compile time.
var _ lexdoc.Extractor = (*Extractor)(nil)

// Extractor parses EUR-Lex document pages.
type Extractor struct {
	BaseURL string
}

// NewExtractor creates an Extractor for the site at baseURL.
func NewExtractor(baseURL string) *Extractor {
	return &Extractor{BaseURL: strings.TrimRight(baseURL, "/")}
}

// Extract parses the metadata and body of an act page.
func (e *Extractor) Extract(page *lexdoc.RawPage) (*lexdoc.Document, error) {
	html, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, lexdoc.Errorf(lexdoc.EMALFORMED, "failed to parse document HTML: %v", err)
	}

	doc := &lexdoc.Document{}

	fields := strings.Fields(html.Find("p.DocumentTitle").First().Text())
	if len(fields) == 0 {
		return nil, lexdoc.Errorf(lexdoc.EMALFORMED, "no document title in %s", page.URL)
	}
	doc.ID = fields[len(fields)-1]

	title := html.Find("p#title").First()
	if title.Length() == 0 {
		return nil, lexdoc.Errorf(lexdoc.EMALFORMED, "no title in %s", page.URL)
	}
	doc.Title = collapse(title.Text())
	doc.ReferenceNumber = referenceNumber(title)

	if href, ok := html.Find(`a[href^="http://data.europa.eu/eli/"]`).First().Attr("href"); ok {
		doc.ELI = &href
	}

	dates := metadataDates(html)
	doc.DocumentDate = dates["date of document"]
	doc.EffectiveDate = dates["date of effect"]
	doc.EndOfValidity = dates["date of end of validity"]

	if dd := definition(html, "Form"); dd.Length() > 0 {
		doc.Form = nonEmpty(collapse(dd.Text()))
	}
	if dd := definition(html, "Author"); dd.Length() > 0 {
		doc.Authors = splitList(dd.Text())
	}
	if dd := definition(html, "Responsible body"); dd.Length() > 0 {
		doc.ResponsibleBody = nonEmpty(collapse(dd.Text()))
	}
	doc.Labels = labels(html)

	content, err := body(html)
	if err != nil {
		return nil, lexdoc.Errorf(lexdoc.EMALFORMED, "%s: %s", page.URL, lexdoc.ErrorMessage(err))
	}
	doc.Content = content

	doc.URLs = e.urls(page.URL, doc.ID)
	return doc, nil
}

// urls returns the HTML and PDF views of the act.
func (e *Extractor) urls(pageURL, celex string) []string {
	if id := refFromURL(pageURL); id != "" {
		return []string{
			documentURL(e.BaseURL, "TXT", id),
			documentURL(e.BaseURL, "TXT/PDF", id),
		}
	}
	return []string{
		e.BaseURL + "/legal-content/EN/TXT/?uri=CELEX:" + celex,
		e.BaseURL + "/legal-content/EN/TXT/PDF/?uri=CELEX:" + celex,
	}
}

// referenceNumber reads the paragraph after the title, skipping the hidden
// original title. Values that do not look like a reference are dropped.
func referenceNumber(title *goquery.Selection) *string {
	var ref string
	title.NextAllFiltered("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if id, _ := p.Attr("id"); id == "originalTitle" {
			return true
		}
		ref = collapse(p.Text())
		return false
	})
	if !referencePattern.MatchString(ref) {
		return nil
	}
	return &ref
}

// metadataDates reads the dt/dd pairs of the dates list, keyed by lower
// case label.
func metadataDates(html *goquery.Document) map[string]*time.Time {
	dates := make(map[string]*time.Time)
	dl := html.Find("dl.NMetadata").First()
	dts := dl.Find("dt")
	dds := dl.Find("dd")
	for i := 0; i < dts.Length() && i < dds.Length(); i++ {
		label := strings.ToLower(collapse(dts.Eq(i).Text()))
		label = strings.TrimSuffix(label, ":")
		value, _, _ := strings.Cut(dds.Eq(i).Text(), ";")
		if d, ok := parseDate(value); ok {
			dates[label] = &d
		}
	}
	return dates
}

func parseDate(s string) (time.Time, bool) {
	s = collapse(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// definition returns the dd following the first dt whose text contains label.
func definition(html *goquery.Document, label string) *goquery.Selection {
	dt := html.Find("dt").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(s.Text(), label)
	}).First()
	if dt.Length() == 0 {
		return dt
	}
	return dt.NextAllFiltered("dd").First()
}

// labels collects EUROVOC descriptors, subject matters and directory codes
// in page order without repeats.
func labels(html *goquery.Document) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, section := range []string{"EUROVOC descriptor", "Subject matter"} {
		definition(html, section).Find("li").Each(func(_ int, li *goquery.Selection) {
			add(collapse(li.Text()))
		})
	}
	definition(html, "Directory code").Find("li").Each(func(_ int, li *goquery.Selection) {
		if f := strings.Fields(li.Text()); len(f) > 0 {
			add(f[0])
		}
	})
	return out
}

// body returns the act text, one line per non-empty paragraph or table.
func body(html *goquery.Document) (string, error) {
	var root *goquery.Selection
	for _, sel := range contentSelectors {
		if s := html.Find(sel).First(); s.Length() > 0 {
			root = s
			break
		}
	}
	if root == nil {
		return "", lexdoc.Errorf(lexdoc.EMALFORMED, "no content section")
	}

	var lines []string
	root.Find("p, table").Each(func(_ int, s *goquery.Selection) {
		if skipped(s) {
			return
		}
		// Paragraphs inside tables are covered by the table line.
		if goquery.NodeName(s) == "p" && s.ParentsUntilSelection(root).Filter("table").Length() > 0 {
			return
		}
		if line := collapse(s.Text()); line != "" {
			lines = append(lines, line)
		}
	})
	return strings.Join(lines, "\n"), nil
}

func skipped(s *goquery.Selection) bool {
	for _, class := range skippedClasses {
		if s.HasClass(class) {
			return true
		}
	}
	return false
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = collapse(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
