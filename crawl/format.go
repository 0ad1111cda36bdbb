package crawl

import (
	"fmt"
	"io"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/lexdoc"
)

// Fingerprint returns the xxhash of content as 16 hex digits. It is kept for
// change detection and never used to decide identity.
func Fingerprint(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatSummary writes a human-readable session summary to w.
func FormatSummary(w io.Writer, s *lexdoc.SessionSummary) {
	fmt.Fprintf(w, "Session %s\n", s.SessionID)
	fmt.Fprintf(w, "  dates:      %d processed, %d skipped, %d unlisted\n", s.Dates, s.SkippedDates, s.ListingFailures)
	fmt.Fprintf(w, "  listed:     %d\n", s.Listed)
	fmt.Fprintf(w, "  fetched:    %d (%d retried)\n", s.Fetched, s.Retried)
	fmt.Fprintf(w, "  parsed:     %d\n", s.Parsed)
	fmt.Fprintf(w, "  validated:  %d\n", s.Validated)
	fmt.Fprintf(w, "  stored:     %d (%s)\n", s.Stored, FormatBytes(s.StoredBytes))
	fmt.Fprintf(w, "  duplicate:  %d\n", s.Duplicate)
	fmt.Fprintf(w, "  rejected:   %d\n", s.Rejected)
	fmt.Fprintf(w, "  failed:     %d\n", s.Failed)
	fmt.Fprintf(w, "  duration:   %s\n", s.Duration.Round(time.Millisecond))
	if s.Aborted {
		fmt.Fprintf(w, "  aborted:    %v\n", s.Fault)
	}
}
