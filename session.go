package lexdoc

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the layout used for calendar dates throughout lexdoc.
const DateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange returns the range from start to end, truncated to UTC days.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: Day(start), End: Day(end)}
}

// Validate returns an error if the range is empty or inverted.
func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return Errorf(EINVALID, "date range requires start and end")
	}
	if r.End.Before(r.Start) {
		return Errorf(EINVALID, "date range inverted: %s is after %s",
			r.Start.Format(DateLayout), r.End.Format(DateLayout))
	}
	return nil
}

// Key identifies the range, e.g. for keying checkpoints.
func (r DateRange) Key() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

// Days returns every day in the range in order.
func (r DateRange) Days() []time.Time {
	var days []time.Time
	for d := Day(r.Start); !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Contains reports whether day falls within the range.
func (r DateRange) Contains(day time.Time) bool {
	day = Day(day)
	return !day.Before(r.Start) && !day.After(r.End)
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a date in DateLayout.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, Errorf(EINVALID, "invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// Session identifies one acquisition run. It travels in the context passed
// to every component call so that concurrent sessions stay isolated.
type Session struct {
	ID        string
	Range     DateRange
	StartedAt time.Time
}

// NewSession returns a session over r with a fresh ID.
func NewSession(r DateRange, now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Range:     r,
		StartedAt: now,
	}
}

type sessionKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session carried by ctx, or nil.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
