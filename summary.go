package lexdoc

import "time"

// Outcome is the terminal state of a candidate.
type Outcome string

// Terminal outcomes.
const (
	OutcomeStored    Outcome = "stored"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeRejected  Outcome = "rejected"
	OutcomeFailed    Outcome = "failed"
)

// SessionSummary counts what happened to the candidates of one session.
type SessionSummary struct {
	SessionID string `json:"sessionId"`

	Listed    int `json:"listed"`
	Fetched   int `json:"fetched"`
	Parsed    int `json:"parsed"`
	Validated int `json:"validated"`
	Duplicate int `json:"duplicate"`
	Stored    int `json:"stored"`
	Rejected  int `json:"rejected"`
	Failed    int `json:"failed"`

	// StoredBytes is the total content size of stored documents.
	StoredBytes int `json:"storedBytes"`

	// Retried counts candidates that needed more than one fetch attempt.
	Retried int `json:"retried"`

	// ListingFailures counts dates whose listing could not be fetched.
	ListingFailures int `json:"listingFailures"`

	// Dates counts dates processed; SkippedDates those skipped on resume.
	Dates        int `json:"dates"`
	SkippedDates int `json:"skippedDates"`

	Duration time.Duration `json:"duration"`

	// Aborted is set when the session stopped on a fatal fault, which is
	// kept in Fault. Per-document failures never abort a session.
	Aborted bool  `json:"aborted"`
	Fault   error `json:"-"`
}

// Terminal returns the number of candidates that reached a terminal outcome.
func (s *SessionSummary) Terminal() int {
	return s.Stored + s.Duplicate + s.Rejected + s.Failed
}

// Add counts one terminal outcome.
func (s *SessionSummary) Add(o Outcome) {
	switch o {
	case OutcomeStored:
		s.Stored++
	case OutcomeDuplicate:
		s.Duplicate++
	case OutcomeRejected:
		s.Rejected++
	case OutcomeFailed:
		s.Failed++
	}
}
