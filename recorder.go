package lexdoc

import "time"

// Recorder receives session measurements for export.
type Recorder interface {
	// RequestCompleted is called after every fetch attempt.
	RequestCompleted(err error)

	// RetryScheduled is called before each backoff sleep.
	RetryScheduled(delay time.Duration)

	// CandidateFinished is called once per candidate.
	CandidateFinished(outcome Outcome, d time.Duration)

	// DateFinished is called when a date's barrier completes.
	DateFinished(date time.Time, d time.Duration)

	// DocumentStored is called with the size of each stored document.
	DocumentStored(bytes int)

	// ValidationRejected is called once per violated field.
	ValidationRejected(field string)
}
