package mock

import (
	"sync"
	"time"

	"github.com/fwojciec/lexdoc"
)

var _ lexdoc.Recorder = (*Recorder)(nil)

// Recorder is a lexdoc.Recorder that counts calls. It is safe for
// concurrent use.
type Recorder struct {
	mu         sync.Mutex
	Requests   int
	Retries    int
	Outcomes   map[lexdoc.Outcome]int
	Dates      int
	Bytes      int
	Violations map[string]int
}

func (r *Recorder) RequestCompleted(error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Requests++
}

func (r *Recorder) RetryScheduled(time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Retries++
}

func (r *Recorder) CandidateFinished(outcome lexdoc.Outcome, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Outcomes == nil {
		r.Outcomes = make(map[lexdoc.Outcome]int)
	}
	r.Outcomes[outcome]++
}

func (r *Recorder) DateFinished(time.Time, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Dates++
}

func (r *Recorder) DocumentStored(bytes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Bytes += bytes
}

func (r *Recorder) ValidationRejected(field string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Violations == nil {
		r.Violations = make(map[string]int)
	}
	r.Violations[field]++
}
