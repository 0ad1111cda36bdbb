// Package prometheus implements lexdoc.Recorder with Prometheus collectors.
package prometheus

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/lexdoc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ensure Metrics implements lexdoc.Recorder at compile time.
var _ lexdoc.Recorder = (*Metrics)(nil)

// Metrics holds the session collectors on a private registry.
type Metrics struct {
	Requests          *prometheus.CounterVec
	RetryAttempts     prometheus.Counter
	Documents         *prometheus.CounterVec
	ValidationErrors  *prometheus.CounterVec
	StoredBytes       prometheus.Counter
	DocumentDurations prometheus.Histogram
	DateDurations     prometheus.Histogram

	registry *prometheus.Registry
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lexdoc_requests_total",
			Help: "Fetch attempts by result status",
		}, []string{"status"}),
		RetryAttempts: factory.NewCounter(prometheus.CounterOpts{
			Name: "lexdoc_retry_attempts_total",
			Help: "Retries scheduled after transient failures",
		}),
		Documents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lexdoc_documents_processed_total",
			Help: "Candidates by terminal outcome",
		}, []string{"outcome"}),
		ValidationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lexdoc_validation_errors_total",
			Help: "Validation violations by field",
		}, []string{"field"}),
		StoredBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "lexdoc_stored_bytes_total",
			Help: "Content bytes of stored documents",
		}),
		DocumentDurations: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "lexdoc_document_processing_seconds",
			Help:    "Time from first fetch to terminal outcome per candidate",
			Buckets: []float64{1, 2, 5, 10, 30, 60, 120},
		}),
		DateDurations: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "lexdoc_date_processing_seconds",
			Help:    "Time to process every candidate of a date",
			Buckets: []float64{10, 30, 60, 120, 300, 600},
		}),
		registry: reg,
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RequestCompleted counts a fetch attempt under its error code, or
// "success".
func (m *Metrics) RequestCompleted(err error) {
	m.Requests.WithLabelValues(status(err)).Inc()
}

func status(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return lexdoc.ErrorCode(err)
	}
}

// RetryScheduled counts a retry.
func (m *Metrics) RetryScheduled(time.Duration) {
	m.RetryAttempts.Inc()
}

// CandidateFinished counts the outcome and observes the duration.
func (m *Metrics) CandidateFinished(outcome lexdoc.Outcome, d time.Duration) {
	m.Documents.WithLabelValues(string(outcome)).Inc()
	m.DocumentDurations.Observe(d.Seconds())
}

// DateFinished observes the time spent on one date.
func (m *Metrics) DateFinished(_ time.Time, d time.Duration) {
	m.DateDurations.Observe(d.Seconds())
}

// DocumentStored adds the stored content size.
func (m *Metrics) DocumentStored(bytes int) {
	m.StoredBytes.Add(float64(bytes))
}

// ValidationRejected counts a violation of field.
func (m *Metrics) ValidationRejected(field string) {
	m.ValidationErrors.WithLabelValues(field).Inc()
}

// WriteTextfile writes all metrics to path in the text exposition format,
// atomically, for pickup by a node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
