// Package crawl drives acquisition sessions. It walks a date range one day at
// a time, lists each day's journal, and pulls every listed act through rate
// limiting, fetch with retry, extraction, validation, deduplication and
// storage, checkpointing each day once all its candidates are settled.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/lexdoc"
	"golang.org/x/sync/errgroup"
)

// Harvester orchestrates acquisition sessions.
type Harvester struct {
	Lister      lexdoc.Lister
	Fetcher     lexdoc.Fetcher
	Extractor   lexdoc.Extractor
	Validator   *lexdoc.Validator // defaults to lexdoc.NewValidator()
	Index       lexdoc.DocumentIndex
	Storage     lexdoc.Storage
	Checkpoints lexdoc.CheckpointStore

	// Optional collaborators.
	Sink     lexdoc.RecordSink
	Recorder lexdoc.Recorder
	Logger   *slog.Logger
	Progress ProgressFunc

	// Limiter is shared by every session run on this Harvester. When nil,
	// each session builds its own from Config.Rate and Config.Burst.
	Limiter lexdoc.RateLimiter

	// Sleep and Rand replace backoff timing and jitter in tests.
	Sleep SleepFunc
	Rand  func() float64
}

// ProgressEvent reports progress during a session.
type ProgressEvent struct {
	Type      ProgressType
	Date      time.Time
	URL       string
	Outcome   lexdoc.Outcome
	Completed int
	Total     int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressDateStarted ProgressType = iota
	ProgressCandidateFinished
	ProgressDateFinished
	ProgressDateFailed
)

// ProgressFunc is a callback for reporting session progress.
// Calls are serialized.
type ProgressFunc func(event ProgressEvent)

// Run executes one session over cfg.Range and returns its summary.
//
// Per-document failures are counted and never returned. A non-nil error
// means the session stopped early: invalid configuration, a fault in the
// index, storage or checkpoint substrate, or cancellation. The summary is
// returned in every case, with Aborted and Fault set when err is non-nil.
func (h *Harvester) Run(ctx context.Context, cfg Config) (*lexdoc.SessionSummary, error) {
	begin := time.Now()
	summary := &lexdoc.SessionSummary{}

	if err := cfg.Validate(); err != nil {
		return h.finish(summary, begin, err)
	}

	session := lexdoc.NewSession(cfg.Range, begin.UTC())
	summary.SessionID = session.ID
	ctx = lexdoc.NewContext(ctx, session)
	if cfg.SessionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.SessionTimeout)
		defer cancel()
	}

	limiter := h.Limiter
	if limiter == nil {
		limiter = NewRateLimiter(cfg.Rate, cfg.Burst)
	}

	validator := h.Validator
	if validator == nil {
		validator = lexdoc.NewValidator()
	}

	s := &harvest{
		h:         h,
		cfg:       cfg,
		validator: validator,
		session:   session,
		summary:   summary,
		limiter:   limiter,
		logger:    h.logger().With("session", session.ID),
		rec:       h.recorder(),
	}
	s.retryer = &Retryer{
		MaxAttempts: cfg.RetryLimit,
		Backoff:     Backoff{Base: cfg.RetryBase, Max: cfg.RetryMax, Jitter: cfg.RetryJitter},
		Sleep:       h.Sleep,
		Rand:        h.Rand,
		OnRetry:     s.onRetry,
	}

	s.logger.Info("session started",
		"range", cfg.Range.Key(),
		"concurrency", cfg.Concurrency,
		"rate", cfg.Rate,
	)
	return h.finish(summary, begin, s.run(ctx))
}

func (h *Harvester) finish(summary *lexdoc.SessionSummary, begin time.Time, err error) (*lexdoc.SessionSummary, error) {
	summary.Duration = time.Since(begin)
	if err != nil {
		summary.Aborted = true
		summary.Fault = err
	}
	h.logger().Info("session finished",
		"session", summary.SessionID,
		"listed", summary.Listed,
		"stored", summary.Stored,
		"duplicate", summary.Duplicate,
		"rejected", summary.Rejected,
		"failed", summary.Failed,
		"retried", summary.Retried,
		"duration", summary.Duration,
		"err", err,
	)
	return summary, err
}

func (h *Harvester) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return h.Logger
}

func (h *Harvester) recorder() lexdoc.Recorder {
	if h.Recorder == nil {
		return nopRecorder{}
	}
	return h.Recorder
}

// harvest is the state of one running session.
type harvest struct {
	h         *Harvester
	cfg       Config
	validator *lexdoc.Validator
	session   *lexdoc.Session
	limiter   lexdoc.RateLimiter
	retryer   *Retryer
	logger    *slog.Logger
	rec       lexdoc.Recorder

	mu      sync.Mutex
	summary *lexdoc.SessionSummary
}

func (s *harvest) run(ctx context.Context) error {
	rng := s.cfg.Range
	days := rng.Days()

	cp, err := s.h.Checkpoints.Load(ctx, rng)
	if err != nil {
		return fmt.Errorf("load checkpoint: %w", err)
	}
	start := 0
	if cp != nil {
		resume := cp.Resume()
		for start < len(days) && days[start].Before(resume) {
			start++
		}
		s.summary.SkippedDates = start
		s.logger.Info("resuming from checkpoint",
			"last_date", cp.LastDate.Format(lexdoc.DateLayout),
			"skipped", start,
		)
	}

	// After a date fails to list, later dates are still processed but the
	// checkpoint stays at the last date that was fully drained.
	frozen := false
	for _, date := range days[start:] {
		if err := ctx.Err(); err != nil {
			return err
		}

		processed, ok, err := s.processDate(ctx, date)
		if err != nil {
			return err
		}
		s.summary.Dates++
		if !ok {
			frozen = true
			continue
		}
		if frozen {
			continue
		}

		// The date is complete; record it even if cancellation just arrived.
		err = s.h.Checkpoints.Advance(context.WithoutCancel(ctx), &lexdoc.Checkpoint{
			Range:        rng,
			LastDate:     date,
			Processed:    processed,
			SessionStart: s.session.StartedAt,
		})
		if err != nil {
			return fmt.Errorf("advance checkpoint to %s: %w", date.Format(lexdoc.DateLayout), err)
		}
	}

	if frozen {
		return nil
	}
	if err := s.h.Checkpoints.Clear(ctx, rng); err != nil {
		return fmt.Errorf("clear checkpoint: %w", err)
	}
	return nil
}

// processDate lists date and drains all of its candidates. It reports false
// if the listing could not be obtained. A non-nil error is fatal.
func (s *harvest) processDate(ctx context.Context, date time.Time) (int, bool, error) {
	begin := time.Now()
	logger := s.logger.With("date", date.Format(lexdoc.DateLayout))

	candidates, err := s.list(ctx, date)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, false, ctxErr
		}
		logger.Error("listing failed", "err", err)
		s.summary.ListingFailures++
		s.progress(ProgressEvent{Type: ProgressDateFailed, Date: date, Error: err})
		return 0, false, nil
	}

	total := len(candidates)
	s.summary.Listed += total
	s.progress(ProgressEvent{Type: ProgressDateStarted, Date: date, Total: total})

	var completed int
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for _, c := range candidates {
		g.Go(func() error {
			cbegin := time.Now()
			outcome, err := s.process(gctx, c)
			if err != nil {
				return err
			}

			s.rec.CandidateFinished(outcome, time.Since(cbegin))

			s.mu.Lock()
			defer s.mu.Unlock()
			s.summary.Add(outcome)
			completed++
			s.progress(ProgressEvent{
				Type:      ProgressCandidateFinished,
				Date:      date,
				URL:       c.URL,
				Outcome:   outcome,
				Completed: completed,
				Total:     total,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, false, err
	}

	s.rec.DateFinished(date, time.Since(begin))
	s.progress(ProgressEvent{Type: ProgressDateFinished, Date: date, Completed: total, Total: total})
	logger.Info("date complete", "candidates", total, "duration", time.Since(begin))
	return total, true, nil
}

// list fetches and parses the journal listing for date. A missing listing
// means nothing was published that day.
func (s *harvest) list(ctx context.Context, date time.Time) ([]*lexdoc.Candidate, error) {
	page, _, err := s.fetch(ctx, s.h.Lister.ListingURL(date))
	if lexdoc.ErrorCode(err) == lexdoc.ENOTFOUND {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.h.Lister.ParseListing(page, date)
}

// fetch retrieves url under the rate limiter with retry. Every attempt
// acquires its own token.
func (s *harvest) fetch(ctx context.Context, url string) (*lexdoc.RawPage, int, error) {
	var page *lexdoc.RawPage
	attempts, err := s.retryer.Do(ctx, func(ctx context.Context) error {
		if err := s.limiter.Acquire(ctx); err != nil {
			return err
		}

		actx := ctx
		if s.cfg.FetchTimeout > 0 {
			var cancel context.CancelFunc
			actx, cancel = context.WithTimeout(ctx, s.cfg.FetchTimeout)
			defer cancel()
		}

		p, err := s.h.Fetcher.Fetch(actx, url)
		if err != nil && ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			err = lexdoc.Errorf(lexdoc.EUNAVAILABLE, "fetch %s: attempt timed out after %s", url, s.cfg.FetchTimeout)
		}
		s.rec.RequestCompleted(err)
		if err != nil {
			return err
		}
		page = p
		return nil
	})
	return page, attempts, err
}

// process takes one candidate to a terminal outcome. A non-nil error means
// the session must stop and the candidate has no outcome.
func (s *harvest) process(ctx context.Context, c *lexdoc.Candidate) (lexdoc.Outcome, error) {
	logger := s.logger.With("url", c.URL)

	if s.cfg.PrefetchDedup && c.Ref != "" {
		seen, err := s.h.Index.SeenRef(ctx, c.Ref)
		if err != nil {
			return "", fmt.Errorf("index lookup %s: %w", c.Ref, err)
		}
		if seen {
			logger.Debug("already stored", "ref", c.Ref)
			return lexdoc.OutcomeDuplicate, nil
		}
	}

	page, attempts, err := s.fetch(ctx, c.URL)
	if attempts > 1 {
		s.count(func(sum *lexdoc.SessionSummary) { sum.Retried++ })
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		logger.Warn("fetch failed", "kind", "fetch", "attempts", attempts, "err", err)
		return lexdoc.OutcomeFailed, nil
	}
	s.count(func(sum *lexdoc.SessionSummary) { sum.Fetched++ })

	doc, err := s.h.Extractor.Extract(page)
	if err != nil {
		logger.Warn("parse failed", "kind", "parse", "err", err)
		return lexdoc.OutcomeFailed, nil
	}
	s.count(func(sum *lexdoc.SessionSummary) { sum.Parsed++ })

	if doc.Ref == "" {
		doc.Ref = c.Ref
	}
	doc.ListingDate = c.Date
	doc.Fingerprint = Fingerprint(doc.Content)

	result := s.validator.Validate(doc)
	if !result.Accepted() {
		violations := make([]string, len(result.Violations))
		for i, v := range result.Violations {
			violations[i] = v.String()
			s.rec.ValidationRejected(v.Field)
		}
		logger.Warn("document rejected",
			"kind", "validation",
			"id", doc.ID,
			"violations", strings.Join(violations, "; "),
		)
		return lexdoc.OutcomeRejected, nil
	}
	s.count(func(sum *lexdoc.SessionSummary) { sum.Validated++ })

	// The listing key may have been wrong; the identifier from the document
	// itself is authoritative.
	claimed, err := s.h.Index.Reserve(ctx, doc.ID)
	if err != nil {
		return "", fmt.Errorf("index reserve %s: %w", doc.ID, err)
	}
	if !claimed {
		logger.Debug("duplicate document", "id", doc.ID)
		return lexdoc.OutcomeDuplicate, nil
	}
	return s.store(ctx, doc, logger)
}

// store writes doc and records it in the index. Both run to completion even
// if the session is canceled meanwhile.
func (s *harvest) store(ctx context.Context, doc *lexdoc.Document, logger *slog.Logger) (lexdoc.Outcome, error) {
	ctx = context.WithoutCancel(ctx)

	path, err := s.h.Storage.Store(ctx, doc)
	if err != nil {
		s.h.Index.Release(doc.ID)
		if lexdoc.ErrorCode(err) == lexdoc.EINVALID {
			logger.Warn("store refused document", "kind", "store", "id", doc.ID, "err", err)
			return lexdoc.OutcomeFailed, nil
		}
		return "", fmt.Errorf("store %s: %w", doc.ID, err)
	}

	err = s.h.Index.Record(ctx, &lexdoc.IndexEntry{
		ID:          doc.ID,
		Ref:         doc.Ref,
		Fingerprint: doc.Fingerprint,
		Path:        path,
		StoredAt:    time.Now().UTC(),
	})
	if err != nil {
		s.h.Index.Release(doc.ID)
		return "", fmt.Errorf("index record %s: %w", doc.ID, err)
	}

	s.count(func(sum *lexdoc.SessionSummary) { sum.StoredBytes += len(doc.Content) })
	s.rec.DocumentStored(len(doc.Content))
	logger.Info("stored", "id", doc.ID, "path", path)

	if s.h.Sink != nil {
		if err := s.h.Sink.PutRecord(ctx, doc, path); err != nil {
			logger.Error("record sink failed", "id", doc.ID, "err", err)
		}
	}
	return lexdoc.OutcomeStored, nil
}

func (s *harvest) onRetry(attempt int, delay time.Duration, err error) {
	s.rec.RetryScheduled(delay)
	s.logger.Debug("retrying", "attempt", attempt, "delay", delay, "err", err)
}

func (s *harvest) count(fn func(*lexdoc.SessionSummary)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.summary)
}

func (s *harvest) progress(event ProgressEvent) {
	if s.h.Progress != nil {
		s.h.Progress(event)
	}
}

// nopRecorder discards measurements.
type nopRecorder struct{}

func (nopRecorder) RequestCompleted(error) {}
func (nopRecorder) RetryScheduled(time.Duration) {}
func (nopRecorder) CandidateFinished(lexdoc.Outcome, time.Duration) {}
func (nopRecorder) DateFinished(time.Time, time.Duration) {}
func (nopRecorder) DocumentStored(int) {}
func (nopRecorder) ValidationRejected(string) {}
