package main

import (
	"fmt"

	"github.com/fwojciec/lexdoc"
	"github.com/fwojciec/lexdoc/crawl"
	"github.com/fwojciec/lexdoc/fs"
	"github.com/fwojciec/lexdoc/goquery"
	lexhttp "github.com/fwojciec/lexdoc/http"
	"github.com/fwojciec/lexdoc/prometheus"
	lexslog "github.com/fwojciec/lexdoc/slog"
)

// Run executes the harvest command.
func (c *HarvestCmd) Run(deps *Dependencies) error {
	settings, err := LoadSettings(deps.ConfigPath)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lexdoc.ErrorMessage(err))
		return err
	}
	c.apply(&settings)

	rng, err := c.Range()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lexdoc.ErrorMessage(err))
		return err
	}
	cfg, err := settings.CrawlConfig(rng)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lexdoc.ErrorMessage(err))
		return err
	}

	storage := deps.Storage
	if storage == nil {
		storage = fs.NewStore(settings.Output)
	}
	fetcher := deps.Fetcher
	if fetcher == nil {
		fetcher = lexhttp.NewFetcher(
			lexhttp.WithUserAgent(settings.UserAgent),
			lexhttp.WithTimeout(settings.FetchTimeout),
		)
	}

	if err := c.reconcile(deps, storage); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lexdoc.ErrorMessage(err))
		return err
	}

	metrics := prometheus.New()
	h := &crawl.Harvester{
		Lister:      lexslog.NewLoggingLister(goquery.NewLister(settings.BaseURL), deps.Logger),
		Fetcher:     lexslog.NewLoggingFetcher(fetcher, deps.Logger),
		Extractor:   lexslog.NewLoggingExtractor(goquery.NewExtractor(settings.BaseURL), deps.Logger),
		Index:       deps.Index,
		Storage:     storage,
		Checkpoints: deps.Checkpoints,
		Sink:        deps.Records,
		Recorder:    metrics,
		Logger:      deps.Logger,
	}
	if !c.Quiet {
		h.Progress = func(event crawl.ProgressEvent) {
			day := event.Date.Format(lexdoc.DateLayout)
			switch event.Type {
			case crawl.ProgressDateStarted:
				fmt.Fprintf(deps.Stdout, "%s  %d acts listed\n", day, event.Total)
			case crawl.ProgressCandidateFinished:
				if event.Outcome == lexdoc.OutcomeFailed || event.Outcome == lexdoc.OutcomeRejected {
					fmt.Fprintf(deps.Stderr, "  %s %s\n", event.Outcome, crawl.TruncateURL(event.URL, 80))
				}
			case crawl.ProgressDateFailed:
				fmt.Fprintf(deps.Stderr, "%s  listing unavailable: %v\n", day, event.Error)
			}
		}
	}

	summary, runErr := h.Run(deps.Ctx, cfg)
	if summary != nil {
		crawl.FormatSummary(deps.Stdout, summary)
	}

	if settings.MetricsFile != "" {
		if err := metrics.WriteTextfile(settings.MetricsFile); err != nil {
			fmt.Fprintf(deps.Stderr, "error: write metrics: %v\n", err)
			if runErr == nil {
				return err
			}
		}
	}

	if runErr != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lexdoc.ErrorMessage(runErr))
		return runErr
	}
	return nil
}

// reconcile brings the index in line with storage when asked to, or when
// the index is empty and storage may hold documents from an earlier run.
func (c *HarvestCmd) reconcile(deps *Dependencies, storage lexdoc.Storage) error {
	if !c.Reconcile {
		n, err := deps.Index.Count(deps.Ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
	}

	r := &crawl.Reconciler{Storage: storage, Index: deps.Index, Logger: deps.Logger}
	res, err := r.Reconcile(deps.Ctx, crawl.ReconcileOptions{})
	if err != nil {
		return err
	}
	if res.Indexed > 0 || len(res.Duplicates) > 0 || len(res.Malformed) > 0 {
		printReconcile(deps, res)
	}
	return nil
}
