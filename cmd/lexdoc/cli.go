package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/lexdoc"
	"github.com/fwojciec/lexdoc/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx         context.Context
	Stdout      io.Writer
	Stderr      io.Writer
	Logger      *slog.Logger
	ConfigPath  string
	DB          *sqlite.DB
	Index       lexdoc.DocumentIndex
	Checkpoints lexdoc.CheckpointStore
	Records     lexdoc.RecordService

	// Built from settings when nil.
	Fetcher lexdoc.Fetcher
	Storage lexdoc.Storage
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"C" env:"LEXDOC_CONFIG" help:"YAML configuration file"`
	DB      string `help:"SQLite database path (default $LEXDOC_DB or ~/.lexdoc/lexdoc.db)"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Harvest   HarvestCmd   `cmd:"" help:"Harvest acts published in a date range"`
	Reconcile ReconcileCmd `cmd:"" help:"Rebuild the document index from storage"`
	Status    StatusCmd    `cmd:"" help:"Show index size and open checkpoints"`
	List      ListCmd      `cmd:"" help:"List harvested acts"`
}

// HarvestCmd is the "harvest" subcommand. Zero-valued flags fall back to the
// configuration file and then to built-in defaults.
type HarvestCmd struct {
	Start string `arg:"" help:"First journal date (YYYY-MM-DD)"`
	End   string `arg:"" optional:"" help:"Last journal date (YYYY-MM-DD), defaults to start"`

	Output          string        `short:"o" help:"Storage directory"`
	BaseURL         string        `name:"base-url" help:"EUR-Lex site root"`
	UserAgent       string        `name:"user-agent" help:"User-Agent header"`
	Concurrency     int           `short:"c" help:"Acts processed in parallel per date"`
	Rate            float64       `help:"Requests per second"`
	Burst           int           `help:"Request burst size"`
	Retries         int           `help:"Maximum fetch attempts per request"`
	RetryBase       time.Duration `name:"retry-base" help:"First retry delay"`
	RetryMax        time.Duration `name:"retry-max" help:"Retry delay cap"`
	FetchTimeout    time.Duration `name:"fetch-timeout" help:"Timeout per fetch attempt"`
	Timeout         time.Duration `help:"Timeout for the whole session"`
	NoPrefetchDedup bool          `name:"no-prefetch-dedup" help:"Fetch every listed act even if its journal reference is indexed"`
	Reconcile       bool          `help:"Reconcile the index with storage before harvesting"`
	MetricsFile     string        `name:"metrics-file" help:"Write Prometheus metrics to this file at the end"`
	Quiet           bool          `short:"q" help:"Only print the summary"`
}

// ReconcileCmd is the "reconcile" subcommand.
type ReconcileCmd struct {
	Output  string `short:"o" help:"Storage directory"`
	Rebuild bool   `help:"Reset the index before scanning"`
	Prune   bool   `help:"Delete duplicate files for the same act"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct{}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	From  string `help:"Earliest listing date (YYYY-MM-DD)"`
	To    string `help:"Latest listing date (YYYY-MM-DD)"`
	Form  string `help:"Only acts of this form"`
	Label string `help:"Only acts carrying this label"`
	Limit int    `short:"n" default:"50" help:"Maximum acts to show"`
}
