package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/lexdoc"
	"github.com/fwojciec/lexdoc/crawl"
	"github.com/fwojciec/lexdoc/goquery"
	lexhttp "github.com/fwojciec/lexdoc/http"
	"gopkg.in/yaml.v3"
)

// Settings are the harvest settings after merging defaults, the
// configuration file and command-line flags, in that order.
type Settings struct {
	Output         string        `yaml:"output"`
	BaseURL        string        `yaml:"base_url"`
	UserAgent      string        `yaml:"user_agent"`
	Concurrency    int           `yaml:"concurrency"`
	Rate           float64       `yaml:"rate"`
	Burst          int           `yaml:"burst"`
	Retries        int           `yaml:"retries"`
	RetryBase      time.Duration `yaml:"retry_base"`
	RetryMax       time.Duration `yaml:"retry_max"`
	RetryJitter    float64       `yaml:"retry_jitter"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout"`
	SessionTimeout time.Duration `yaml:"session_timeout"`
	PrefetchDedup  *bool         `yaml:"prefetch_dedup"`
	MetricsFile    string        `yaml:"metrics_file"`
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	prefetch := true
	return Settings{
		Output:        defaultOutputDir(),
		BaseURL:       goquery.DefaultBaseURL,
		UserAgent:     lexhttp.DefaultUserAgent,
		Concurrency:   4,
		Rate:          2,
		Burst:         4,
		Retries:       5,
		RetryBase:     4 * time.Second,
		RetryMax:      60 * time.Second,
		RetryJitter:   0.25,
		FetchTimeout:  lexhttp.DefaultFetchTimeout,
		PrefetchDedup: &prefetch,
	}
}

func defaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "documents"
	}
	return filepath.Join(home, ".lexdoc", "documents")
}

// LoadSettings returns the defaults overlaid with the YAML file at path.
// An empty path yields the defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s, lexdoc.Errorf(lexdoc.EINVALID, "read config %s: %v", path, err)
	}

	var file Settings
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return s, lexdoc.Errorf(lexdoc.EINVALID, "parse config %s: %v", path, err)
	}
	s.merge(file)
	return s, nil
}

// merge overlays the non-zero values of o.
func (s *Settings) merge(o Settings) {
	if o.Output != "" {
		s.Output = o.Output
	}
	if o.BaseURL != "" {
		s.BaseURL = o.BaseURL
	}
	if o.UserAgent != "" {
		s.UserAgent = o.UserAgent
	}
	if o.Concurrency != 0 {
		s.Concurrency = o.Concurrency
	}
	if o.Rate != 0 {
		s.Rate = o.Rate
	}
	if o.Burst != 0 {
		s.Burst = o.Burst
	}
	if o.Retries != 0 {
		s.Retries = o.Retries
	}
	if o.RetryBase != 0 {
		s.RetryBase = o.RetryBase
	}
	if o.RetryMax != 0 {
		s.RetryMax = o.RetryMax
	}
	if o.RetryJitter != 0 {
		s.RetryJitter = o.RetryJitter
	}
	if o.FetchTimeout != 0 {
		s.FetchTimeout = o.FetchTimeout
	}
	if o.SessionTimeout != 0 {
		s.SessionTimeout = o.SessionTimeout
	}
	if o.PrefetchDedup != nil {
		s.PrefetchDedup = o.PrefetchDedup
	}
	if o.MetricsFile != "" {
		s.MetricsFile = o.MetricsFile
	}
}

// apply overlays the flags that were given on the command line.
func (c *HarvestCmd) apply(s *Settings) {
	flags := Settings{
		Output:         c.Output,
		BaseURL:        c.BaseURL,
		UserAgent:      c.UserAgent,
		Concurrency:    c.Concurrency,
		Rate:           c.Rate,
		Burst:          c.Burst,
		Retries:        c.Retries,
		RetryBase:      c.RetryBase,
		RetryMax:       c.RetryMax,
		FetchTimeout:   c.FetchTimeout,
		SessionTimeout: c.Timeout,
		MetricsFile:    c.MetricsFile,
	}
	if c.NoPrefetchDedup {
		off := false
		flags.PrefetchDedup = &off
	}
	s.merge(flags)
}

// Range parses the command's date arguments. A missing end date means a
// single-day range.
func (c *HarvestCmd) Range() (lexdoc.DateRange, error) {
	start, err := lexdoc.ParseDay(c.Start)
	if err != nil {
		return lexdoc.DateRange{}, err
	}
	end := start
	if c.End != "" {
		if end, err = lexdoc.ParseDay(c.End); err != nil {
			return lexdoc.DateRange{}, err
		}
	}
	r := lexdoc.NewDateRange(start, end)
	return r, r.Validate()
}

// CrawlConfig converts s into the harvester configuration for r and checks
// it, including that r does not start before the journal's act-by-act era.
func (s Settings) CrawlConfig(r lexdoc.DateRange) (crawl.Config, error) {
	cfg := crawl.Config{
		Range:          r,
		Concurrency:    s.Concurrency,
		Rate:           s.Rate,
		Burst:          s.Burst,
		RetryLimit:     s.Retries,
		RetryBase:      s.RetryBase,
		RetryMax:       s.RetryMax,
		RetryJitter:    s.RetryJitter,
		FetchTimeout:   s.FetchTimeout,
		SessionTimeout: s.SessionTimeout,
		PrefetchDedup:  s.PrefetchDedup == nil || *s.PrefetchDedup,
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if r.Start.Before(goquery.EarliestJournalDate) {
		return cfg, lexdoc.Errorf(lexdoc.EINVALID, "start date %s is before the earliest supported journal date %s",
			r.Start.Format(lexdoc.DateLayout), goquery.EarliestJournalDate.Format(lexdoc.DateLayout))
	}
	if s.Output == "" {
		return cfg, lexdoc.Errorf(lexdoc.EINVALID, "output directory required")
	}
	return cfg, nil
}
