package main_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/lexdoc"
	main "github.com/fwojciec/lexdoc/cmd/lexdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lexdoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSettings(t *testing.T) {
	t.Parallel()

	t.Run("empty path yields defaults", func(t *testing.T) {
		t.Parallel()

		s, err := main.LoadSettings("")

		require.NoError(t, err)
		assert.Equal(t, main.DefaultSettings().Concurrency, s.Concurrency)
		require.NotNil(t, s.PrefetchDedup)
		assert.True(t, *s.PrefetchDedup)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
output: /data/acts
concurrency: 8
rate: 0.5
retry_base: 2s
retry_max: 30s
prefetch_dedup: false
`)

		s, err := main.LoadSettings(path)

		require.NoError(t, err)
		assert.Equal(t, "/data/acts", s.Output)
		assert.Equal(t, 8, s.Concurrency)
		assert.Equal(t, 0.5, s.Rate)
		assert.Equal(t, 2*time.Second, s.RetryBase)
		assert.Equal(t, 30*time.Second, s.RetryMax)
		assert.False(t, *s.PrefetchDedup)
		assert.Equal(t, main.DefaultSettings().Burst, s.Burst)
	})

	t.Run("empty file yields defaults", func(t *testing.T) {
		t.Parallel()

		s, err := main.LoadSettings(writeConfig(t, ""))

		require.NoError(t, err)
		assert.Equal(t, main.DefaultSettings().Retries, s.Retries)
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadSettings(writeConfig(t, "concurency: 8\n"))

		assert.Equal(t, lexdoc.EINVALID, lexdoc.ErrorCode(err))
	})

	t.Run("missing file is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))

		assert.Equal(t, lexdoc.EINVALID, lexdoc.ErrorCode(err))
	})
}

func TestSettings_CrawlConfig(t *testing.T) {
	t.Parallel()

	march := lexdoc.DateRange{
		Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	t.Run("defaults produce a valid config", func(t *testing.T) {
		t.Parallel()

		cfg, err := main.DefaultSettings().CrawlConfig(march)

		require.NoError(t, err)
		assert.Equal(t, 5, cfg.RetryLimit)
		assert.True(t, cfg.PrefetchDedup)
		assert.Equal(t, march, cfg.Range)
	})

	tests := []struct {
		name   string
		modify func(*main.Settings)
		rng    lexdoc.DateRange
	}{
		{"negative concurrency", func(s *main.Settings) { s.Concurrency = -1 }, march},
		{"negative rate", func(s *main.Settings) { s.Rate = -1 }, march},
		{"base above max", func(s *main.Settings) { s.RetryBase = time.Minute; s.RetryMax = time.Second }, march},
		{"missing output", func(s *main.Settings) { s.Output = "" }, march},
		{"before earliest journal date", func(s *main.Settings) {}, lexdoc.DateRange{
			Start: time.Date(2023, 9, 29, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2023, 10, 3, 0, 0, 0, 0, time.UTC),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := main.DefaultSettings()
			tt.modify(&s)

			_, err := s.CrawlConfig(tt.rng)

			assert.Equal(t, lexdoc.EINVALID, lexdoc.ErrorCode(err))
		})
	}
}

func TestHarvestCmd_Range(t *testing.T) {
	t.Parallel()

	t.Run("single day when end is omitted", func(t *testing.T) {
		t.Parallel()

		r, err := (&main.HarvestCmd{Start: "2024-03-04"}).Range()

		require.NoError(t, err)
		assert.Equal(t, "2024-03-04..2024-03-04", r.Key())
	})

	t.Run("inverted range is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := (&main.HarvestCmd{Start: "2024-03-04", End: "2024-03-01"}).Range()

		assert.Equal(t, lexdoc.EINVALID, lexdoc.ErrorCode(err))
	})

	t.Run("malformed date is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := (&main.HarvestCmd{Start: "March 4"}).Range()

		assert.Equal(t, lexdoc.EINVALID, lexdoc.ErrorCode(err))
	})
}
