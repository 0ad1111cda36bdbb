package main_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	main "github.com/fwojciec/lexdoc/cmd/lexdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPage = `<html><body><div id="MainContent">
<a href="/legal-content/EN/TXT/?uri=OJ:L_202400123">Commission Implementing Regulation (EU) 2024/123</a>
<a href="/legal-content/EN/TXT/?uri=OJ:L_202490001">Corrigendum</a>
</div></body></html>`

const actPage = `<html><body>
<p class="DocumentTitle">Document 32024R0123</p>
<p id="title">Commission Implementing Regulation (EU) 2024/123</p>
<p>C/2024/1234</p>
<dl class="NMetadata"><dt>Date of document:</dt><dd>01/03/2024</dd></dl>
<dl><dt>Form:</dt><dd>Implementing regulation</dd>
<dt>EUROVOC descriptor:</dt><dd><ul><li>import</li></ul></dd></dl>
<div id="document-content"><p>Article 1</p><p>This Regulation shall enter into force.</p></div>
</body></html>`

// newSource serves a journal with one act on 4 March 2024.
func newSource(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var actFetches atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/oj/daily-view/L-series/default.html", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ojDate") != "04032024" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(listingPage))
	})
	mux.HandleFunc("/legal-content/EN/ALL/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("uri") != "OJ:L_202400123" {
			http.NotFound(w, r)
			return
		}
		actFetches.Add(1)
		_, _ = w.Write([]byte(actPage))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &actFetches
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	m := main.NewMain()
	err := m.Run(context.Background(), args, stdout, stderr)
	return stdout.String(), stderr.String(), err
}

func TestMain_Harvest(t *testing.T) {
	t.Parallel()

	srv, actFetches := newSource(t)
	dir := t.TempDir()
	db := filepath.Join(dir, "lexdoc.db")
	out := filepath.Join(dir, "documents")
	metrics := filepath.Join(dir, "lexdoc.prom")
	harvest := []string{"harvest", "2024-03-04", "2024-03-05",
		"--db", db, "--output", out, "--base-url", srv.URL,
		"--rate", "1000", "--burst", "10", "--retries", "1",
		"--metrics-file", metrics, "--quiet",
	}

	// First run stores the act.
	stdout, stderr, err := run(t, harvest...)
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "stored:     1")
	assert.Equal(t, int32(1), actFetches.Load())

	_, err = os.Stat(filepath.Join(out, "2024", "03", "01", "32024R0123.json"))
	require.NoError(t, err)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), `lexdoc_documents_processed_total{outcome="stored"} 1`)

	// The reporting sink was fed.
	stdout, stderr, err = run(t, "list", "--db", db)
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "32024R0123")
	assert.Contains(t, stdout, "Implementing regulation")

	// A second run skips the act before fetching it.
	stdout, stderr, err = run(t, harvest...)
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "stored:     0")
	assert.Contains(t, stdout, "duplicate:  1")
	assert.Equal(t, int32(1), actFetches.Load())

	// Completed sessions leave no checkpoint behind.
	stdout, stderr, err = run(t, "status", "--db", db)
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "Indexed acts:   1")
	assert.Contains(t, stdout, "No unfinished sessions.")
}

func TestMain_ReconcileRebuildsIndex(t *testing.T) {
	t.Parallel()

	srv, _ := newSource(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "documents")

	_, stderr, err := run(t, "harvest", "2024-03-04",
		"--db", filepath.Join(dir, "first.db"), "--output", out, "--base-url", srv.URL,
		"--rate", "1000", "--quiet")
	require.NoError(t, err, stderr)

	// A fresh database knows nothing until storage is reconciled.
	fresh := filepath.Join(dir, "fresh.db")
	stdout, stderr, err := run(t, "reconcile", "--db", fresh, "--output", out)
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "Reconciled 1 files: 1 indexed")

	stdout, stderr, err = run(t, "status", "--db", fresh)
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "Indexed acts:   1")
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("requires a command", func(t *testing.T) {
		t.Parallel()

		_, _, err := run(t)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
	})

	t.Run("help succeeds", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, "--help")

		require.NoError(t, err)
		assert.Contains(t, stdout, "harvest")
	})

	t.Run("rejects dates before the earliest journal", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		_, stderr, err := run(t, "harvest", "2023-01-02", "--db", filepath.Join(dir, "x.db"), "--output", dir)

		require.Error(t, err)
		assert.Contains(t, stderr, "earliest supported journal date")
	})
}
