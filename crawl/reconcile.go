package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/lexdoc"
)

// Reconciler brings the document index in line with what storage holds.
// Storage is the source of truth; the index is derived from it.
type Reconciler struct {
	Storage lexdoc.Storage
	Index   lexdoc.DocumentIndex
	Logger  *slog.Logger
}

// ReconcileOptions controls a reconciliation pass.
type ReconcileOptions struct {
	// Rebuild empties the index before scanning.
	Rebuild bool

	// Prune removes duplicate files, keeping the indexed or earliest one.
	Prune bool
}

// ReconcileResult describes what a reconciliation pass found and did.
type ReconcileResult struct {
	Scanned    int
	Indexed    int
	Malformed  []string
	Duplicates []DuplicateFile
	Pruned     int
}

// DuplicateFile is a stored file whose identifier is already held by Kept.
type DuplicateFile struct {
	ID   string
	Path string
	Kept string
}

type storedFile struct {
	path        string
	ref         string
	fingerprint string
}

// Reconcile scans storage and records every document missing from the
// index. Files that share an identifier are reported as duplicates.
func (r *Reconciler) Reconcile(ctx context.Context, opts ReconcileOptions) (*ReconcileResult, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if opts.Rebuild {
		if err := r.Index.Reset(ctx); err != nil {
			return nil, fmt.Errorf("reset index: %w", err)
		}
	}

	result := &ReconcileResult{}
	byID := make(map[string][]storedFile)
	var order []string

	err := r.Storage.Walk(ctx, func(path string, doc *lexdoc.Document, err error) error {
		if err != nil {
			if lexdoc.ErrorCode(err) == lexdoc.EMALFORMED {
				logger.Warn("unreadable document", "path", path, "err", err)
				result.Malformed = append(result.Malformed, path)
				return nil
			}
			return err
		}
		result.Scanned++
		if _, ok := byID[doc.ID]; !ok {
			order = append(order, doc.ID)
		}
		byID[doc.ID] = append(byID[doc.ID], storedFile{
			path:        path,
			ref:         doc.Ref,
			fingerprint: doc.Fingerprint,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan storage: %w", err)
	}

	for _, id := range order {
		files := byID[id]
		kept := files[0]

		entry, err := r.Index.Find(ctx, id)
		switch {
		case err == nil:
			for _, f := range files {
				if f.path == entry.Path {
					kept = f
				}
			}
		case lexdoc.ErrorCode(err) == lexdoc.ENOTFOUND:
			err := r.Index.Record(ctx, &lexdoc.IndexEntry{
				ID:          id,
				Ref:         kept.ref,
				Fingerprint: kept.fingerprint,
				Path:        kept.path,
				StoredAt:    time.Now().UTC(),
			})
			if err != nil {
				return nil, fmt.Errorf("record %s: %w", id, err)
			}
			result.Indexed++
		default:
			return nil, fmt.Errorf("find %s: %w", id, err)
		}

		for _, f := range files {
			if f.path == kept.path {
				continue
			}
			result.Duplicates = append(result.Duplicates, DuplicateFile{ID: id, Path: f.path, Kept: kept.path})
			logger.Warn("duplicate document", "id", id, "path", f.path, "kept", kept.path)
			if !opts.Prune {
				continue
			}
			if err := r.Storage.Remove(ctx, f.path); err != nil {
				return nil, fmt.Errorf("remove %s: %w", f.path, err)
			}
			result.Pruned++
		}
	}

	logger.Info("reconciled",
		"scanned", result.Scanned,
		"indexed", result.Indexed,
		"duplicates", len(result.Duplicates),
		"pruned", result.Pruned,
	)
	return result, nil
}
