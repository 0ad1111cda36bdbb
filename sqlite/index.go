package sqlite

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/fwojciec/lexdoc"
	"github.com/fwojciec/lexdoc/bloom"
)

// Compile-time interface verification.
var _ lexdoc.DocumentIndex = (*DocumentIndex)(nil)

// Default Bloom filter sizing for the index fast path.
const (
	DefaultIndexCapacity = 1_000_000
	DefaultIndexFPRate   = 0.001
)

// DocumentIndex implements lexdoc.DocumentIndex using SQLite.
//
// Claims made by Reserve live in memory only; the table holds recorded
// entries. A Bloom filter over recorded IDs and refs answers most negative
// lookups without a query. It is loaded from the table on first use.
type DocumentIndex struct {
	db *DB

	mu      sync.Mutex
	pending map[string]struct{}
	filter  *bloom.Filter
	warm    bool
}

// NewDocumentIndex creates a new DocumentIndex with default filter sizing.
func NewDocumentIndex(db *DB) *DocumentIndex {
	return NewDocumentIndexWithCapacity(db, DefaultIndexCapacity, DefaultIndexFPRate)
}

// NewDocumentIndexWithCapacity creates a DocumentIndex whose filter is
// sized for n entries at the given false positive rate.
func NewDocumentIndexWithCapacity(db *DB, n uint, fpRate float64) *DocumentIndex {
	return &DocumentIndex{
		db:      db,
		pending: make(map[string]struct{}),
		filter:  bloom.NewFilter(2*n, fpRate),
	}
}

func idKey(id string) string   { return "id:" + id }
func refKey(ref string) string { return "ref:" + ref }

// warmup loads recorded keys into the filter. Caller must hold mu.
func (x *DocumentIndex) warmup(ctx context.Context) error {
	if x.warm {
		return nil
	}
	rows, err := x.db.QueryContext(ctx, `SELECT id, ref FROM index_entries`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id, ref string
		if err := rows.Scan(&id, &ref); err != nil {
			return err
		}
		x.filter.Add(idKey(id))
		if ref != "" {
			x.filter.Add(refKey(ref))
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	x.warm = true
	return nil
}

// Seen reports whether a document with id has been recorded.
func (x *DocumentIndex) Seen(ctx context.Context, id string) (bool, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.seen(ctx, "id", idKey(id), id)
}

// SeenRef reports whether a document listed under ref has been recorded.
func (x *DocumentIndex) SeenRef(ctx context.Context, ref string) (bool, error) {
	if ref == "" {
		return false, nil
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.seen(ctx, "ref", refKey(ref), ref)
}

// seen consults the filter, then the table. Caller must hold mu.
func (x *DocumentIndex) seen(ctx context.Context, column, key, value string) (bool, error) {
	if err := x.warmup(ctx); err != nil {
		return false, err
	}
	if !x.filter.MayContain(key) {
		return false, nil
	}
	var n int
	err := x.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM index_entries WHERE `+column+` = ?`, value).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Reserve claims id unless it is recorded or already claimed.
func (x *DocumentIndex) Reserve(ctx context.Context, id string) (bool, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if _, ok := x.pending[id]; ok {
		return false, nil
	}
	seen, err := x.seen(ctx, "id", idKey(id), id)
	if err != nil {
		return false, err
	}
	if seen {
		return false, nil
	}
	x.pending[id] = struct{}{}
	return true, nil
}

// Record inserts entry and settles the claim on its ID.
func (x *DocumentIndex) Record(ctx context.Context, entry *lexdoc.IndexEntry) error {
	if entry.ID == "" {
		return lexdoc.Errorf(lexdoc.EINVALID, "index entry ID required")
	}
	if entry.Path == "" {
		return lexdoc.Errorf(lexdoc.EINVALID, "index entry path required")
	}
	if entry.StoredAt.IsZero() {
		entry.StoredAt = time.Now().UTC()
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	res, err := x.db.ExecContext(ctx, `
		INSERT INTO index_entries (id, ref, fingerprint, path, stored_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, entry.ID, entry.Ref, entry.Fingerprint, entry.Path, entry.StoredAt.Format(time.RFC3339))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return lexdoc.Errorf(lexdoc.ECONFLICT, "document %s already indexed", entry.ID)
	}

	delete(x.pending, entry.ID)
	x.filter.Add(idKey(entry.ID))
	if entry.Ref != "" {
		x.filter.Add(refKey(entry.Ref))
	}
	return nil
}

// Release drops a claim on id.
func (x *DocumentIndex) Release(id string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.pending, id)
}

// Find returns the entry recorded for id.
func (x *DocumentIndex) Find(ctx context.Context, id string) (*lexdoc.IndexEntry, error) {
	var entry lexdoc.IndexEntry
	var storedAt string

	err := x.db.QueryRowContext(ctx, `
		SELECT id, ref, fingerprint, path, stored_at
		FROM index_entries
		WHERE id = ?
	`, id).Scan(&entry.ID, &entry.Ref, &entry.Fingerprint, &entry.Path, &storedAt)
	if err == sql.ErrNoRows {
		return nil, lexdoc.Errorf(lexdoc.ENOTFOUND, "document %s not indexed", id)
	}
	if err != nil {
		return nil, err
	}

	entry.StoredAt, err = parseRFC3339(storedAt, "stored_at")
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Count returns the number of recorded entries.
func (x *DocumentIndex) Count(ctx context.Context) (int, error) {
	var n int
	err := x.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM index_entries`).Scan(&n)
	return n, err
}

// Reset removes every entry and empties the filter.
func (x *DocumentIndex) Reset(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if _, err := x.db.ExecContext(ctx, `DELETE FROM index_entries`); err != nil {
		return err
	}
	x.filter.Reset()
	x.warm = true
	return nil
}
