package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/lexdoc"
)

// Compile-time interface verification.
var _ lexdoc.CheckpointStore = (*CheckpointStore)(nil)

// CheckpointStore implements lexdoc.CheckpointStore using SQLite.
type CheckpointStore struct {
	db *DB
}

// NewCheckpointStore creates a new CheckpointStore.
func NewCheckpointStore(db *DB) *CheckpointStore {
	return &CheckpointStore{db: db}
}

// Load returns the checkpoint for r, or nil if none exists.
func (s *CheckpointStore) Load(ctx context.Context, r lexdoc.DateRange) (*lexdoc.Checkpoint, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT range_start, range_end, last_date, processed, session_start, updated_at
		FROM checkpoints
		WHERE range_key = ?
	`, r.Key())

	cp, err := scanCheckpoint(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return cp, err
}

// Advance upserts cp. The update only applies when it does not move the
// last date backwards; otherwise ECONFLICT is returned.
func (s *CheckpointStore) Advance(ctx context.Context, cp *lexdoc.Checkpoint) error {
	if err := cp.Range.Validate(); err != nil {
		return err
	}
	if cp.LastDate.IsZero() {
		return lexdoc.Errorf(lexdoc.EINVALID, "checkpoint date required")
	}
	if !cp.Range.Contains(cp.LastDate) {
		return lexdoc.Errorf(lexdoc.EINVALID, "checkpoint date %s outside range %s",
			cp.LastDate.Format(lexdoc.DateLayout), cp.Range.Key())
	}
	cp.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO checkpoints (range_key, range_start, range_end, last_date, processed, session_start, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(range_key) DO UPDATE SET
			last_date = excluded.last_date,
			processed = excluded.processed,
			session_start = excluded.session_start,
			updated_at = excluded.updated_at
		WHERE excluded.last_date >= checkpoints.last_date
	`, cp.Range.Key(),
		cp.Range.Start.Format(lexdoc.DateLayout),
		cp.Range.End.Format(lexdoc.DateLayout),
		cp.LastDate.Format(lexdoc.DateLayout),
		cp.Processed,
		cp.SessionStart.UTC().Format(time.RFC3339),
		cp.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return lexdoc.Errorf(lexdoc.ECONFLICT, "checkpoint for %s cannot move back to %s",
			cp.Range.Key(), cp.LastDate.Format(lexdoc.DateLayout))
	}
	return nil
}

// Clear removes the checkpoint for r.
func (s *CheckpointStore) Clear(ctx context.Context, r lexdoc.DateRange) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM checkpoints WHERE range_key = ?`, r.Key())
	return err
}

// List returns all checkpoints ordered by range start.
func (s *CheckpointStore) List(ctx context.Context) ([]*lexdoc.Checkpoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT range_start, range_end, last_date, processed, session_start, updated_at
		FROM checkpoints
		ORDER BY range_start, range_end
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cps []*lexdoc.Checkpoint
	for rows.Next() {
		cp, err := scanCheckpoint(rows)
		if err != nil {
			return nil, err
		}
		cps = append(cps, cp)
	}
	return cps, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCheckpoint(row scanner) (*lexdoc.Checkpoint, error) {
	var start, end, last, sessionStart, updatedAt string
	var cp lexdoc.Checkpoint
	if err := row.Scan(&start, &end, &last, &cp.Processed, &sessionStart, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if cp.Range.Start, err = parseDay(start, "range_start"); err != nil {
		return nil, err
	}
	if cp.Range.End, err = parseDay(end, "range_end"); err != nil {
		return nil, err
	}
	if cp.LastDate, err = parseDay(last, "last_date"); err != nil {
		return nil, err
	}
	if cp.SessionStart, err = parseRFC3339(sessionStart, "session_start"); err != nil {
		return nil, err
	}
	if cp.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &cp, nil
}
