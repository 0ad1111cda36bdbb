package lexdoc

import (
	"context"
	"time"
)

// Checkpoint marks the last date of a range whose candidates have all
// reached a terminal outcome.
type Checkpoint struct {
	Range        DateRange
	LastDate     time.Time
	Processed    int
	SessionStart time.Time
	UpdatedAt    time.Time
}

// Resume returns the first date still to be processed.
func (c *Checkpoint) Resume() time.Time {
	return Day(c.LastDate).AddDate(0, 0, 1)
}

// CheckpointStore persists acquisition progress per date range.
type CheckpointStore interface {
	// Load returns the checkpoint for r, or nil if there is none.
	Load(ctx context.Context, r DateRange) (*Checkpoint, error)

	// Advance stores cp. A checkpoint never moves backwards: advancing to a
	// date before the stored one returns ECONFLICT.
	Advance(ctx context.Context, cp *Checkpoint) error

	// Clear removes the checkpoint for r, if any.
	Clear(ctx context.Context, r DateRange) error

	// List returns every stored checkpoint.
	List(ctx context.Context) ([]*Checkpoint, error)
}
