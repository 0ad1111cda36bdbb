package lexdoc

import (
	"context"
	"time"
)

// IndexEntry records that a document has been durably stored.
type IndexEntry struct {
	ID          string    `json:"id"`
	Ref         string    `json:"ref"`
	Fingerprint string    `json:"fingerprint"`
	Path        string    `json:"path"`
	StoredAt    time.Time `json:"storedAt"`
}

// DocumentIndex is the authoritative record of stored documents. It is a
// derived structure: it can always be rebuilt by walking Storage.
type DocumentIndex interface {
	// Seen reports whether a document with id has been stored.
	Seen(ctx context.Context, id string) (bool, error)

	// SeenRef reports whether a document listed under ref has been stored.
	SeenRef(ctx context.Context, ref string) (bool, error)

	// Reserve claims id for the caller. It returns false if id is already
	// stored or claimed by another caller. A successful claim must be
	// followed by Record or Release.
	Reserve(ctx context.Context, id string) (bool, error)

	// Record adds entry and settles any claim on its ID.
	// Returns ECONFLICT if the ID is already recorded.
	Record(ctx context.Context, entry *IndexEntry) error

	// Release drops a claim without recording anything.
	Release(id string)

	// Find returns the entry for id.
	// Returns ENOTFOUND if id has not been recorded.
	Find(ctx context.Context, id string) (*IndexEntry, error)

	// Count returns the number of recorded entries.
	Count(ctx context.Context) (int, error)

	// Reset removes every entry ahead of a rebuild.
	Reset(ctx context.Context) error
}
