package sqlite

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/fwojciec/lexdoc"
)

// parseRFC3339 parses an RFC3339 formatted timestamp string.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// parseDay parses a calendar date stored as YYYY-MM-DD.
func parseDay(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(lexdoc.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// nullDay converts an optional date to a nullable column value.
func nullDay(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(lexdoc.DateLayout), Valid: true}
}

// paginate applies LIMIT and OFFSET to a select if values are > 0.
// SQLite only accepts OFFSET after a LIMIT, so an offset alone gets an
// unbounded limit.
func paginate(b sq.SelectBuilder, limit, offset int) sq.SelectBuilder {
	if limit > 0 {
		b = b.Limit(uint64(limit))
	} else if offset > 0 {
		b = b.Limit(math.MaxInt64)
	}
	if offset > 0 {
		b = b.Offset(uint64(offset))
	}
	return b
}
