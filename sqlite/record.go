package sqlite

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/fwojciec/lexdoc"
)

// Compile-time interface verification.
var _ lexdoc.RecordService = (*RecordService)(nil)

// RecordService implements lexdoc.RecordService using SQLite.
type RecordService struct {
	db *DB
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db}
}

// PutRecord writes the reporting view of doc, replacing any earlier record
// with the same ID along with its labels and authors.
func (s *RecordService) PutRecord(ctx context.Context, doc *lexdoc.Document, path string) error {
	if doc.ID == "" {
		return lexdoc.Errorf(lexdoc.EINVALID, "record ID required")
	}

	var form string
	if doc.Form != nil {
		form = *doc.Form
	}

	stmts := []sq.Sqlizer{
		sq.Delete("record_labels").Where(sq.Eq{"record_id": doc.ID}),
		sq.Delete("record_authors").Where(sq.Eq{"record_id": doc.ID}),
		sq.Replace("records").
			Columns("id", "title", "form", "document_date", "listing_date", "path").
			Values(doc.ID, doc.Title, form, nullDay(doc.DocumentDate), doc.ListingDate.Format(lexdoc.DateLayout), path),
	}
	if len(doc.Labels) > 0 {
		ins := sq.Insert("record_labels").Columns("record_id", "position", "label")
		for i, label := range doc.Labels {
			ins = ins.Values(doc.ID, i, label)
		}
		stmts = append(stmts, ins)
	}
	if len(doc.Authors) > 0 {
		ins := sq.Insert("record_authors").Columns("record_id", "position", "author")
		for i, author := range doc.Authors {
			ins = ins.Values(doc.ID, i, author)
		}
		stmts = append(stmts, ins)
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range stmts {
		query, args, err := stmt.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// FindRecords returns records matching filter ordered by listing date then ID.
func (s *RecordService) FindRecords(ctx context.Context, filter lexdoc.RecordFilter) ([]*lexdoc.Record, error) {
	q := sq.Select("r.id", "r.title", "r.form", "r.document_date", "r.listing_date", "r.path").
		From("records r")

	if filter.Form != nil {
		q = q.Where(sq.Eq{"r.form": *filter.Form})
	}
	if filter.Label != nil {
		q = q.Where("EXISTS (SELECT 1 FROM record_labels l WHERE l.record_id = r.id AND l.label = ?)", *filter.Label)
	}
	if filter.From != nil {
		q = q.Where(sq.GtOrEq{"r.listing_date": filter.From.Format(lexdoc.DateLayout)})
	}
	if filter.To != nil {
		q = q.Where(sq.LtOrEq{"r.listing_date": filter.To.Format(lexdoc.DateLayout)})
	}
	q = paginate(q.OrderBy("r.listing_date", "r.id"), filter.Limit, filter.Offset)

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*lexdoc.Record
	byID := make(map[string]*lexdoc.Record)
	for rows.Next() {
		var rec lexdoc.Record
		var documentDate sql.NullString
		var listingDate string
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Form, &documentDate, &listingDate, &rec.Path); err != nil {
			return nil, err
		}
		if rec.ListingDate, err = parseDay(listingDate, "listing_date"); err != nil {
			return nil, err
		}
		if documentDate.Valid {
			d, err := parseDay(documentDate.String, "document_date")
			if err != nil {
				return nil, err
			}
			rec.DocumentDate = &d
		}
		records = append(records, &rec)
		byID[rec.ID] = &rec
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return records, nil
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	err = s.loadValues(ctx, "record_labels", "label", ids, func(rec *lexdoc.Record, v string) {
		rec.Labels = append(rec.Labels, v)
	}, byID)
	if err != nil {
		return nil, err
	}
	err = s.loadValues(ctx, "record_authors", "author", ids, func(rec *lexdoc.Record, v string) {
		rec.Authors = append(rec.Authors, v)
	}, byID)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// loadValues reads the ordered child values of the given records.
func (s *RecordService) loadValues(ctx context.Context, table, column string, ids []string, add func(*lexdoc.Record, string), byID map[string]*lexdoc.Record) error {
	query, args, err := sq.Select("record_id", column).
		From(table).
		Where(sq.Eq{"record_id": ids}).
		OrderBy("record_id", "position").
		ToSql()
	if err != nil {
		return err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id, v string
		if err := rows.Scan(&id, &v); err != nil {
			return err
		}
		if rec, ok := byID[id]; ok {
			add(rec, v)
		}
	}
	return rows.Err()
}

// CountRecords returns the total number of records.
func (s *RecordService) CountRecords(ctx context.Context) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From("records").ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}
