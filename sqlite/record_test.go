package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/lexdoc"
	"github.com/fwojciec/lexdoc/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func record(id, listing, form string, labels ...string) *lexdoc.Document {
	doc := &lexdoc.Document{
		ID:          id,
		Title:       "Act " + id,
		ListingDate: day(listing),
		Labels:      labels,
		Authors:     []string{"European Commission"},
	}
	if form != "" {
		doc.Form = ptr(form)
	}
	return doc
}

func TestRecordService_PutRecord(t *testing.T) {
	t.Parallel()

	t.Run("stores record with labels and authors", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRecordService(setupTestDB(t))
		ctx := context.Background()
		doc := record("32024R0001", "2024-03-04", "Regulation", "agriculture", "fisheries")
		doc.DocumentDate = ptr(day("2024-03-01"))

		require.NoError(t, svc.PutRecord(ctx, doc, "2024/03/01/32024R0001.json"))

		recs, err := svc.FindRecords(ctx, lexdoc.RecordFilter{})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "32024R0001", recs[0].ID)
		assert.Equal(t, "Regulation", recs[0].Form)
		assert.Equal(t, "2024/03/01/32024R0001.json", recs[0].Path)
		assert.Equal(t, []string{"agriculture", "fisheries"}, recs[0].Labels)
		assert.Equal(t, []string{"European Commission"}, recs[0].Authors)
		require.NotNil(t, recs[0].DocumentDate)
		assert.True(t, day("2024-03-01").Equal(*recs[0].DocumentDate))
	})

	t.Run("replaces earlier record", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRecordService(setupTestDB(t))
		ctx := context.Background()
		require.NoError(t, svc.PutRecord(ctx, record("32024R0001", "2024-03-04", "", "a", "b"), "one.json"))

		require.NoError(t, svc.PutRecord(ctx, record("32024R0001", "2024-03-04", "", "c"), "two.json"))

		recs, err := svc.FindRecords(ctx, lexdoc.RecordFilter{})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "two.json", recs[0].Path)
		assert.Equal(t, []string{"c"}, recs[0].Labels)
		assert.Nil(t, recs[0].DocumentDate)
	})

	t.Run("rejects missing ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRecordService(setupTestDB(t))

		err := svc.PutRecord(context.Background(), &lexdoc.Document{}, "x.json")

		assert.Equal(t, lexdoc.EINVALID, lexdoc.ErrorCode(err))
	})
}

func TestRecordService_FindRecords(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := sqlite.NewRecordService(db)
	ctx := context.Background()
	require.NoError(t, svc.PutRecord(ctx, record("32024R0003", "2024-03-06", "Regulation", "trade"), "c.json"))
	require.NoError(t, svc.PutRecord(ctx, record("32024L0001", "2024-03-04", "Directive", "agriculture"), "a.json"))
	require.NoError(t, svc.PutRecord(ctx, record("32024R0002", "2024-03-05", "Regulation", "agriculture", "trade"), "b.json"))

	ids := func(recs []*lexdoc.Record) []string {
		var out []string
		for _, r := range recs {
			out = append(out, r.ID)
		}
		return out
	}

	t.Run("orders by listing date", func(t *testing.T) {
		t.Parallel()
		recs, err := svc.FindRecords(ctx, lexdoc.RecordFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"32024L0001", "32024R0002", "32024R0003"}, ids(recs))
	})

	t.Run("filters by form", func(t *testing.T) {
		t.Parallel()
		recs, err := svc.FindRecords(ctx, lexdoc.RecordFilter{Form: ptr("Regulation")})
		require.NoError(t, err)
		assert.Equal(t, []string{"32024R0002", "32024R0003"}, ids(recs))
	})

	t.Run("filters by label", func(t *testing.T) {
		t.Parallel()
		recs, err := svc.FindRecords(ctx, lexdoc.RecordFilter{Label: ptr("agriculture")})
		require.NoError(t, err)
		assert.Equal(t, []string{"32024L0001", "32024R0002"}, ids(recs))
	})

	t.Run("filters by date range", func(t *testing.T) {
		t.Parallel()
		recs, err := svc.FindRecords(ctx, lexdoc.RecordFilter{
			From: ptr(day("2024-03-05")),
			To:   ptr(day("2024-03-05")),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"32024R0002"}, ids(recs))
	})

	t.Run("paginates", func(t *testing.T) {
		t.Parallel()
		recs, err := svc.FindRecords(ctx, lexdoc.RecordFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"32024R0002"}, ids(recs))

		recs, err = svc.FindRecords(ctx, lexdoc.RecordFilter{Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"32024R0003"}, ids(recs))
	})

	t.Run("counts", func(t *testing.T) {
		t.Parallel()
		n, err := svc.CountRecords(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})
}
