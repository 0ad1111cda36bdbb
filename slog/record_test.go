package slog_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/lexdoc"
	"github.com/fwojciec/lexdoc/mock"
	lexslog "github.com/fwojciec/lexdoc/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRecordService(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.RecordService{
		PutRecordFn: func(ctx context.Context, doc *lexdoc.Document, path string) error {
			return errors.New("disk full")
		},
		FindRecordsFn: func(ctx context.Context, filter lexdoc.RecordFilter) ([]*lexdoc.Record, error) {
			return []*lexdoc.Record{{ID: "32024R0001"}}, nil
		},
		CountRecordsFn: func(ctx context.Context) (int, error) {
			return 7, nil
		},
	}
	svc := lexslog.NewLoggingRecordService(inner, debugLogger(&buf))
	ctx := context.Background()

	err := svc.PutRecord(ctx, &lexdoc.Document{ID: "32024R0001"}, "2024/03/04/32024R0001.json")
	require.Error(t, err)
	assert.Contains(t, buf.String(), `err="disk full"`)
	assert.Contains(t, buf.String(), "path=2024/03/04/32024R0001.json")

	recs, err := svc.FindRecords(ctx, lexdoc.RecordFilter{})
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Contains(t, buf.String(), "count=1")

	n, err := svc.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}
