package mock

import (
	"context"

	"github.com/fwojciec/lexdoc"
)

var _ lexdoc.RecordService = (*RecordService)(nil)

// RecordService is a mock implementation of lexdoc.RecordService.
type RecordService struct {
	PutRecordFn    func(ctx context.Context, doc *lexdoc.Document, path string) error
	FindRecordsFn  func(ctx context.Context, filter lexdoc.RecordFilter) ([]*lexdoc.Record, error)
	CountRecordsFn func(ctx context.Context) (int, error)
}

func (s *RecordService) PutRecord(ctx context.Context, doc *lexdoc.Document, path string) error {
	return s.PutRecordFn(ctx, doc, path)
}

func (s *RecordService) FindRecords(ctx context.Context, filter lexdoc.RecordFilter) ([]*lexdoc.Record, error) {
	return s.FindRecordsFn(ctx, filter)
}

func (s *RecordService) CountRecords(ctx context.Context) (int, error) {
	return s.CountRecordsFn(ctx)
}
