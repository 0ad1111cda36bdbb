package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/lexdoc"
)

// Ensure LoggingRecordService implements lexdoc.RecordService.
var _ lexdoc.RecordService = (*LoggingRecordService)(nil)

// LoggingRecordService wraps a RecordService with logging.
type LoggingRecordService struct {
	next   lexdoc.RecordService
	logger *slog.Logger
}

// NewLoggingRecordService creates a new LoggingRecordService.
func NewLoggingRecordService(next lexdoc.RecordService, logger *slog.Logger) *LoggingRecordService {
	return &LoggingRecordService{next: next, logger: logger}
}

// PutRecord delegates to the wrapped service and logs the write.
func (s *LoggingRecordService) PutRecord(ctx context.Context, doc *lexdoc.Document, path string) (err error) {
	defer func(begin time.Time) {
		withSession(ctx, s.logger).Debug("put record",
			"id", doc.ID,
			"path", path,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.PutRecord(ctx, doc, path)
}

// FindRecords delegates to the wrapped service.
func (s *LoggingRecordService) FindRecords(ctx context.Context, filter lexdoc.RecordFilter) (records []*lexdoc.Record, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find records",
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindRecords(ctx, filter)
}

// CountRecords delegates to the wrapped service.
func (s *LoggingRecordService) CountRecords(ctx context.Context) (int, error) {
	return s.next.CountRecords(ctx)
}
