package mock

import (
	"context"

	"github.com/fwojciec/lexdoc"
)

var _ lexdoc.CheckpointStore = (*CheckpointStore)(nil)

// CheckpointStore is a mock implementation of lexdoc.CheckpointStore.
type CheckpointStore struct {
	LoadFn    func(ctx context.Context, r lexdoc.DateRange) (*lexdoc.Checkpoint, error)
	AdvanceFn func(ctx context.Context, cp *lexdoc.Checkpoint) error
	ClearFn   func(ctx context.Context, r lexdoc.DateRange) error
	ListFn    func(ctx context.Context) ([]*lexdoc.Checkpoint, error)
}

func (s *CheckpointStore) Load(ctx context.Context, r lexdoc.DateRange) (*lexdoc.Checkpoint, error) {
	return s.LoadFn(ctx, r)
}

func (s *CheckpointStore) Advance(ctx context.Context, cp *lexdoc.Checkpoint) error {
	return s.AdvanceFn(ctx, cp)
}

func (s *CheckpointStore) Clear(ctx context.Context, r lexdoc.DateRange) error {
	return s.ClearFn(ctx, r)
}

func (s *CheckpointStore) List(ctx context.Context) ([]*lexdoc.Checkpoint, error) {
	return s.ListFn(ctx)
}
