package mock

import (
	"context"

	"github.com/fwojciec/lexdoc"
)

var _ lexdoc.DocumentIndex = (*DocumentIndex)(nil)

// DocumentIndex is a mock implementation of lexdoc.DocumentIndex.
type DocumentIndex struct {
	SeenFn    func(ctx context.Context, id string) (bool, error)
	SeenRefFn func(ctx context.Context, ref string) (bool, error)
	ReserveFn func(ctx context.Context, id string) (bool, error)
	RecordFn  func(ctx context.Context, entry *lexdoc.IndexEntry) error
	ReleaseFn func(id string)
	FindFn    func(ctx context.Context, id string) (*lexdoc.IndexEntry, error)
	CountFn   func(ctx context.Context) (int, error)
	ResetFn   func(ctx context.Context) error
}

func (i *DocumentIndex) Seen(ctx context.Context, id string) (bool, error) {
	return i.SeenFn(ctx, id)
}

func (i *DocumentIndex) SeenRef(ctx context.Context, ref string) (bool, error) {
	return i.SeenRefFn(ctx, ref)
}

func (i *DocumentIndex) Reserve(ctx context.Context, id string) (bool, error) {
	return i.ReserveFn(ctx, id)
}

func (i *DocumentIndex) Record(ctx context.Context, entry *lexdoc.IndexEntry) error {
	return i.RecordFn(ctx, entry)
}

func (i *DocumentIndex) Release(id string) {
	i.ReleaseFn(id)
}

func (i *DocumentIndex) Find(ctx context.Context, id string) (*lexdoc.IndexEntry, error) {
	return i.FindFn(ctx, id)
}

func (i *DocumentIndex) Count(ctx context.Context) (int, error) {
	return i.CountFn(ctx)
}

func (i *DocumentIndex) Reset(ctx context.Context) error {
	return i.ResetFn(ctx)
}
