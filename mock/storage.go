package mock

import (
	"context"

	"github.com/fwojciec/lexdoc"
)

var _ lexdoc.Storage = (*Storage)(nil)

// Storage is a mock implementation of lexdoc.Storage.
type Storage struct {
	StoreFn  func(ctx context.Context, doc *lexdoc.Document) (string, error)
	WalkFn   func(ctx context.Context, fn func(path string, doc *lexdoc.Document, err error) error) error
	RemoveFn func(ctx context.Context, path string) error
}

func (s *Storage) Store(ctx context.Context, doc *lexdoc.Document) (string, error) {
	return s.StoreFn(ctx, doc)
}

func (s *Storage) Walk(ctx context.Context, fn func(path string, doc *lexdoc.Document, err error) error) error {
	return s.WalkFn(ctx, fn)
}

func (s *Storage) Remove(ctx context.Context, path string) error {
	return s.RemoveFn(ctx, path)
}
