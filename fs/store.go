package fs

import (
	"context"
	"encoding/json"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/lexdoc"
)

// Ensure Store implements lexdoc.Storage at compile time.
var _ lexdoc.Storage = (*Store)(nil)

// tempPrefix marks files that are still being written.
const tempPrefix = ".tmp-"

// Store implements lexdoc.Storage as one JSON file per document under a
// root directory. Each file is written to a temporary name in its target
// directory, synced, and renamed into place, so readers see either the
// whole document or nothing.
type Store struct {
	root string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Store writes doc and returns its path relative to the root.
func (s *Store) Store(ctx context.Context, doc *lexdoc.Document) (string, error) {
	rel, err := DocumentPath(doc)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", lexdoc.Errorf(lexdoc.EINVALID, "encode document %s: %v", doc.ID, err)
	}

	fullPath := filepath.Join(s.root, filepath.FromSlash(rel))
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	if err := writeAtomic(dir, fullPath, data); err != nil {
		return "", err
	}
	return rel, nil
}

func writeAtomic(dir, fullPath string, data []byte) (err error) {
	tmp, err := os.CreateTemp(dir, tempPrefix+filepath.Base(fullPath)+"-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), fullPath); err != nil {
		return err
	}
	return syncDir(dir)
}

// syncDir flushes dir so that a completed rename survives a crash.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}

// Walk calls fn for every stored document in lexical path order, which is
// date order. Files still being written are skipped.
func (s *Store) Walk(ctx context.Context, fn func(path string, doc *lexdoc.Document, err error) error) error {
	err := filepath.WalkDir(s.root, func(fullPath string, d iofs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, iofs.ErrNotExist) && fullPath == s.root {
				return iofs.SkipAll
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), tempPrefix) || filepath.Ext(d.Name()) != ".json" {
			return nil
		}

		rel, err := filepath.Rel(s.root, fullPath)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		data, err := os.ReadFile(fullPath)
		if err != nil {
			return err
		}
		var doc lexdoc.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return fn(rel, nil, lexdoc.Errorf(lexdoc.EMALFORMED, "decode %s: %v", rel, err))
		}
		if doc.ID == "" {
			return fn(rel, nil, lexdoc.Errorf(lexdoc.EMALFORMED, "document at %s has no ID", rel))
		}
		return fn(rel, &doc, nil)
	})
	return err
}

// Remove deletes the document stored at the relative path.
func (s *Store) Remove(ctx context.Context, path string) error {
	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return lexdoc.Errorf(lexdoc.ENOTFOUND, "no document at %s", path)
		}
		return err
	}
	return nil
}

// Open reads the document stored at the relative path.
func (s *Store) Open(path string) (*lexdoc.Document, error) {
	fullPath, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, lexdoc.Errorf(lexdoc.ENOTFOUND, "no document at %s", path)
		}
		return nil, err
	}
	var doc lexdoc.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, lexdoc.Errorf(lexdoc.EMALFORMED, "decode %s: %v", path, err)
	}
	return &doc, nil
}

// resolve maps a relative path to a file under the root, refusing paths
// that escape it.
func (s *Store) resolve(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", lexdoc.Errorf(lexdoc.EINVALID, "path %q escapes storage root", path)
	}
	return filepath.Join(s.root, clean), nil
}
