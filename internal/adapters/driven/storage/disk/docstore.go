// Package disk stores generated documents under an output directory.
package disk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
	"github.com/custodia-labs/docgen-cli/internal/core/ports/driven"
)

const (
	dirPerm  = 0755
	filePerm = 0644
)

// Ensure DocStore implements the interface.
var _ driven.DocStore = (*DocStore)(nil)

// DocStore writes documents below a root directory. Writes go to a temp file
// in the destination directory that is renamed into place.
type DocStore struct {
	root string
}

// NewDocStore creates a doc store rooted at root. The directory is created
// on first write.
func NewDocStore(root string) *DocStore {
	return &DocStore{root: root}
}

// Root returns the output root directory.
func (s *DocStore) Root() string {
	return s.root
}

// Write atomically replaces the document at p.
func (s *DocStore) Write(ctx context.Context, p string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(p)
	if err != nil {
		return err
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return &domain.IOError{Op: "write", Path: p, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".docgen-*.tmp")
	if err != nil {
		return &domain.IOError{Op: "write", Path: p, Err: err}
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return &domain.IOError{Op: "write", Path: p, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &domain.IOError{Op: "write", Path: p, Err: err}
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return &domain.IOError{Op: "write", Path: p, Err: err}
	}
	if err := os.Rename(tmpName, full); err != nil {
		return &domain.IOError{Op: "write", Path: p, Err: err}
	}
	committed = true
	return nil
}

// Read returns the document at p.
func (s *DocStore) Read(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", p, domain.ErrNotFound)
	}
	if err != nil {
		return nil, &domain.IOError{Op: "read", Path: p, Err: err}
	}
	return data, nil
}

// List returns every Markdown document under the root, sorted. A missing
// root has no documents.
func (s *DocStore) List(ctx context.Context) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == s.root && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return &domain.IOError{Op: "list", Path: p, Err: err}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// resolve maps a slash-separated relative path to a path below the root.
func (s *DocStore) resolve(p string) (string, error) {
	cleaned := path.Clean(p)
	if p == "" || path.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: document path %q", domain.ErrInvalidInput, p)
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}
