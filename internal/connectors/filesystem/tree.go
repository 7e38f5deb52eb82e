// Package filesystem discovers, reads and watches the Python source tree.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	pathpkg "path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
	"github.com/custodia-labs/docgen-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docgen-cli/internal/logger"
)

// Names never documented.
const (
	packageInit = "__init__.py"
	cacheDir    = "__pycache__"
)

// Verify interface compliance.
var (
	_ driven.SourceTree    = (*Tree)(nil)
	_ driven.SourceWatcher = (*Tree)(nil)
)

// Tree is a source tree rooted at a local directory.
type Tree struct {
	root    string
	exclude []glob.Glob

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// New creates a Tree. Exclude patterns are matched against slash-separated
// paths relative to root; "*" stops at "/" and "**" crosses it.
func New(root string, exclude []string) (*Tree, error) {
	globs, err := CompileExcludes(exclude)
	if err != nil {
		return nil, err
	}
	return &Tree{root: root, exclude: globs}, nil
}

// CompileExcludes compiles exclude patterns, reporting the first invalid one.
func CompileExcludes(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("%w: exclude pattern %q: %v", domain.ErrInvalidInput, p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// Root returns the source root directory.
func (t *Tree) Root() string {
	return t.root
}

// Discover walks the root in lexical order and returns every documentable
// source file.
func (t *Tree) Discover(ctx context.Context) ([]driven.SourceFile, error) {
	if err := t.checkRoot(); err != nil {
		return nil, err
	}

	var files []driven.SourceFile
	err := filepath.WalkDir(t.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return &domain.IOError{Op: "list", Path: p, Err: err}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := t.rel(p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if t.skipDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !t.isSource(rel) {
			return nil
		}
		files = append(files, driven.SourceFile{Path: rel, Module: domain.ModuleName(rel)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("discovered %d source files under %s", len(files), t.root)
	return files, nil
}

// Read returns the content of a file relative to the root.
func (t *Tree) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := t.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, &domain.IOError{Op: "read", Path: path, Err: err}
	}
	return data, nil
}

// resolve maps a slash separated relative path to a file under the root.
// Absolute paths and paths escaping the root are rejected.
func (t *Tree) resolve(p string) (string, error) {
	cleaned := pathpkg.Clean(filepath.ToSlash(p))
	if p == "" || pathpkg.IsAbs(cleaned) || filepath.IsAbs(p) ||
		cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: source path %q", domain.ErrInvalidInput, p)
	}
	return filepath.Join(t.root, filepath.FromSlash(cleaned)), nil
}

func (t *Tree) checkRoot() error {
	info, err := os.Stat(t.root)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", domain.ErrSourceRootMissing, t.root)
	}
	if err != nil {
		return &domain.IOError{Op: "stat", Path: t.root, Err: err}
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: source root %s is not a directory", domain.ErrInvalidInput, t.root)
	}
	return nil
}

// rel returns p relative to the root, slash separated.
func (t *Tree) rel(p string) (string, error) {
	rel, err := filepath.Rel(t.root, p)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

func (t *Tree) skipDir(rel string) bool {
	name := filepath.Base(rel)
	return isHidden(name) || name == cacheDir || t.excluded(rel)
}

// isSource reports whether a relative file path is documented.
func (t *Tree) isSource(rel string) bool {
	name := filepath.Base(rel)
	if isHidden(rel) || name == packageInit || !strings.HasSuffix(name, domain.SourceExt) {
		return false
	}
	for _, part := range strings.Split(rel, "/") {
		if part == cacheDir {
			return false
		}
	}
	return !t.excluded(rel)
}

func (t *Tree) excluded(rel string) bool {
	for _, g := range t.exclude {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// isHidden checks if any component of the path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part != "" && part != "." && part != ".." && strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
