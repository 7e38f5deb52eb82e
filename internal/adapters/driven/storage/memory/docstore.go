package memory

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
	"github.com/custodia-labs/docgen-cli/internal/core/ports/driven"
)

// Ensure DocStore implements the interface.
var _ driven.DocStore = (*DocStore)(nil)

// DocStore is an in-memory implementation of driven.DocStore. It backs
// dry runs and tests.
type DocStore struct {
	mu   sync.RWMutex
	root string
	docs map[string][]byte
}

// NewDocStore creates an empty in-memory doc store reporting root as its
// output root.
func NewDocStore(root string) *DocStore {
	return &DocStore{
		root: root,
		docs: make(map[string][]byte),
	}
}

// Root returns the output root.
func (s *DocStore) Root() string {
	return s.root
}

// Write stores a copy of content.
func (s *DocStore) Write(_ context.Context, p string, content []byte) error {
	key, err := cleanPath(p)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = append([]byte(nil), content...)
	return nil
}

// Read returns a copy of the stored document.
func (s *DocStore) Read(_ context.Context, p string) ([]byte, error) {
	key, err := cleanPath(p)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.docs[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, domain.ErrNotFound)
	}
	return append([]byte(nil), content...), nil
}

// List returns the stored Markdown paths, sorted.
func (s *DocStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.docs))
	for p := range s.docs {
		if strings.HasSuffix(p, ".md") {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Len returns the number of stored documents.
func (s *DocStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func cleanPath(p string) (string, error) {
	cleaned := path.Clean(p)
	if p == "" || path.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: document path %q", domain.ErrInvalidInput, p)
	}
	return cleaned, nil
}
