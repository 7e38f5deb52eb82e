package driven

import "context"

// IndexFile is the name of the aggregate index document.
const IndexFile = "index.md"

// DocStore persists generated documents under an output root.
type DocStore interface {
	// Root returns the output root directory.
	Root() string

	// Write stores content at path (relative to the root) atomically:
	// readers never observe a partially written document.
	Write(ctx context.Context, path string, content []byte) error

	// Read returns the document at path. A missing document returns an
	// error wrapping domain.ErrNotFound.
	Read(ctx context.Context, path string) ([]byte, error)

	// List returns every Markdown document under the root, slash separated and sorted.
	List(ctx context.Context) ([]string, error)
}
