package driven

import (
	"context"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
)

// SourceFile is one discovered source file.
type SourceFile struct {
	// Path is relative to the source root, slash separated.
	Path string

	// Module is the dotted module name derived from Path.
	Module string
}

// SourceTree discovers and reads source files under a root directory.
type SourceTree interface {
	// Root returns the source root directory.
	Root() string

	// Discover lists the source files in lexical walk order.
	Discover(ctx context.Context) ([]SourceFile, error)

	// Read returns the content of a discovered file.
	// Failures are reported as *domain.IOError.
	Read(ctx context.Context, path string) ([]byte, error)
}

// SourceWatcher emits change events for source files.
type SourceWatcher interface {
	// Watch starts watching and returns a channel of changes.
	// The channel is closed when ctx is cancelled or the watcher is closed.
	Watch(ctx context.Context) (<-chan domain.SourceChange, error)

	// Close releases the watcher.
	Close() error
}
