package driving

import (
	"context"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
)

// Generator runs documentation generation.
type Generator interface {
	// Generate scans every source file, writes one document per module and
	// the index, and returns the run report. Per-file failures are recorded
	// in the report; the error is reserved for run-level failures.
	Generate(ctx context.Context) (*domain.RunReport, error)

	// RenderFile scans and renders a single source file without writing.
	// path is relative to the source root.
	RenderFile(ctx context.Context, path string) (string, *domain.ModuleRecord, error)

	// Modules lists the discovered modules and their document paths.
	Modules(ctx context.Context) ([]ModuleInfo, error)
}

// ModuleInfo describes one discovered module.
type ModuleInfo struct {
	// Module is the dotted module name.
	Module string

	// SourcePath is relative to the source root.
	SourcePath string

	// DocPath is relative to the output root.
	DocPath string
}

// Checker compares generated documentation with what is on disk.
type Checker interface {
	// Check renders everything in memory and reports drift without writing.
	Check(ctx context.Context) (*domain.CheckReport, error)
}
