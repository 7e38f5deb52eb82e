package driven

import "github.com/custodia-labs/docgen-cli/internal/core/domain"

// ScanOptions tune extraction.
type ScanOptions struct {
	// IncludePrivate keeps names starting with "_".
	IncludePrivate bool
}

// SourceScanner extracts declarations from one source file.
type SourceScanner interface {
	// Scan parses src and returns the module record.
	// A structurally invalid file returns *domain.ParseError; problems with a
	// single declaration are recorded as warnings on the record instead.
	Scan(path, module string, src []byte, opts ScanOptions) (*domain.ModuleRecord, error)
}
