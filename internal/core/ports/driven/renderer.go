package driven

import "github.com/custodia-labs/docgen-cli/internal/core/domain"

// RenderOptions tune the rendered output.
type RenderOptions struct {
	// FrontMatter prepends YAML front matter.
	FrontMatter bool

	// ShowReceiver keeps self/cls in method signatures.
	ShowReceiver bool

	// IndexTitle is the index heading.
	IndexTitle string
}

// IndexEntry is one module linked from the index.
type IndexEntry struct {
	// Module is the dotted module name.
	Module string

	// DocPath is the document path relative to the output root.
	DocPath string

	// Summary is the first line of the module docstring, may be empty.
	Summary string
}

// DocRenderer renders Markdown documents. Implementations must be
// deterministic: identical input yields byte-identical output.
type DocRenderer interface {
	// RenderModule renders one module document.
	RenderModule(module *domain.ModuleRecord, opts RenderOptions) (string, error)

	// RenderIndex renders the aggregate index document.
	RenderIndex(entries []IndexEntry, opts RenderOptions) (string, error)
}
