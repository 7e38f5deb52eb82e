package markdown

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/custodia-labs/docgen-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.DocInspector = (*Inspector)(nil)

// Inspector reads generated documents back: front matter fields and the
// link destinations of the Markdown body.
type Inspector struct {
	md goldmark.Markdown
}

// NewInspector creates an Inspector with a CommonMark parser.
func NewInspector() *Inspector {
	return &Inspector{md: goldmark.New()}
}

// Inspect parses content. Links are returned in document order.
func (i *Inspector) Inspect(content []byte) (*driven.DocMeta, error) {
	fm, body, err := parseFrontMatter(content)
	if err != nil {
		return nil, err
	}

	meta := &driven.DocMeta{
		Generator: fm.Generator,
		Module:    fm.Module,
	}

	doc := i.md.Parser().Parse(text.NewReader(body))
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if link, ok := n.(*ast.Link); ok {
			meta.Links = append(meta.Links, string(link.Destination))
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	return meta, nil
}
