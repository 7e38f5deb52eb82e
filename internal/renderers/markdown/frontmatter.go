package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// frontMatter is the YAML block at the top of generated documents.
// Field order is the output order.
type frontMatter struct {
	Title     string `yaml:"title"`
	Module    string `yaml:"module,omitempty"`
	Source    string `yaml:"source,omitempty"`
	Generator string `yaml:"generator"`
}

func writeFrontMatter(sb *strings.Builder, fm frontMatter) error {
	data, err := yaml.Marshal(fm)
	if err != nil {
		return fmt.Errorf("marshal front matter: %w", err)
	}
	sb.WriteString("---\n")
	sb.Write(data)
	sb.WriteString("---\n\n")
	return nil
}

// parseFrontMatter splits a document into its front matter and Markdown body.
// Documents without front matter return a zero value and the whole content.
func parseFrontMatter(source []byte) (frontMatter, []byte, error) {
	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return frontMatter{}, nil, fmt.Errorf("parse front matter: %w", err)
	}
	return meta, body, nil
}
