package driven

import "github.com/custodia-labs/docgen-cli/internal/core/domain"

// SecretScanner applies a fixed pattern table to text.
type SecretScanner interface {
	// Scan returns findings ordered by line, then by pattern order.
	Scan(content []byte, path string) []domain.Finding
}
