package driving

import (
	"context"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
)

// SecretScanService scans the source tree for hard-coded credentials.
type SecretScanService interface {
	// ScanTree scans every discovered source file.
	ScanTree(ctx context.Context) ([]domain.Finding, error)

	// ScanContent scans a single piece of text.
	ScanContent(content []byte, path string) []domain.Finding
}
