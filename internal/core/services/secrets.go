package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
	"github.com/custodia-labs/docgen-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docgen-cli/internal/core/ports/driving"
)

// Ensure SecretScanService implements the interface.
var _ driving.SecretScanService = (*SecretScanService)(nil)

// SecretScanService runs the secret scanner over the source tree.
type SecretScanService struct {
	tree    driven.SourceTree
	scanner driven.SecretScanner
}

// NewSecretScanService creates a secret scan service.
func NewSecretScanService(tree driven.SourceTree, scanner driven.SecretScanner) *SecretScanService {
	return &SecretScanService{tree: tree, scanner: scanner}
}

// ScanTree scans every discovered file. Unreadable files are skipped and
// reported in the joined error alongside the findings of the others.
func (s *SecretScanService) ScanTree(ctx context.Context) ([]domain.Finding, error) {
	files, err := s.tree.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover sources: %w", err)
	}

	var findings []domain.Finding
	var errs []error
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := s.tree.Read(ctx, f.Path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		findings = append(findings, s.scanner.Scan(content, f.Path)...)
	}
	return findings, errors.Join(errs...)
}

// ScanContent scans a single piece of text.
func (s *SecretScanService) ScanContent(content []byte, path string) []domain.Finding {
	return s.scanner.Scan(content, path)
}
