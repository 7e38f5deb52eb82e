package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
	"github.com/custodia-labs/docgen-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docgen-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docgen-cli/internal/logger"
)

// Ensure CheckService implements the interface.
var _ driving.Checker = (*CheckService)(nil)

// CheckService reports drift between the documentation a run would write
// and the documentation on disk. It never writes.
type CheckService struct {
	generator *GeneratorService
	inspector driven.DocInspector
}

// NewCheckService creates a check service reading documents through the
// generator's doc store. A nil inspector disables orphan and broken-link
// detection.
func NewCheckService(generator *GeneratorService, inspector driven.DocInspector) *CheckService {
	return &CheckService{generator: generator, inspector: inspector}
}

// Check renders everything in memory and compares it with the doc store.
func (s *CheckService) Check(ctx context.Context) (*domain.CheckReport, error) {
	logger.Section("Check")
	gen := s.generator
	store := gen.store

	outcomes, err := gen.renderAll(ctx, false)
	if err != nil {
		return nil, err
	}

	report := &domain.CheckReport{}
	expected := make(map[string]bool, len(outcomes)+1)
	entries := make([]driven.IndexEntry, 0, len(outcomes))
	for _, o := range outcomes {
		if o.result.Status != domain.FileOK {
			report.Failed = append(report.Failed, o.result)
			continue
		}
		expected[o.result.OutputPath] = true
		entries = append(entries, driven.IndexEntry{
			Module:  o.result.Module,
			DocPath: o.result.OutputPath,
			Summary: o.summary,
		})
		if err := s.compare(ctx, report, o.result.OutputPath, o.content); err != nil {
			return nil, err
		}
	}

	index, err := gen.renderer.RenderIndex(entries, gen.renderOptions())
	if err != nil {
		return nil, fmt.Errorf("render index: %w", err)
	}
	expected[driven.IndexFile] = true
	if err := s.compare(ctx, report, driven.IndexFile, index); err != nil {
		return nil, err
	}

	existing, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	onDisk := make(map[string]bool, len(existing))
	for _, p := range existing {
		onDisk[p] = true
	}
	for _, p := range existing {
		if expected[p] {
			continue
		}
		if s.generated(ctx, p) {
			report.Orphaned = append(report.Orphaned, p)
		}
	}

	if onDisk[driven.IndexFile] && s.inspector != nil {
		broken, err := s.brokenLinks(ctx, onDisk)
		if err != nil {
			return nil, err
		}
		report.BrokenLinks = broken
	}

	logger.Info("check: %d stale, %d missing, %d orphaned, %d broken links, %d failed",
		len(report.Stale), len(report.Missing), len(report.Orphaned), len(report.BrokenLinks), len(report.Failed))
	return report, nil
}

// compare records p as missing or stale when the stored content differs.
func (s *CheckService) compare(ctx context.Context, report *domain.CheckReport, p, want string) error {
	got, err := s.generator.store.Read(ctx, p)
	if errors.Is(err, domain.ErrNotFound) {
		report.Missing = append(report.Missing, p)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", p, err)
	}
	if !bytes.Equal(got, []byte(want)) {
		report.Stale = append(report.Stale, p)
	}
	return nil
}

// generated reports whether the document at p carries docgen front matter.
// Unreadable or unparsable documents are treated as hand-written.
func (s *CheckService) generated(ctx context.Context, p string) bool {
	if s.inspector == nil {
		return false
	}
	content, err := s.generator.store.Read(ctx, p)
	if err != nil {
		logger.Debug("skip %s: %v", p, err)
		return false
	}
	meta, err := s.inspector.Inspect(content)
	if err != nil {
		logger.Debug("skip %s: %v", p, err)
		return false
	}
	return meta.Generator == domain.GeneratorName
}

// brokenLinks returns the relative link targets of the stored index that do
// not resolve to a stored document.
func (s *CheckService) brokenLinks(ctx context.Context, onDisk map[string]bool) ([]string, error) {
	content, err := s.generator.store.Read(ctx, driven.IndexFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", driven.IndexFile, err)
	}
	meta, err := s.inspector.Inspect(content)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", driven.IndexFile, err)
	}

	var broken []string
	for _, link := range meta.Links {
		target, ok := localTarget(link)
		if !ok {
			continue
		}
		if !onDisk[target] {
			broken = append(broken, link)
		}
	}
	return broken, nil
}

// localTarget resolves a link relative to the output root. External links
// and in-page anchors are not local.
func localTarget(link string) (string, bool) {
	u, err := url.Parse(link)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" || strings.HasPrefix(u.Path, "/") {
		return "", false
	}
	target := path.Clean(u.Path)
	if target == ".." || strings.HasPrefix(target, "../") {
		return "", false
	}
	return target, true
}
