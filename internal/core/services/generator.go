package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
	"github.com/custodia-labs/docgen-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docgen-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docgen-cli/internal/logger"
)

// Ensure GeneratorService implements the interface.
var _ driving.Generator = (*GeneratorService)(nil)

// GeneratorService turns a source tree into a documentation tree.
type GeneratorService struct {
	tree     driven.SourceTree
	scanner  driven.SourceScanner
	renderer driven.DocRenderer
	store    driven.DocStore
	secrets  driven.SecretScanner
	settings domain.Settings
}

// NewGeneratorService creates a generator. secrets may be nil, in which case
// secret scanning is disabled regardless of settings.
func NewGeneratorService(
	tree driven.SourceTree,
	scanner driven.SourceScanner,
	renderer driven.DocRenderer,
	store driven.DocStore,
	secrets driven.SecretScanner,
	settings domain.Settings,
) *GeneratorService {
	return &GeneratorService{
		tree:     tree,
		scanner:  scanner,
		renderer: renderer,
		store:    store,
		secrets:  secrets,
		settings: settings,
	}
}

// rendered is the outcome of scanning and rendering one file.
type rendered struct {
	result   domain.FileResult
	content  string
	summary  string
	findings []domain.Finding
}

// Generate scans every source file, writes its document and then the index.
// Files are processed in discovery order; with more than one job they are
// rendered concurrently but the report keeps discovery order.
func (s *GeneratorService) Generate(ctx context.Context) (*domain.RunReport, error) {
	report := &domain.RunReport{
		RunID:      uuid.NewString(),
		SourceRoot: s.tree.Root(),
		OutputRoot: s.store.Root(),
	}
	logger.Section("Generate")
	logger.Info("run %s: %s -> %s", report.RunID, report.SourceRoot, report.OutputRoot)

	outcomes, err := s.renderAll(ctx, true)
	if err != nil {
		return nil, err
	}

	entries := make([]driven.IndexEntry, 0, len(outcomes))
	for _, o := range outcomes {
		report.Files = append(report.Files, o.result)
		report.Findings = append(report.Findings, o.findings...)
		if o.result.Status == domain.FileOK {
			entries = append(entries, driven.IndexEntry{
				Module:  o.result.Module,
				DocPath: o.result.OutputPath,
				Summary: o.summary,
			})
		}
	}

	index, err := s.renderer.RenderIndex(entries, s.renderOptions())
	if err != nil {
		return nil, fmt.Errorf("render index: %w", err)
	}
	if err := s.store.Write(ctx, driven.IndexFile, []byte(index)); err != nil {
		return nil, fmt.Errorf("write index: %w", err)
	}
	report.IndexPath = driven.IndexFile

	logger.Info("run %s: %d written, %d failed, %d warnings",
		report.RunID, len(report.Succeeded()), len(report.Failed()), report.WarningCount())
	return report, nil
}

// RenderFile scans and renders a single file without writing it.
func (s *GeneratorService) RenderFile(ctx context.Context, path string) (string, *domain.ModuleRecord, error) {
	file := driven.SourceFile{Path: path, Module: domain.ModuleName(path)}
	record, content, err := s.render(ctx, file)
	if err != nil {
		return "", nil, err
	}
	return content, record, nil
}

// Modules lists the discovered modules.
func (s *GeneratorService) Modules(ctx context.Context) ([]driving.ModuleInfo, error) {
	files, err := s.tree.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover sources: %w", err)
	}
	modules := make([]driving.ModuleInfo, len(files))
	for i, f := range files {
		modules[i] = driving.ModuleInfo{
			Module:     f.Module,
			SourcePath: f.Path,
			DocPath:    domain.DocPath(f.Module),
		}
	}
	return modules, nil
}

// renderAll discovers the tree and renders every file, writing documents
// when write is set. Per-file failures are recorded in the outcomes; the
// error is reserved for discovery failures and cancellation.
func (s *GeneratorService) renderAll(ctx context.Context, write bool) ([]rendered, error) {
	files, err := s.tree.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover sources: %w", err)
	}
	logger.Debug("processing %d files with %d jobs", len(files), s.jobs())

	outcomes := make([]rendered, len(files))
	var g errgroup.Group
	g.SetLimit(s.jobs())
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i] = s.process(ctx, f, write)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// process handles one file. It never returns an error: failures become a
// failed FileResult and nothing is written for that file.
func (s *GeneratorService) process(ctx context.Context, f driven.SourceFile, write bool) rendered {
	out := rendered{result: domain.FileResult{Path: f.Path, Module: f.Module}}
	fail := func(err error) rendered {
		out.result.Status = domain.FileFailed
		out.result.Err = err
		logger.Warn("%s: %v", f.Path, err)
		return out
	}

	docPath := domain.DocPath(f.Module)
	if docPath == driven.IndexFile {
		return fail(fmt.Errorf("%w: module %s would overwrite the index %s",
			domain.ErrInvalidInput, f.Module, driven.IndexFile))
	}

	src, err := s.tree.Read(ctx, f.Path)
	if err != nil {
		return fail(err)
	}
	if s.settings.Run.ScanSecrets && s.secrets != nil {
		out.findings = s.secrets.Scan(src, f.Path)
	}

	record, content, err := s.renderSource(f, src)
	if err != nil {
		return fail(err)
	}
	out.result.Warnings = record.Warnings
	out.result.Declarations = record.DeclarationCount()
	out.content = content
	out.summary = firstLine(record.Documentation)
	for _, w := range record.Warnings {
		logger.Debug("%s: %s", f.Path, w)
	}

	if write {
		if err := s.store.Write(ctx, docPath, []byte(content)); err != nil {
			return fail(err)
		}
	}
	out.result.OutputPath = docPath
	out.result.Status = domain.FileOK
	return out
}

func (s *GeneratorService) render(ctx context.Context, f driven.SourceFile) (*domain.ModuleRecord, string, error) {
	src, err := s.tree.Read(ctx, f.Path)
	if err != nil {
		return nil, "", err
	}
	return s.renderSource(f, src)
}

func (s *GeneratorService) renderSource(f driven.SourceFile, src []byte) (*domain.ModuleRecord, string, error) {
	record, err := s.scanner.Scan(f.Path, f.Module, src, driven.ScanOptions{
		IncludePrivate: s.settings.Source.IncludePrivate,
	})
	if err != nil {
		return nil, "", err
	}
	content, err := s.renderer.RenderModule(record, s.renderOptions())
	if err != nil {
		return nil, "", fmt.Errorf("render %s: %w", f.Path, err)
	}
	return record, content, nil
}

func (s *GeneratorService) renderOptions() driven.RenderOptions {
	return driven.RenderOptions{
		FrontMatter:  s.settings.Render.FrontMatter,
		ShowReceiver: s.settings.Render.ShowReceiver,
		IndexTitle:   s.settings.Render.IndexTitle,
	}
}

func (s *GeneratorService) jobs() int {
	return max(1, s.settings.Run.Jobs)
}

// firstLine returns the first line of a module summary for the index.
func firstLine(doc *domain.DocumentationBlock) string {
	if doc == nil {
		return ""
	}
	line, _, _ := strings.Cut(doc.Summary, "\n")
	return strings.TrimSpace(line)
}
