package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
)

// GenerateInput is the input schema for the generate_docs tool.
type GenerateInput struct{}

// FileOutput is the outcome of one source file.
type FileOutput struct {
	Path     string   `json:"path"`
	Module   string   `json:"module"`
	Output   string   `json:"output,omitempty"`
	Status   string   `json:"status"`
	Error    string   `json:"error,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// GenerateOutput is the output schema for the generate_docs tool.
type GenerateOutput struct {
	RunID     string       `json:"run_id"`
	Index     string       `json:"index"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Warnings  int          `json:"warnings"`
	Files     []FileOutput `json:"files"`
}

// RenderInput is the input schema for the render_module tool.
type RenderInput struct {
	Path string `json:"path" jsonschema:"source file path relative to the source root, e.g. pkg/utils.py"`
}

// RenderOutput is the output schema for the render_module tool.
type RenderOutput struct {
	Module       string   `json:"module"`
	Markdown     string   `json:"markdown"`
	Declarations int      `json:"declarations"`
	Warnings     []string `json:"warnings,omitempty"`
}

// CheckInput is the input schema for the check_docs tool.
type CheckInput struct{}

// CheckOutput is the output schema for the check_docs tool.
type CheckOutput struct {
	UpToDate    bool         `json:"up_to_date"`
	Stale       []string     `json:"stale"`
	Missing     []string     `json:"missing"`
	Orphaned    []string     `json:"orphaned"`
	BrokenLinks []string     `json:"broken_links"`
	Failed      []FileOutput `json:"failed"`
}

// ScanInput is the input schema for the scan_secrets tool.
type ScanInput struct {
	Content string `json:"content,omitempty" jsonschema:"text to scan; when empty the whole source tree is scanned"`
	Path    string `json:"path,omitempty" jsonschema:"name reported for content, ignored when scanning the tree"`
}

// FindingOutput is one redacted secret-scan match.
type FindingOutput struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Match    string `json:"match"`
	Path     string `json:"path"`
	Line     int    `json:"line"`
}

// ScanOutput is the output schema for the scan_secrets tool.
type ScanOutput struct {
	Total          int             `json:"total"`
	High           int             `json:"high"`
	Medium         int             `json:"medium"`
	Low            int             `json:"low"`
	Recommendation string          `json:"recommendation,omitempty"`
	Findings       []FindingOutput `json:"findings"`
}

// registerTools registers all tool handlers with the MCP server. Optional
// ports that are not set have no tool.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_docs",
		Description: "Generate Markdown API documentation for every Python module and rewrite the index",
	}, s.handleGenerate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "render_module",
		Description: "Render the Markdown document of one Python source file without writing it",
	}, s.handleRender)

	if s.ports.Checker != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "check_docs",
			Description: "Report stale, missing and orphaned documents without writing anything",
		}, s.handleCheck)
	}

	if s.ports.Secrets != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "scan_secrets",
			Description: "Scan text or the source tree for hard-coded credentials",
		}, s.handleScan)
	}
}

func (s *Server) handleGenerate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ GenerateInput,
) (*mcp.CallToolResult, GenerateOutput, error) {
	report, err := s.ports.Generator.Generate(ctx)
	if err != nil {
		return nil, GenerateOutput{}, err
	}

	output := GenerateOutput{
		RunID:     report.RunID,
		Index:     report.IndexPath,
		Succeeded: len(report.Succeeded()),
		Failed:    len(report.Failed()),
		Warnings:  report.WarningCount(),
		Files:     make([]FileOutput, len(report.Files)),
	}
	for i, f := range report.Files {
		output.Files[i] = fileOutput(f)
	}
	return nil, output, nil
}

func (s *Server) handleRender(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RenderInput,
) (*mcp.CallToolResult, RenderOutput, error) {
	path := strings.TrimSpace(input.Path)
	if path == "" {
		return nil, RenderOutput{}, ErrNoSourcePath
	}

	content, record, err := s.ports.Generator.RenderFile(ctx, path)
	if err != nil {
		return nil, RenderOutput{}, fmt.Errorf("rendering %s: %w", path, err)
	}

	return nil, RenderOutput{
		Module:       record.Name,
		Markdown:     content,
		Declarations: record.DeclarationCount(),
		Warnings:     warningTexts(record.Warnings),
	}, nil
}

func (s *Server) handleCheck(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ CheckInput,
) (*mcp.CallToolResult, CheckOutput, error) {
	report, err := s.ports.Checker.Check(ctx)
	if err != nil {
		return nil, CheckOutput{}, err
	}

	output := CheckOutput{
		UpToDate:    report.UpToDate(),
		Stale:       orEmpty(report.Stale),
		Missing:     orEmpty(report.Missing),
		Orphaned:    orEmpty(report.Orphaned),
		BrokenLinks: orEmpty(report.BrokenLinks),
		Failed:      make([]FileOutput, len(report.Failed)),
	}
	for i, f := range report.Failed {
		output.Failed[i] = fileOutput(f)
	}
	return nil, output, nil
}

func (s *Server) handleScan(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ScanInput,
) (*mcp.CallToolResult, ScanOutput, error) {
	var findings []domain.Finding
	if input.Content != "" {
		findings = s.ports.Secrets.ScanContent([]byte(input.Content), input.Path)
	} else {
		var err error
		findings, err = s.ports.Secrets.ScanTree(ctx)
		// Unreadable files still leave the findings of the others.
		if err != nil && findings == nil {
			return nil, ScanOutput{}, err
		}
	}

	sum := domain.Summarise(findings)
	output := ScanOutput{
		Total:          sum.Total,
		High:           sum.High,
		Medium:         sum.Medium,
		Low:            sum.Low,
		Recommendation: sum.Recommendation,
		Findings:       make([]FindingOutput, len(findings)),
	}
	for i, f := range findings {
		output.Findings[i] = FindingOutput{
			Type:     f.Type,
			Severity: string(f.Severity),
			Match:    f.Match,
			Path:     f.Path,
			Line:     f.Line,
		}
	}
	return nil, output, nil
}

func fileOutput(f domain.FileResult) FileOutput {
	out := FileOutput{
		Path:     f.Path,
		Module:   f.Module,
		Output:   f.OutputPath,
		Status:   string(f.Status),
		Warnings: warningTexts(f.Warnings),
	}
	if f.Err != nil {
		out.Error = f.Err.Error()
	}
	return out
}

func warningTexts(warnings []domain.DeclarationWarning) []string {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = w.String()
	}
	return out
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
