package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docgen-cli/internal/adapters/driving/cli/styles"
	"github.com/custodia-labs/docgen-cli/internal/core/domain"
)

// printer writes summaries to a command's stdout, styled only when stdout
// is a terminal.
type printer struct {
	w      io.Writer
	styles *styles.Styles
	color  bool
}

func newPrinter(cmd *cobra.Command) *printer {
	w := cmd.OutOrStdout()
	return &printer{w: w, styles: styles.New(nil), color: isTerminal(w)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *printer) paint(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}

func (p *printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

// label pads s to width before styling so columns line up.
func (p *printer) label(style lipgloss.Style, s string, width int) string {
	return p.paint(style, fmt.Sprintf("%-*s", width, s))
}

func (p *printer) writeJSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// JSON shapes of the reports. Field names are part of the CLI contract.
type (
	jsonFileResult struct {
		Path         string   `json:"path"`
		Module       string   `json:"module"`
		Output       string   `json:"output,omitempty"`
		Status       string   `json:"status"`
		Error        string   `json:"error,omitempty"`
		Warnings     []string `json:"warnings,omitempty"`
		Declarations int      `json:"declarations"`
	}

	jsonFinding struct {
		Type     string `json:"type"`
		Severity string `json:"severity"`
		Match    string `json:"match"`
		Path     string `json:"path"`
		Line     int    `json:"line"`
	}

	jsonRunReport struct {
		RunID      string           `json:"run_id"`
		SourceRoot string           `json:"source_root"`
		OutputRoot string           `json:"output_root"`
		DryRun     bool             `json:"dry_run"`
		Index      string           `json:"index,omitempty"`
		Succeeded  int              `json:"succeeded"`
		Failed     int              `json:"failed"`
		Warnings   int              `json:"warnings"`
		Files      []jsonFileResult `json:"files"`
		Findings   []jsonFinding    `json:"findings,omitempty"`
	}

	jsonCheckReport struct {
		UpToDate    bool             `json:"up_to_date"`
		Stale       []string         `json:"stale"`
		Missing     []string         `json:"missing"`
		Orphaned    []string         `json:"orphaned"`
		BrokenLinks []string         `json:"broken_links"`
		Failed      []jsonFileResult `json:"failed"`
	}

	jsonScanReport struct {
		Total          int           `json:"total"`
		High           int           `json:"high"`
		Medium         int           `json:"medium"`
		Low            int           `json:"low"`
		Recommendation string        `json:"recommendation,omitempty"`
		Findings       []jsonFinding `json:"findings"`
	}
)

func toJSONFile(f domain.FileResult) jsonFileResult {
	out := jsonFileResult{
		Path:         f.Path,
		Module:       f.Module,
		Output:       f.OutputPath,
		Status:       string(f.Status),
		Declarations: f.Declarations,
	}
	if f.Err != nil {
		out.Error = f.Err.Error()
	}
	for _, w := range f.Warnings {
		out.Warnings = append(out.Warnings, w.String())
	}
	return out
}

func toJSONFindings(findings []domain.Finding) []jsonFinding {
	out := make([]jsonFinding, len(findings))
	for i, f := range findings {
		out[i] = jsonFinding{
			Type:     f.Type,
			Severity: string(f.Severity),
			Match:    f.Match,
			Path:     f.Path,
			Line:     f.Line,
		}
	}
	return out
}

// nonNil keeps empty lists as [] in JSON output.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func printRunReport(cmd *cobra.Command, report *domain.RunReport, dryRun bool) error {
	p := newPrinter(cmd)

	if domain.ReportFormat(reportFlag) == domain.ReportJSON {
		out := jsonRunReport{
			RunID:      report.RunID,
			SourceRoot: report.SourceRoot,
			OutputRoot: report.OutputRoot,
			DryRun:     dryRun,
			Index:      report.IndexPath,
			Succeeded:  len(report.Succeeded()),
			Failed:     len(report.Failed()),
			Warnings:   report.WarningCount(),
			Files:      make([]jsonFileResult, len(report.Files)),
			Findings:   toJSONFindings(report.Findings),
		}
		for i, f := range report.Files {
			out.Files[i] = toJSONFile(f)
		}
		return p.writeJSON(out)
	}

	s := p.styles
	p.printf("%s %s -> %s\n", p.paint(s.Heading, "docgen"), report.SourceRoot, report.OutputRoot)
	for _, f := range report.Files {
		switch f.Status {
		case domain.FileOK:
			p.printf("  %s %s %s\n", p.label(s.Success, "ok", 7), f.Module, p.paint(s.Muted, f.OutputPath))
		default:
			p.printf("  %s %s %s\n", p.label(s.Error, "failed", 7), f.Module, p.paint(s.Muted, errorText(f.Err)))
		}
		for _, w := range f.Warnings {
			p.printf("  %s %s: %s\n", p.label(s.Warning, "warn", 7), f.Path, w.String())
		}
	}

	p.printf("Generated %d of %d modules, %d failed, %d warnings.\n",
		len(report.Succeeded()), len(report.Files), len(report.Failed()), report.WarningCount())
	if report.IndexPath != "" {
		p.printf("Index: %s\n", report.IndexPath)
	}
	if dryRun {
		p.printf("%s\n", p.paint(s.Muted, "Dry run: nothing was written."))
	}
	if len(report.Findings) > 0 {
		printFindingList(p, report.Findings)
	}
	return nil
}

func printCheckReport(cmd *cobra.Command, report *domain.CheckReport) error {
	p := newPrinter(cmd)

	if domain.ReportFormat(reportFlag) == domain.ReportJSON {
		out := jsonCheckReport{
			UpToDate:    report.UpToDate(),
			Stale:       nonNil(report.Stale),
			Missing:     nonNil(report.Missing),
			Orphaned:    nonNil(report.Orphaned),
			BrokenLinks: nonNil(report.BrokenLinks),
			Failed:      make([]jsonFileResult, len(report.Failed)),
		}
		for i, f := range report.Failed {
			out.Failed[i] = toJSONFile(f)
		}
		return p.writeJSON(out)
	}

	s := p.styles
	if report.UpToDate() {
		p.printf("%s\n", p.paint(s.Success, "Documentation is up to date."))
		return nil
	}

	groups := []struct {
		label string
		paths []string
	}{
		{"stale", report.Stale},
		{"missing", report.Missing},
		{"orphaned", report.Orphaned},
		{"broken", report.BrokenLinks},
	}
	for _, g := range groups {
		for _, path := range g.paths {
			p.printf("  %s %s\n", p.label(s.Warning, g.label, 9), path)
		}
	}
	for _, f := range report.Failed {
		p.printf("  %s %s %s\n", p.label(s.Error, "failed", 9), f.Path, p.paint(s.Muted, errorText(f.Err)))
	}
	p.printf("%s\n", p.paint(s.Error, "Documentation is out of date. Run docgen generate."))
	return nil
}

func printFindings(cmd *cobra.Command, findings []domain.Finding) error {
	p := newPrinter(cmd)

	if domain.ReportFormat(reportFlag) == domain.ReportJSON {
		sum := domain.Summarise(findings)
		return p.writeJSON(jsonScanReport{
			Total:          sum.Total,
			High:           sum.High,
			Medium:         sum.Medium,
			Low:            sum.Low,
			Recommendation: sum.Recommendation,
			Findings:       toJSONFindings(findings),
		})
	}

	if len(findings) == 0 {
		p.printf("%s\n", p.paint(p.styles.Success, "No secrets found."))
		return nil
	}
	printFindingList(p, findings)
	return nil
}

func printFindingList(p *printer, findings []domain.Finding) {
	sum := domain.Summarise(findings)
	p.printf("Secrets: %d findings (%d high, %d medium, %d low)\n", sum.Total, sum.High, sum.Medium, sum.Low)
	for _, f := range findings {
		p.printf("  %s %s:%d %s %s\n",
			p.label(p.styles.Severity(f.Severity), string(f.Severity), 6), f.Path, f.Line, f.Type, f.Match)
	}
	if sum.Recommendation != "" {
		p.printf("%s\n", sum.Recommendation)
	}
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
