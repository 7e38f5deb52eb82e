package domain

import (
	"fmt"
	"strings"
)

// Default settings values.
const (
	DefaultSourceRoot = "src"
	DefaultOutputRoot = "docs/api"
	DefaultIndexTitle = "API Reference"
	DefaultJobs       = 1
)

// GeneratorName is recorded in document front matter so generated files can
// be told apart from hand-written ones.
const GeneratorName = "docgen"

// ReportFormat selects the machine-readable run report written after a run.
type ReportFormat string

// Available report formats.
const (
	// ReportNone prints only the human summary.
	ReportNone ReportFormat = ""

	// ReportJSON prints the run report as JSON.
	ReportJSON ReportFormat = "json"
)

// IsValid returns true if the report format is recognised.
func (f ReportFormat) IsValid() bool {
	return f == ReportNone || f == ReportJSON
}

// SourceSettings configures discovery and extraction.
type SourceSettings struct {
	// Root is the directory scanned for .py files.
	Root string

	// Exclude are glob patterns matched against slash-separated paths
	// relative to Root. "**" crosses directory boundaries.
	Exclude []string

	// IncludePrivate documents names starting with "_".
	IncludePrivate bool
}

// OutputSettings configures where documents go.
type OutputSettings struct {
	// Root is the documentation root directory.
	Root string
}

// RenderSettings configures the Markdown output.
type RenderSettings struct {
	// FrontMatter prepends YAML front matter to every document.
	FrontMatter bool

	// ShowReceiver keeps self/cls in rendered method signatures.
	ShowReceiver bool

	// IndexTitle is the heading of the index document.
	IndexTitle string
}

// RunSettings configures run behaviour.
type RunSettings struct {
	// Jobs is the number of files processed concurrently. 1 is sequential.
	Jobs int

	// ScanSecrets runs the secret scanner over every source file.
	ScanSecrets bool
}

// Settings is the resolved configuration of a run.
type Settings struct {
	Source SourceSettings
	Output OutputSettings
	Render RenderSettings
	Run    RunSettings
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Source: SourceSettings{
			Root: DefaultSourceRoot,
		},
		Output: OutputSettings{
			Root: DefaultOutputRoot,
		},
		Render: RenderSettings{
			IndexTitle: DefaultIndexTitle,
		},
		Run: RunSettings{
			Jobs: DefaultJobs,
		},
	}
}

// Validate checks the settings for values a run cannot work with.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Source.Root) == "" {
		return fmt.Errorf("%w: source root is empty", ErrInvalidInput)
	}
	if strings.TrimSpace(s.Output.Root) == "" {
		return fmt.Errorf("%w: output root is empty", ErrInvalidInput)
	}
	if s.Run.Jobs < 1 {
		return fmt.Errorf("%w: jobs must be at least 1, got %d", ErrInvalidInput, s.Run.Jobs)
	}
	for _, pattern := range s.Source.Exclude {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("%w: empty exclude pattern", ErrInvalidInput)
		}
	}
	return nil
}
