// Package cli implements the docgen command line with cobra.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgen-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docgen-cli/internal/adapters/driven/storage/disk"
	"github.com/custodia-labs/docgen-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docgen-cli/internal/connectors/filesystem"
	"github.com/custodia-labs/docgen-cli/internal/core/domain"
	"github.com/custodia-labs/docgen-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docgen-cli/internal/core/services"
	"github.com/custodia-labs/docgen-cli/internal/extractors/python"
	"github.com/custodia-labs/docgen-cli/internal/logger"
	"github.com/custodia-labs/docgen-cli/internal/renderers/markdown"
	"github.com/custodia-labs/docgen-cli/internal/secrets"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

// Persistent flags shared by every command.
var (
	sourceFlag         string
	outputFlag         string
	configFlag         string
	excludeFlag        []string
	includePrivateFlag bool
	frontMatterFlag    bool
	showReceiverFlag   bool
	jobsFlag           int
	scanSecretsFlag    bool
	reportFlag         string
	verboseFlag        bool
	quietFlag          bool
)

var rootCmd = &cobra.Command{
	Use:   "docgen",
	Short: "Generate Markdown API reference from Python docstrings",
	Long: `docgen scans a tree of Python source files, extracts top-level functions,
classes and methods together with their docstrings, and writes one Markdown
document per module plus an index.

Running docgen without a subcommand is the same as "docgen generate".
Settings are read from ./docgen.toml when it exists; flags override it.`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
	RunE:              runGenerate,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&sourceFlag, "source", "s", "", "source root to scan (default \"src\")")
	flags.StringVarP(&outputFlag, "output", "o", "", "documentation output root (default \"docs/api\")")
	flags.StringVarP(&configFlag, "config", "c", "", "path to the config file (default \"docgen.toml\")")
	flags.StringSliceVar(&excludeFlag, "exclude", nil, "glob of source paths to skip (repeatable)")
	flags.BoolVar(&includePrivateFlag, "include-private", false, "document names starting with an underscore")
	flags.BoolVar(&frontMatterFlag, "front-matter", false, "prepend YAML front matter to every document")
	flags.BoolVar(&showReceiverFlag, "show-receiver", false, "keep self/cls in method signatures")
	flags.IntVarP(&jobsFlag, "jobs", "j", domain.DefaultJobs, "number of files processed concurrently")
	flags.BoolVar(&scanSecretsFlag, "scan-secrets", false, "scan every source file for hard-coded credentials")
	flags.StringVar(&reportFlag, "report", "", "print a machine-readable run report (json)")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	flags.BoolVarP(&quietFlag, "quiet", "q", false, "suppress warnings")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	rootCmd.PrintErrln("Error:", err)
	return exitCode(err)
}

// exitCode maps an error to 1 for failed files, drift, high findings and
// run-level I/O failures, and to 2 for usage and configuration errors.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrFilesFailed),
		errors.Is(err, domain.ErrDocsOutOfDate),
		errors.Is(err, domain.ErrSecretsFound),
		errors.Is(err, domain.ErrIO):
		return 1
	default:
		return 2
	}
}

func setupLogging(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)
	logger.SetQuiet(quietFlag)
	return nil
}

// loadSettings reads the config file and applies flag overrides.
func loadSettings(cmd *cobra.Command) (*services.SettingsService, *domain.Settings, error) {
	store, err := file.NewConfigStore(configFlag)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: loading config: %w", domain.ErrInvalidInput, err)
	}
	svc := services.NewSettingsService(store)

	settings, err := svc.Get()
	if err != nil {
		return nil, nil, err
	}
	applyFlags(cmd, settings)

	if err := settings.Validate(); err != nil {
		return nil, nil, err
	}
	if !domain.ReportFormat(reportFlag).IsValid() {
		return nil, nil, fmt.Errorf("%w: unknown report format %q", domain.ErrInvalidInput, reportFlag)
	}
	logger.Debug("config: %s (exists: %t)", store.Path(), store.Exists())
	return svc, settings, nil
}

// applyFlags overrides settings with every flag set on the command line.
func applyFlags(cmd *cobra.Command, s *domain.Settings) {
	flags := cmd.Flags()
	if flags.Changed("source") {
		s.Source.Root = sourceFlag
	}
	if flags.Changed("output") {
		s.Output.Root = outputFlag
	}
	if flags.Changed("exclude") {
		s.Source.Exclude = append(s.Source.Exclude, excludeFlag...)
	}
	if flags.Changed("include-private") {
		s.Source.IncludePrivate = includePrivateFlag
	}
	if flags.Changed("front-matter") {
		s.Render.FrontMatter = frontMatterFlag
	}
	if flags.Changed("show-receiver") {
		s.Render.ShowReceiver = showReceiverFlag
	}
	if flags.Changed("jobs") {
		s.Run.Jobs = jobsFlag
	}
	if flags.Changed("scan-secrets") {
		s.Run.ScanSecrets = scanSecretsFlag
	}
}

// runtime holds the services of one invocation.
type runtime struct {
	settings  *domain.Settings
	tree      *filesystem.Tree
	store     driven.DocStore
	generator *services.GeneratorService
	checker   *services.CheckService
	scanner   *services.SecretScanService
}

// newRuntime wires adapters and services for the resolved settings.
// A dry run keeps documents in memory instead of writing them.
func newRuntime(settings *domain.Settings, dryRun bool) (*runtime, error) {
	tree, err := filesystem.New(settings.Source.Root, settings.Source.Exclude)
	if err != nil {
		return nil, err
	}

	var store driven.DocStore = disk.NewDocStore(settings.Output.Root)
	if dryRun {
		store = memory.NewDocStore(settings.Output.Root)
	}

	finder := secrets.New()
	generator := services.NewGeneratorService(tree, python.New(), markdown.New(), store, finder, *settings)

	return &runtime{
		settings:  settings,
		tree:      tree,
		store:     store,
		generator: generator,
		checker:   services.NewCheckService(generator, markdown.NewInspector()),
		scanner:   services.NewSecretScanService(tree, finder),
	}, nil
}

// Close releases the source tree watcher, if one was started.
func (r *runtime) Close() error {
	return r.tree.Close()
}

// prepare resolves settings and wires the runtime for a command.
func prepare(cmd *cobra.Command, dryRun bool) (*runtime, error) {
	_, settings, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	return newRuntime(settings, dryRun)
}
