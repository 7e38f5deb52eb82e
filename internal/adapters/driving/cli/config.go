package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
)

var forceFlag bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the docgen.toml configuration",
	Long: `View or create the project configuration file.

Settings are resolved from defaults, then docgen.toml, then command line flags.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a docgen.toml with the current settings",
	Long: `Write the resolved settings (defaults plus any flags given) to the config
file. An existing file is only replaced with --force.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&forceFlag, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	svc, settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	cmd.Printf("Config file: %s\n", svc.Path())
	cmd.Println()

	cmd.Println("[source]")
	cmd.Printf("  root = %q\n", settings.Source.Root)
	cmd.Printf("  exclude = %s\n", quoteList(settings.Source.Exclude))
	cmd.Printf("  include_private = %t\n", settings.Source.IncludePrivate)
	cmd.Println()

	cmd.Println("[output]")
	cmd.Printf("  root = %q\n", settings.Output.Root)
	cmd.Println()

	cmd.Println("[render]")
	cmd.Printf("  front_matter = %t\n", settings.Render.FrontMatter)
	cmd.Printf("  show_receiver = %t\n", settings.Render.ShowReceiver)
	cmd.Printf("  index_title = %q\n", settings.Render.IndexTitle)
	cmd.Println()

	cmd.Println("[run]")
	cmd.Printf("  jobs = %d\n", settings.Run.Jobs)
	cmd.Printf("  scan_secrets = %t\n", settings.Run.ScanSecrets)
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	svc, settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if svc.Exists() && !forceFlag {
		return fmt.Errorf("%w: %s already exists (use --force to overwrite)", domain.ErrInvalidInput, svc.Path())
	}

	if err := svc.Save(settings); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	cmd.Printf("Wrote %s\n", svc.Path())
	return nil
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
