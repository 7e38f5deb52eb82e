package cli

import (
	"github.com/spf13/cobra"
)

var dryRunFlag bool

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate Markdown documentation for every module",
	Long: `Scan the source root, write one Markdown document per module under the
output root and rewrite the index.

A file that cannot be parsed or read is reported and skipped; every other file
is still written. The command exits with status 1 when any file failed.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "render everything without writing to the output root")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	rt, err := prepare(cmd, dryRunFlag)
	if err != nil {
		return err
	}
	defer rt.Close()

	report, err := rt.generator.Generate(cmd.Context())
	if err != nil {
		return err
	}

	if err := printRunReport(cmd, report, dryRunFlag); err != nil {
		return err
	}
	return report.Err()
}
