package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the documentation is up to date",
	Long: `Render every module in memory and compare the result with the output root
without writing anything.

Reports stale and missing documents, documents generated by docgen that no
module produces anymore, and index links pointing to files that do not exist.
The command exits with status 1 when anything differs.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	rt, err := prepare(cmd, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	report, err := rt.checker.Check(cmd.Context())
	if err != nil {
		return err
	}

	if err := printCheckReport(cmd, report); err != nil {
		return err
	}
	if !report.UpToDate() {
		return domain.ErrDocsOutOfDate
	}
	return nil
}
