package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
)

var failOnHighFlag bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the source tree for hard-coded credentials",
	Long: `Run the secret scanner over every source file and list the findings by
severity. Matched values are redacted in the output.

Findings never block generation. Use --fail-on-high to exit with status 1 when
a high-severity finding exists.`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&failOnHighFlag, "fail-on-high", false, "exit with status 1 on high-severity findings")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, _ []string) error {
	rt, err := prepare(cmd, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	// Unreadable files are reported after the findings of the others.
	findings, scanErr := rt.scanner.ScanTree(cmd.Context())
	if findings == nil && scanErr != nil {
		return scanErr
	}

	if err := printFindings(cmd, findings); err != nil {
		return err
	}
	if scanErr != nil {
		return scanErr
	}
	if failOnHighFlag && domain.Summarise(findings).High > 0 {
		return domain.ErrSecretsFound
	}
	return nil
}
