package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("%s version %s\n", domain.GeneratorName, version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
