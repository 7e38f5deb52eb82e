// Command docgen generates Markdown API reference from Python docstrings.
package main

import (
	"os"

	"github.com/custodia-labs/docgen-cli/internal/adapters/driving/cli"
)

func main() {
	os.Exit(cli.Execute())
}
