package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgen-cli/internal/logger"
)

const calculatorSource = `"""Simple arithmetic."""


def add(a: float, b: float) -> float:
    """Add two numbers together.

    Args:
        a: The first number
        b: The second number

    Returns:
        The sum of a and b

    Example:
        >>> add(2, 3)
        5.0
    """
    return a + b


class Calculator:
    """A calculator with memory."""

    def calculate(self, op: str) -> float:
        """Run an operation."""
        return 0.0
`

const utilsSource = `def slugify(text):
    return text.lower()
`

// project is a temporary source tree with output and config paths.
type project struct {
	dir    string
	source string
	output string
	config string
}

func newProject(t *testing.T, files map[string]string) *project {
	t.Helper()
	dir := t.TempDir()
	p := &project{
		dir:    dir,
		source: filepath.Join(dir, "src"),
		output: filepath.Join(dir, "docs", "api"),
		config: filepath.Join(dir, "docgen.toml"),
	}
	require.NoError(t, os.MkdirAll(p.source, 0755))
	for name, content := range files {
		p.write(t, name, content)
	}
	return p
}

func (p *project) write(t *testing.T, name, content string) {
	t.Helper()
	path := filepath.Join(p.source, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// args prefixes the project's roots and config to extra.
func (p *project) args(extra ...string) []string {
	return append(extra, "--source", p.source, "--output", p.output, "--config", p.config)
}

func (p *project) doc(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(p.output, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

// executeCommand runs the root command and returns everything written to
// stdout and stderr. Flags are reset afterwards.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(resetCommands)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	logger.SetOutput(io.Discard)

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetCommands() {
	rootCmd.SetArgs(nil)
	rootCmd.SetOut(nil)
	rootCmd.SetErr(nil)
	resetFlags(rootCmd)
	logger.SetOutput(os.Stderr)
	logger.SetVerbose(false)
	logger.SetQuiet(false)
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if s, ok := f.Value.(pflag.SliceValue); ok {
			_ = s.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
