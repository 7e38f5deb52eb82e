package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
)

func TestCheckCmd_Use(t *testing.T) {
	assert.Equal(t, "check", checkCmd.Use)
	assert.Contains(t, checkCmd.Long, "without writing")
}

func TestCheckCmd_Executes(t *testing.T) {
	t.Run("fresh output is up to date", func(t *testing.T) {
		p := newProject(t, map[string]string{"calculator.py": calculatorSource})
		_, err := executeCommand(t, p.args("generate")...)
		require.NoError(t, err)
		resetCommands()

		out, err := executeCommand(t, p.args("check")...)

		require.NoError(t, err)
		assert.Contains(t, out, "Documentation is up to date.")
	})

	t.Run("changed source is stale", func(t *testing.T) {
		p := newProject(t, map[string]string{"calculator.py": calculatorSource})
		_, err := executeCommand(t, p.args("generate")...)
		require.NoError(t, err)
		resetCommands()
		p.write(t, "calculator.py", utilsSource)

		out, err := executeCommand(t, p.args("check")...)

		require.ErrorIs(t, err, domain.ErrDocsOutOfDate)
		assert.Equal(t, 1, exitCode(err))
		assert.Contains(t, out, "stale")
		assert.Contains(t, out, "calculator.md")
		assert.Contains(t, out, "Documentation is out of date.")
	})

	t.Run("nothing generated yet", func(t *testing.T) {
		p := newProject(t, map[string]string{"calculator.py": calculatorSource})

		out, err := executeCommand(t, p.args("check", "--report", "json")...)

		require.ErrorIs(t, err, domain.ErrDocsOutOfDate)
		var report jsonCheckReport
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.False(t, report.UpToDate)
		assert.Equal(t, []string{"calculator.md", "index.md"}, report.Missing)
		assert.Empty(t, report.Stale)
		assert.NoDirExists(t, p.output)
	})

	t.Run("removed module leaves an orphan", func(t *testing.T) {
		p := newProject(t, map[string]string{
			"calculator.py": calculatorSource,
			"utils.py":      utilsSource,
		})
		_, err := executeCommand(t, p.args("generate", "--front-matter")...)
		require.NoError(t, err)
		resetCommands()
		require.NoError(t, os.Remove(filepath.Join(p.source, "utils.py")))

		out, err := executeCommand(t, p.args("check", "--front-matter")...)

		require.ErrorIs(t, err, domain.ErrDocsOutOfDate)
		assert.Contains(t, out, "orphaned")
		assert.Contains(t, out, "utils.md")
	})
}
