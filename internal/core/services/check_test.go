package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgen-cli/internal/adapters/driven/storage/disk"
	"github.com/custodia-labs/docgen-cli/internal/core/domain"
	"github.com/custodia-labs/docgen-cli/internal/renderers/markdown"
)

// checkFixture generates documentation into a temp dir and returns a
// checker over the same tree and output.
func checkFixture(t *testing.T, files map[string]string, settings domain.Settings) (*CheckService, string) {
	t.Helper()
	out := t.TempDir()
	gen := newGenerator(newMockTree(files), disk.NewDocStore(out), settings)
	_, err := gen.Generate(context.Background())
	require.NoError(t, err)
	return NewCheckService(gen, markdown.NewInspector()), out
}

func TestCheckService_Check(t *testing.T) {
	files := map[string]string{
		"calculator.py": calculatorSource,
		"pkg/utils.py":  utilsSource,
	}

	t.Run("fresh output is up to date", func(t *testing.T) {
		checker, _ := checkFixture(t, files, domain.DefaultSettings())

		report, err := checker.Check(context.Background())

		require.NoError(t, err)
		assert.True(t, report.UpToDate(), "%+v", report)
	})

	t.Run("edited document is stale", func(t *testing.T) {
		checker, out := checkFixture(t, files, domain.DefaultSettings())
		require.NoError(t, os.WriteFile(filepath.Join(out, "calculator.md"), []byte("# edited\n"), 0644))

		report, err := checker.Check(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"calculator.md"}, report.Stale)
		assert.False(t, report.UpToDate())
	})

	t.Run("deleted document is missing and its index link broken", func(t *testing.T) {
		checker, out := checkFixture(t, files, domain.DefaultSettings())
		require.NoError(t, os.Remove(filepath.Join(out, "pkg", "utils.md")))

		report, err := checker.Check(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"pkg/utils.md"}, report.Missing)
		assert.Equal(t, []string{"pkg/utils.md"}, report.BrokenLinks)
		assert.Empty(t, report.Stale)
	})

	t.Run("generated documents without a module are orphaned", func(t *testing.T) {
		settings := domain.DefaultSettings()
		settings.Render.FrontMatter = true
		checker, out := checkFixture(t, files, settings)
		orphan := "---\ntitle: old\nmodule: old\ngenerator: docgen\n---\n\n# old\n"
		require.NoError(t, os.WriteFile(filepath.Join(out, "old.md"), []byte(orphan), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(out, "guide.md"), []byte("# Guide\n\nHand written.\n"), 0644))

		report, err := checker.Check(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"old.md"}, report.Orphaned)
		assert.Empty(t, report.Stale)
		assert.Empty(t, report.Missing)
	})

	t.Run("new source file is missing", func(t *testing.T) {
		checker, _ := checkFixture(t, files, domain.DefaultSettings())
		tree := checker.generator.tree.(*mockSourceTree)
		tree.content["extra.py"] = utilsSource

		report, err := checker.Check(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"extra.md"}, report.Missing)
		assert.Equal(t, []string{"index.md"}, report.Stale)
		assert.NotContains(t, files, "extra.py")
	})

	t.Run("failing source is reported", func(t *testing.T) {
		checker, _ := checkFixture(t, map[string]string{"bad.py": "def f(:\n"}, domain.DefaultSettings())

		report, err := checker.Check(context.Background())

		require.NoError(t, err)
		require.Len(t, report.Failed, 1)
		assert.Equal(t, "bad.py", report.Failed[0].Path)
		assert.False(t, report.UpToDate())
	})

	t.Run("module named index is failed not stale", func(t *testing.T) {
		checker, _ := checkFixture(t, map[string]string{"index.py": calculatorSource}, domain.DefaultSettings())

		report, err := checker.Check(context.Background())

		require.NoError(t, err)
		require.Len(t, report.Failed, 1)
		assert.Equal(t, "index.py", report.Failed[0].Path)
		assert.Empty(t, report.Stale)
		assert.Empty(t, report.Missing)
	})

	t.Run("nothing generated yet", func(t *testing.T) {
		out := t.TempDir()
		gen := newGenerator(newMockTree(files), disk.NewDocStore(filepath.Join(out, "api")), domain.DefaultSettings())
		checker := NewCheckService(gen, markdown.NewInspector())

		report, err := checker.Check(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"calculator.md", "pkg/utils.md", "index.md"}, report.Missing)
		assert.Empty(t, report.BrokenLinks)
	})

	t.Run("check never writes", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "api")
		gen := newGenerator(newMockTree(files), disk.NewDocStore(out), domain.DefaultSettings())

		_, err := NewCheckService(gen, markdown.NewInspector()).Check(context.Background())

		require.NoError(t, err)
		_, err = os.Stat(out)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("without an inspector only content is compared", func(t *testing.T) {
		settings := domain.DefaultSettings()
		settings.Render.FrontMatter = true
		checker, out := checkFixture(t, files, settings)
		checker.inspector = nil
		orphan := "---\ngenerator: docgen\n---\n\n# old\n"
		require.NoError(t, os.WriteFile(filepath.Join(out, "old.md"), []byte(orphan), 0644))
		require.NoError(t, os.Remove(filepath.Join(out, "pkg", "utils.md")))

		report, err := checker.Check(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"pkg/utils.md"}, report.Missing)
		assert.Empty(t, report.Orphaned)
		assert.Empty(t, report.BrokenLinks)
	})
}

func TestLocalTarget(t *testing.T) {
	tests := []struct {
		link   string
		target string
		ok     bool
	}{
		{"calculator.md", "calculator.md", true},
		{"pkg/utils.md#slugify", "pkg/utils.md", true},
		{"./pkg/../utils.md", "utils.md", true},
		{"https://example.com/x.md", "", false},
		{"#anchor", "", false},
		{"/abs.md", "", false},
		{"../outside.md", "", false},
		{"mailto:dev@example.com", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			target, ok := localTarget(tt.link)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.target, target)
		})
	}
}
