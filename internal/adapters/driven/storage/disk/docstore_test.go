package disk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
)

func TestDocStore_Write(t *testing.T) {
	t.Run("creates parent directories", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "docs", "api")
		store := NewDocStore(root)

		err := store.Write(context.Background(), "pkg/sub/mod.md", []byte("# pkg.sub.mod\n"))

		require.NoError(t, err)
		data, err := os.ReadFile(filepath.Join(root, "pkg", "sub", "mod.md"))
		require.NoError(t, err)
		assert.Equal(t, "# pkg.sub.mod\n", string(data))

		info, err := os.Stat(filepath.Join(root, "pkg", "sub", "mod.md"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
	})

	t.Run("replaces existing document", func(t *testing.T) {
		root := t.TempDir()
		store := NewDocStore(root)
		ctx := context.Background()

		require.NoError(t, store.Write(ctx, "mod.md", []byte("a much longer old document")))
		require.NoError(t, store.Write(ctx, "mod.md", []byte("new")))

		data, err := store.Read(ctx, "mod.md")
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		root := t.TempDir()
		store := NewDocStore(root)

		require.NoError(t, store.Write(context.Background(), "mod.md", []byte("x")))

		entries, err := os.ReadDir(root)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "mod.md", entries[0].Name())
	})

	t.Run("rejects paths outside the root", func(t *testing.T) {
		store := NewDocStore(t.TempDir())

		for _, p := range []string{"", "/etc/passwd", "../escape.md"} {
			assert.ErrorIs(t, store.Write(context.Background(), p, nil), domain.ErrInvalidInput, "path %q", p)
		}
	})

	t.Run("unwritable destination is an IOError", func(t *testing.T) {
		root := t.TempDir()
		// A file where a directory is needed.
		require.NoError(t, os.WriteFile(filepath.Join(root, "pkg"), []byte("x"), 0644))
		store := NewDocStore(root)

		err := store.Write(context.Background(), "pkg/mod.md", []byte("x"))

		var ioErr *domain.IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "write", ioErr.Op)
		assert.ErrorIs(t, err, domain.ErrIO)
	})

	t.Run("cancelled context", func(t *testing.T) {
		store := NewDocStore(t.TempDir())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, store.Write(ctx, "mod.md", nil), context.Canceled)
	})
}

func TestDocStore_Read_NotFound(t *testing.T) {
	store := NewDocStore(t.TempDir())

	_, err := store.Read(context.Background(), "missing.md")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocStore_List(t *testing.T) {
	t.Run("lists markdown documents sorted", func(t *testing.T) {
		root := t.TempDir()
		store := NewDocStore(root)
		ctx := context.Background()
		for _, p := range []string{"z.md", "index.md", "pkg/a.md", "pkg/sub/b.md"} {
			require.NoError(t, store.Write(ctx, p, []byte("x")))
		}
		require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644))

		paths, err := store.List(ctx)

		require.NoError(t, err)
		assert.Equal(t, []string{"index.md", "pkg/a.md", "pkg/sub/b.md", "z.md"}, paths)
	})

	t.Run("missing root is empty", func(t *testing.T) {
		store := NewDocStore(filepath.Join(t.TempDir(), "not-yet"))

		paths, err := store.List(context.Background())

		require.NoError(t, err)
		assert.Empty(t, paths)
	})
}
