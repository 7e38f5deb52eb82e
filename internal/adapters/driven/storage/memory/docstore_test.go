package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
)

func TestNewDocStore(t *testing.T) {
	store := NewDocStore("docs/api")
	require.NotNil(t, store)
	assert.Equal(t, "docs/api", store.Root())
	assert.Equal(t, 0, store.Len())
}

func TestDocStore_WriteRead(t *testing.T) {
	store := NewDocStore("out")
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "pkg/mod.md", []byte("# pkg.mod\n")))

	content, err := store.Read(ctx, "pkg/mod.md")
	require.NoError(t, err)
	assert.Equal(t, "# pkg.mod\n", string(content))
}

func TestDocStore_Write_Overwrites(t *testing.T) {
	store := NewDocStore("out")
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "mod.md", []byte("old")))
	require.NoError(t, store.Write(ctx, "./mod.md", []byte("new")))

	content, err := store.Read(ctx, "mod.md")
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
	assert.Equal(t, 1, store.Len())
}

func TestDocStore_Write_CopiesContent(t *testing.T) {
	store := NewDocStore("out")
	ctx := context.Background()
	buf := []byte("abc")

	require.NoError(t, store.Write(ctx, "mod.md", buf))
	buf[0] = 'x'

	content, err := store.Read(ctx, "mod.md")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(content))
}

func TestDocStore_Write_InvalidPath(t *testing.T) {
	store := NewDocStore("out")

	for _, p := range []string{"", "/abs.md", "../escape.md", "a/../../b.md"} {
		err := store.Write(context.Background(), p, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "path %q", p)
	}
}

func TestDocStore_Read_NotFound(t *testing.T) {
	store := NewDocStore("out")

	_, err := store.Read(context.Background(), "missing.md")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocStore_List(t *testing.T) {
	store := NewDocStore("out")
	ctx := context.Background()
	for _, p := range []string{"z.md", "index.md", "pkg/a.md", "notes.txt"} {
		require.NoError(t, store.Write(ctx, p, []byte("x")))
	}

	paths, err := store.List(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"index.md", "pkg/a.md", "z.md"}, paths)
}

func TestDocStore_ConcurrentAccess(t *testing.T) {
	store := NewDocStore("out")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p := string(rune('a'+id)) + ".md"
			_ = store.Write(ctx, p, []byte("x"))
			_, _ = store.Read(ctx, p)
			_, _ = store.List(ctx)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, store.Len())
}
