package cache_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pge-bw/aarcache/internal/adapters/fs"
	"github.com/pge-bw/aarcache/internal/adapters/logger"
	"github.com/pge-bw/aarcache/internal/engine/cache"
)

func newCache(t *testing.T) (*cache.Cache, string, *bytes.Buffer) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "aar_libraries")
	var buf bytes.Buffer
	c := cache.New(root, fs.New(), logger.NewWithWriter(&buf), 2)
	return c, root, &buf
}

func mkEntry(t *testing.T, root, name string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, name), 0o750))
}

func TestCache_EnsureRoot(t *testing.T) {
	c, root, _ := newCache(t)

	require.NoError(t, c.EnsureRoot())
	require.DirExists(t, root)

	// Idempotent.
	require.NoError(t, c.EnsureRoot())
}

func TestCache_ScanMissingRoot(t *testing.T) {
	c, _, _ := newCache(t)
	require.Empty(t, c.Scan())
}

func TestCache_Scan(t *testing.T) {
	c, root, _ := newCache(t)
	mkEntry(t, root, "foo_1a2b.aar")
	mkEntry(t, root, "lib_3c4d.mergedaar")
	mkEntry(t, root, ".fetch")
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.txt"), nil, 0o644))

	state := c.Scan()
	require.Len(t, state, 2)
	require.Equal(t, filepath.Join(root, "foo_1a2b.aar", "aar.timestamp"), state["foo_1a2b.aar"])
	require.Contains(t, state, "lib_3c4d.mergedaar")
	// The stamp path is reported whether or not the marker exists.
	require.NoFileExists(t, state["foo_1a2b.aar"])
}

func TestCache_DirBeforeScan(t *testing.T) {
	c, root, buf := newCache(t)
	mkEntry(t, root, "foo_1a2b.aar")

	_, ok := c.Dir("foo_1a2b.aar")
	require.False(t, ok)
	require.Contains(t, buf.String(), "cache state is empty")

	c.Scan()
	dir, ok := c.Dir("foo_1a2b.aar")
	require.True(t, ok)
	require.Equal(t, filepath.Join(root, "foo_1a2b.aar"), dir)
}

func TestCache_RemoveStaleEntries(t *testing.T) {
	c, root, _ := newCache(t)
	mkEntry(t, root, "keep_1111.aar")
	mkEntry(t, root, "stale_2222.aar")
	mkEntry(t, root, "merged_3333.mergedaar")
	c.Scan()

	keep := map[string]struct{}{"keep_1111.aar": {}}
	removed, err := c.RemoveStaleEntries(context.Background(), keep)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	require.DirExists(t, filepath.Join(root, "keep_1111.aar"))
	require.NoDirExists(t, filepath.Join(root, "stale_2222.aar"))
	// Entries without the raw suffix belong to other creators.
	require.DirExists(t, filepath.Join(root, "merged_3333.mergedaar"))
}

func TestCache_Clear(t *testing.T) {
	c, root, _ := newCache(t)
	mkEntry(t, root, "foo_1a2b.aar")
	c.Scan()

	c.Clear()
	require.NoDirExists(t, root)
	require.Empty(t, c.Keys())

	// Clearing a missing root is fine.
	c.Clear()
}

func TestCache_StateSwapIsWholesale(t *testing.T) {
	c, root, _ := newCache(t)
	mkEntry(t, root, "a_1.aar")
	first := c.Scan()

	mkEntry(t, root, "b_2.aar")
	second := c.Scan()

	require.Len(t, first, 1)
	require.Len(t, second, 2)
	require.Len(t, c.State(), 2)

	keys := c.Keys()
	require.ElementsMatch(t, []string{"a_1.aar", "b_2.aar"}, keys)
}
