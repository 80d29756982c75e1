package archive_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"

	"github.com/pge-bw/aarcache/internal/adapters/archive"
)

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	for name, content := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

func TestZipExtractor_Extract(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "lib.aar")
	writeZip(t, src, map[string]string{
		"AndroidManifest.xml":       "<manifest/>",
		"res/values/strings.xml":    "<resources/>",
		"res/drawable/icon.png":     "png",
		"classes.jar":               "jar bytes",
		"libs/internal-helpers.jar": "more jar bytes",
	})

	dest := filepath.Join(tmpDir, "out")
	require.NoError(t, os.MkdirAll(dest, 0o750))

	e := archive.NewZipExtractor()
	skipJars := func(name string) bool { return strings.HasSuffix(name, ".jar") }
	require.NoError(t, e.Extract(src, dest, skipJars))

	require.FileExists(t, filepath.Join(dest, "AndroidManifest.xml"))
	require.FileExists(t, filepath.Join(dest, "res", "values", "strings.xml"))
	require.FileExists(t, filepath.Join(dest, "res", "drawable", "icon.png"))
	require.NoFileExists(t, filepath.Join(dest, "classes.jar"))
	require.NoFileExists(t, filepath.Join(dest, "libs", "internal-helpers.jar"))

	content, err := os.ReadFile(filepath.Join(dest, "res", "values", "strings.xml"))
	require.NoError(t, err)
	require.Equal(t, "<resources/>", string(content))
}

func TestZipExtractor_NilSkipExtractsEverything(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "lib.aar")
	writeZip(t, src, map[string]string{"classes.jar": "jar bytes"})

	dest := filepath.Join(tmpDir, "out")
	require.NoError(t, os.MkdirAll(dest, 0o750))

	e := archive.NewZipExtractor()
	require.NoError(t, e.Extract(src, dest, nil))
	require.FileExists(t, filepath.Join(dest, "classes.jar"))
}

func TestZipExtractor_RejectsEscapingEntries(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "evil.aar")
	writeZip(t, src, map[string]string{"../escape.txt": "nope"})

	dest := filepath.Join(tmpDir, "out")
	require.NoError(t, os.MkdirAll(dest, 0o750))

	e := archive.NewZipExtractor()
	require.Error(t, e.Extract(src, dest, nil))
	require.NoFileExists(t, filepath.Join(tmpDir, "escape.txt"))
}

func TestZipExtractor_MissingArchive(t *testing.T) {
	e := archive.NewZipExtractor()
	err := e.Extract(filepath.Join(t.TempDir(), "missing.aar"), t.TempDir(), nil)
	require.Error(t, err)
}
