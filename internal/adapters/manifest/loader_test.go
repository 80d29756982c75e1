package manifest_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pge-bw/aarcache/internal/adapters/manifest"
	"github.com/pge-bw/aarcache/internal/core/domain"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aar_manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Collect(t *testing.T) {
	path := writeManifest(t, `
project: demo
libraries:
  - key: com.example.foo
    aar:
      path: libs/foo.aar
    jar:
      path: libs/foo.jar
  - key: com.example.bar
    aar:
      remote: outputs/bar.aar
      digest: sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855
`)

	set, err := manifest.NewLoader(path).Collect(context.Background())
	require.NoError(t, err)
	require.Equal(t, "demo", set.Project)
	require.Len(t, set.Libraries, 2)

	foo := set.Libraries[0]
	require.Equal(t, "com.example.foo", foo.LibraryKey)
	local, ok := foo.Aar.(domain.LocalArtifact)
	require.True(t, ok)
	require.Equal(t, filepath.Join(filepath.Dir(path), "libs", "foo.aar"), local.Path)
	require.NotNil(t, foo.Jar)

	bar := set.Libraries[1]
	require.Nil(t, bar.Jar)
	remote, ok := bar.Aar.(domain.RemoteArtifact)
	require.True(t, ok)
	require.Equal(t, "outputs/bar.aar", remote.Key)
	require.Equal(t, "sha256", string(remote.Digest.Algorithm()))
}

func TestLoader_AbsolutePathKept(t *testing.T) {
	path := writeManifest(t, `
libraries:
  - key: abs
    aar:
      path: /out/abs.aar
`)
	set, err := manifest.NewLoader(path).Collect(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/out/abs.aar", set.Libraries[0].Aar.(domain.LocalArtifact).Path)
}

func TestLoader_Validation(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
	}{
		{
			name: "missing key",
			manifest: `
libraries:
  - aar:
      path: libs/foo.aar
`,
		},
		{
			name: "missing aar",
			manifest: `
libraries:
  - key: com.example.foo
`,
		},
		{
			name: "both local and remote",
			manifest: `
libraries:
  - key: com.example.foo
    aar:
      path: libs/foo.aar
      remote: outputs/foo.aar
      digest: sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855
`,
		},
		{
			name: "remote without digest",
			manifest: `
libraries:
  - key: com.example.foo
    aar:
      remote: outputs/foo.aar
`,
		},
		{
			name: "neither local nor remote",
			manifest: `
libraries:
  - key: com.example.foo
    aar: {}
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, tt.manifest)
			_, err := manifest.NewLoader(path).Collect(context.Background())
			require.Error(t, err)
		})
	}
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := manifest.NewLoader(filepath.Join(t.TempDir(), "missing.yaml")).Collect(context.Background())
	require.Error(t, err)
}
