package diff_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/require"

	"github.com/pge-bw/aarcache/internal/adapters/fs"
	"github.com/pge-bw/aarcache/internal/core/domain"
	"github.com/pge-bw/aarcache/internal/engine/diff"
)

// writeStamped creates a source file and a stamp marker carrying the same
// modification time, mirroring the state after a successful unpack.
func writeStamped(t *testing.T, dir string, mtime time.Time) (string, string) {
	t.Helper()
	src := filepath.Join(dir, "foo.aar")
	stamp := filepath.Join(dir, "aar.timestamp")
	require.NoError(t, os.WriteFile(src, []byte("aar"), 0o644))
	require.NoError(t, os.WriteFile(stamp, nil, 0o644))
	require.NoError(t, os.Chtimes(src, mtime, mtime))
	require.NoError(t, os.Chtimes(stamp, mtime, mtime))
	return src, stamp
}

func TestDiffer_AbsentKeyIsUpdated(t *testing.T) {
	d := diff.New(fs.New())

	declared := map[string]domain.Artifact{
		"foo_1.aar": domain.LocalArtifact{Path: "/out/foo.aar"},
	}
	updated, err := d.UpdatedKeys(declared, map[string]string{}, nil)
	require.NoError(t, err)
	require.Contains(t, updated, "foo_1.aar")
}

func TestDiffer_LocalUnchangedNotUpdated(t *testing.T) {
	d := diff.New(fs.New())
	tmpDir := t.TempDir()
	mtime := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	src, stamp := writeStamped(t, tmpDir, mtime)

	declared := map[string]domain.Artifact{"foo_1.aar": domain.LocalArtifact{Path: src}}
	cached := map[string]string{"foo_1.aar": stamp}

	updated, err := d.UpdatedKeys(declared, cached, nil)
	require.NoError(t, err)
	require.Empty(t, updated)
}

func TestDiffer_LocalMtimeChangeIsUpdated(t *testing.T) {
	d := diff.New(fs.New())
	tmpDir := t.TempDir()
	mtime := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	src, stamp := writeStamped(t, tmpDir, mtime)

	// Source changed after the stamp was written.
	later := mtime.Add(time.Hour)
	require.NoError(t, os.Chtimes(src, later, later))

	declared := map[string]domain.Artifact{"foo_1.aar": domain.LocalArtifact{Path: src}}
	cached := map[string]string{"foo_1.aar": stamp}

	updated, err := d.UpdatedKeys(declared, cached, nil)
	require.NoError(t, err)
	require.Contains(t, updated, "foo_1.aar")
}

func TestDiffer_MissingStampIsUpdated(t *testing.T) {
	d := diff.New(fs.New())
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "foo.aar")
	require.NoError(t, os.WriteFile(src, []byte("aar"), 0o644))

	declared := map[string]domain.Artifact{"foo_1.aar": domain.LocalArtifact{Path: src}}
	cached := map[string]string{"foo_1.aar": filepath.Join(tmpDir, "aar.timestamp")}

	updated, err := d.UpdatedKeys(declared, cached, nil)
	require.NoError(t, err)
	require.Contains(t, updated, "foo_1.aar")
}

func TestDiffer_RemoteDigest(t *testing.T) {
	d := diff.New(fs.New())
	same := digest.FromString("content")
	remote := domain.RemoteArtifact{Key: "outputs/bar.aar", Digest: same}
	declared := map[string]domain.Artifact{"bar_1.aar": remote}
	cached := map[string]string{"bar_1.aar": "unused"}

	// Unchanged digest: not updated.
	updated, err := d.UpdatedKeys(declared, cached, map[string]digest.Digest{"outputs/bar.aar": same})
	require.NoError(t, err)
	require.Empty(t, updated)

	// Changed digest: updated.
	updated, err = d.UpdatedKeys(declared, cached, map[string]digest.Digest{"outputs/bar.aar": digest.FromString("old")})
	require.NoError(t, err)
	require.Contains(t, updated, "bar_1.aar")

	// No snapshot entry, as after a local-to-remote transition: updated.
	updated, err = d.UpdatedKeys(declared, cached, map[string]digest.Digest{})
	require.NoError(t, err)
	require.Contains(t, updated, "bar_1.aar")
}
