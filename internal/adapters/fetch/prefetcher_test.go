package fetch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/require"

	"github.com/pge-bw/aarcache/internal/adapters/fetch"
	"github.com/pge-bw/aarcache/internal/adapters/logger"
	"github.com/pge-bw/aarcache/internal/core/domain"
)

func newPrefetcher(t *testing.T) (*fetch.Prefetcher, string, string) {
	t.Helper()
	baseDir := t.TempDir()
	stageDir := filepath.Join(t.TempDir(), fetch.StagingDirName)
	p := fetch.NewPrefetcher(baseDir, stageDir, logger.NewWithWriter(os.Stderr), 2)
	return p, baseDir, stageDir
}

func remoteArtifact(t *testing.T, baseDir, key, content string) domain.RemoteArtifact {
	t.Helper()
	path := filepath.Join(baseDir, filepath.FromSlash(key))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return domain.RemoteArtifact{Key: key, Digest: digest.FromString(content)}
}

func TestPrefetcher_DownloadAndStagedPath(t *testing.T) {
	p, baseDir, _ := newPrefetcher(t)
	artifact := remoteArtifact(t, baseDir, "outputs/foo.aar", "aar content")

	require.NoError(t, p.Download(context.Background(), "demo", []domain.RemoteArtifact{artifact}))

	staged, err := p.StagedPath(artifact)
	require.NoError(t, err)
	content, err := os.ReadFile(staged)
	require.NoError(t, err)
	require.Equal(t, "aar content", string(content))
}

func TestPrefetcher_DownloadIdempotent(t *testing.T) {
	p, baseDir, _ := newPrefetcher(t)
	artifact := remoteArtifact(t, baseDir, "outputs/foo.aar", "aar content")

	require.NoError(t, p.Download(context.Background(), "demo", []domain.RemoteArtifact{artifact}))
	// Remove the source: the second download must be served from staging.
	require.NoError(t, os.RemoveAll(baseDir))
	require.NoError(t, p.Download(context.Background(), "demo", []domain.RemoteArtifact{artifact}))
}

func TestPrefetcher_DigestMismatch(t *testing.T) {
	p, baseDir, _ := newPrefetcher(t)
	artifact := remoteArtifact(t, baseDir, "outputs/foo.aar", "aar content")
	artifact.Digest = digest.FromString("something else")

	err := p.Download(context.Background(), "demo", []domain.RemoteArtifact{artifact})
	require.Error(t, err)

	// A failed verification must not leave staged content behind.
	_, err = p.StagedPath(artifact)
	require.Error(t, err)
}

func TestPrefetcher_MissingSource(t *testing.T) {
	p, _, _ := newPrefetcher(t)
	artifact := domain.RemoteArtifact{Key: "outputs/missing.aar", Digest: digest.FromString("x")}

	require.Error(t, p.Download(context.Background(), "demo", []domain.RemoteArtifact{artifact}))
}

func TestPrefetcher_StagedPathBeforeDownload(t *testing.T) {
	p, _, _ := newPrefetcher(t)
	artifact := domain.RemoteArtifact{Key: "outputs/foo.aar", Digest: digest.FromString("never fetched")}

	_, err := p.StagedPath(artifact)
	require.Error(t, err)
}

func TestPrefetcher_EmptySetIsNoop(t *testing.T) {
	p, _, stageDir := newPrefetcher(t)
	require.NoError(t, p.Download(context.Background(), "demo", nil))
	require.NoDirExists(t, stageDir)
}
