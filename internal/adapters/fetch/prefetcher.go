// Package fetch stages remote artifacts into a local directory so the cache
// engine can read them like ordinary files.
package fetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"github.com/pge-bw/aarcache/internal/core/domain"
	"github.com/pge-bw/aarcache/internal/core/ports"
)

// StagingDirName is the directory beneath the cache root where fetched
// remote content is staged. The dot prefix keeps it out of cache scans.
const StagingDirName = ".fetch"

var _ ports.Prefetcher = (*Prefetcher)(nil)

// Prefetcher implements ports.Prefetcher by copying remote artifacts from a
// remote output tree into a content-addressed staging directory, verifying
// each copy against its declared digest. Staged content is immutable, so an
// artifact already present is not fetched again.
type Prefetcher struct {
	baseDir     string
	stageDir    string
	logger      ports.Logger
	parallelism int
}

// NewPrefetcher creates a new Prefetcher reading from baseDir and staging
// into stageDir.
func NewPrefetcher(baseDir, stageDir string, logger ports.Logger, parallelism int) *Prefetcher {
	return &Prefetcher{
		baseDir:     baseDir,
		stageDir:    stageDir,
		logger:      logger,
		parallelism: parallelism,
	}
}

// Download stages the given remote artifacts, fetching concurrently with
// bounded parallelism.
func (p *Prefetcher) Download(ctx context.Context, projectName string, artifacts []domain.RemoteArtifact) error {
	if len(artifacts) == 0 {
		return nil
	}
	p.logger.Info(fmt.Sprintf("fetching %d artifacts for %s", len(artifacts), projectName))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.parallelism)
	for _, artifact := range artifacts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return p.stage(artifact)
		})
	}
	if err := g.Wait(); err != nil {
		return zerr.Wrap(err, "failed to fetch remote artifacts")
	}
	return nil
}

// StagedPath returns the staged location of an artifact's content. It fails
// if the artifact was never downloaded.
func (p *Prefetcher) StagedPath(artifact domain.RemoteArtifact) (string, error) {
	path := p.stagedPath(artifact.Digest)
	if _, err := os.Stat(path); err != nil {
		return "", zerr.With(zerr.Wrap(err, "remote artifact not staged"), "key", artifact.Key)
	}
	return path, nil
}

func (p *Prefetcher) stagedPath(d digest.Digest) string {
	return filepath.Join(p.stageDir, string(d.Algorithm()), d.Encoded())
}

func (p *Prefetcher) stage(artifact domain.RemoteArtifact) error {
	target := p.stagedPath(artifact.Digest)
	if _, err := os.Stat(target); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create staging directory"), "key", artifact.Key)
	}

	src := filepath.Join(p.baseDir, filepath.FromSlash(artifact.Key))
	in, err := os.Open(src) //nolint:gosec // Path is derived from the declared artifact key
	if err != nil {
		return zerr.With(zerr.Wrap(err, "remote artifact missing from output tree"), "key", artifact.Key)
	}
	defer in.Close() //nolint:errcheck // Best effort close in defer

	// Write through a temp file and rename so a partially fetched artifact
	// never appears at the staged path.
	tmp, err := os.CreateTemp(filepath.Dir(target), "fetch-*")
	if err != nil {
		return zerr.Wrap(err, "failed to create staging temp file")
	}
	tmpPath := tmp.Name()

	verifier := artifact.Digest.Verifier()
	if _, err := io.Copy(io.MultiWriter(tmp, verifier), in); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return zerr.With(zerr.Wrap(err, "failed to stage remote artifact"), "key", artifact.Key)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return zerr.Wrap(err, "failed to close staging temp file")
	}
	if !verifier.Verified() {
		_ = os.Remove(tmpPath)
		return zerr.With(zerr.New("remote artifact digest mismatch"), "key", artifact.Key)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		_ = os.Remove(tmpPath)
		return zerr.With(zerr.Wrap(err, "failed to finalize staged artifact"), "key", artifact.Key)
	}
	return nil
}
