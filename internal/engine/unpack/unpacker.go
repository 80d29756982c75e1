// Package unpack extracts AAR archives into cache directories and merges
// directories that share a library key into one target tree.
//
// A raw cache entry ends up with at least:
//
//   - the res/ folder and the R.txt adjacent to it, straight from the
//     archive
//   - jars/classes_and_libs_merged.jar, copied from the separately supplied
//     merged jar rather than taken from inside the archive
//   - the aar.timestamp stamp marker carrying the source artifact's
//     modification time
package unpack

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"github.com/pge-bw/aarcache/internal/core/domain"
	"github.com/pge-bw/aarcache/internal/core/ports"
)

// Unpacker materializes cache content for one sync pass.
type Unpacker struct {
	ops         ports.FileOps
	extractor   ports.Extractor
	prefetcher  ports.Prefetcher
	logger      ports.Logger
	parallelism int
}

// New creates a new Unpacker.
func New(
	ops ports.FileOps,
	extractor ports.Extractor,
	prefetcher ports.Prefetcher,
	logger ports.Logger,
	parallelism int,
) *Unpacker {
	return &Unpacker{
		ops:         ops,
		extractor:   extractor,
		prefetcher:  prefetcher,
		logger:      logger,
		parallelism: parallelism,
	}
}

// Stats counts what one Unpack call did.
type Stats struct {
	Unpacked int
	Failed   int
	Merged   int
}

// Unpack refreshes the raw directories for every updated key, removes stray
// directories, then rebuilds the merged directories for the full declared
// set. Per-artifact I/O failures are logged and do not abort sibling work;
// only cancellation aborts the whole batch.
func (u *Unpacker) Unpack(
	ctx context.Context,
	toCache map[string]domain.AarAndJar,
	updatedKeys map[string]struct{},
	cacheDir string,
) (Stats, error) {
	var stats Stats

	unpacked, failed, err := u.unpackUpdated(ctx, toCache, updatedKeys, cacheDir)
	stats.Unpacked, stats.Failed = unpacked, failed
	if err != nil {
		return stats, err
	}

	if err := u.removeStrayDirs(ctx, cacheDir); err != nil {
		return stats, err
	}

	merged, err := u.mergeAars(ctx, toCache, cacheDir)
	stats.Merged = merged
	return stats, err
}

func (u *Unpacker) unpackUpdated(
	ctx context.Context,
	toCache map[string]domain.AarAndJar,
	updatedKeys map[string]struct{},
	cacheDir string,
) (int, int, error) {
	var unpacked, failed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(u.parallelism)
	for key := range updatedKeys {
		item, ok := toCache[key]
		if !ok {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := u.unpackOne(item, cacheDir); err != nil {
				failed.Add(1)
				u.logger.Warn(fmt.Sprintf("failed to unpack aar %s: %v", item.Aar.CacheKey(), err))
				return nil
			}
			unpacked.Add(1)
			return nil
		})
	}
	err := g.Wait()
	return int(unpacked.Load()), int(failed.Load()), err
}

// unpackOne refreshes a single raw cache directory. Re-unpacking is
// idempotent: any existing directory is removed first.
func (u *Unpacker) unpackOne(item domain.AarAndJar, cacheDir string) error {
	aarDir := filepath.Join(cacheDir, domain.AarDirName(item.Aar))
	if u.ops.Exists(aarDir) {
		if err := u.ops.RemoveAll(aarDir); err != nil {
			return err
		}
	}
	if err := u.ops.MkdirAll(aarDir); err != nil {
		return err
	}

	src, err := u.localFile(item.Aar)
	if err != nil {
		return err
	}
	// Skip jars inside the archive; the separately supplied merged jar is
	// authoritative.
	skipJars := func(name string) bool { return strings.HasSuffix(name, ".jar") }
	if err := u.extractor.Extract(src, aarDir, skipJars); err != nil {
		return err
	}

	u.writeStamp(aarDir, item.Aar)

	if item.Jar != nil {
		if err := u.copyJar(item.Jar, aarDir); err != nil {
			return err
		}
	}
	return nil
}

func (u *Unpacker) copyJar(jar domain.Artifact, aarDir string) error {
	src, err := u.localFile(jar)
	if err != nil {
		return err
	}
	dst := domain.JarFile(aarDir)
	if err := u.ops.MkdirAll(filepath.Dir(dst)); err != nil {
		return err
	}
	return u.ops.Copy(src, dst)
}

// writeStamp creates the stamp marker and, for locally resident artifacts,
// mirrors the source file's modification time onto it. Remote artifacts have
// no meaningful local timestamp, so theirs stays at creation time. Failures
// are logged only; a missing or mis-timed stamp simply fails the next diff
// check and the entry is re-unpacked.
func (u *Unpacker) writeStamp(aarDir string, aar domain.Artifact) {
	stamp := domain.StampFile(aarDir)
	if err := u.ops.WriteFile(stamp, nil); err != nil {
		u.logger.Warn(fmt.Sprintf("failed to create aar cache stamp for %s: %v", aar.CacheKey(), err))
		return
	}
	local, ok := aar.(domain.LocalArtifact)
	if !ok {
		return
	}
	sourceTime, err := u.ops.ModTime(local.Path)
	if err != nil {
		u.logger.Warn(fmt.Sprintf("failed to read source timestamp for %s: %v", aar.CacheKey(), err))
		return
	}
	if err := u.ops.SetModTime(stamp, sourceTime); err != nil {
		u.logger.Warn(fmt.Sprintf("failed to set aar cache timestamp for %s: %v", aar.CacheKey(), err))
	}
}

// localFile returns a locally readable file mirroring the artifact's
// content.
func (u *Unpacker) localFile(artifact domain.Artifact) (string, error) {
	switch a := artifact.(type) {
	case domain.LocalArtifact:
		return a.Path, nil
	case domain.RemoteArtifact:
		return u.prefetcher.StagedPath(a)
	default:
		return "", zerr.With(domain.ErrUnknownArtifactType, "key", artifact.CacheKey())
	}
}

// removeStrayDirs deletes directories whose names lack the raw suffix. They
// were not unpacked from an archive and are regenerated every pass.
// Dot-prefixed names are skipped; those belong to the fetch staging area and
// the snapshot store.
func (u *Unpacker) removeStrayDirs(ctx context.Context, cacheDir string) error {
	entries, err := u.ops.ListDir(cacheDir)
	if err != nil {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(u.parallelism)
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasSuffix(name, domain.DotAar) || strings.HasPrefix(name, ".") {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := u.ops.RemoveAll(filepath.Join(cacheDir, name)); err != nil {
				u.logger.Warn(fmt.Sprintf("failed to remove stray directory %s: %v", name, err))
			}
			return nil
		})
	}
	return g.Wait()
}

// mergeAars copies every declared raw directory into the merged directory of
// its library key. The full declared set is merged, not just the updated
// keys, so merged output stays complete even when only some inputs changed.
func (u *Unpacker) mergeAars(ctx context.Context, toMerge map[string]domain.AarAndJar, cacheDir string) (int, error) {
	groups := make(map[string][]domain.Artifact)
	for _, item := range toMerge {
		groups[item.LibraryKey] = append(groups[item.LibraryKey], item.Aar)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(u.parallelism)
	for libraryKey, aars := range groups {
		destDir := filepath.Join(cacheDir, domain.MergedDirName(libraryKey))
		for _, aar := range aars {
			srcDir := filepath.Join(cacheDir, domain.AarDirName(aar))
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				u.copyTree(srcDir, destDir)
				return nil
			})
		}
	}
	return len(groups), g.Wait()
}

// copyTree copies every file under src to the corresponding relative path
// under dest. First writer wins: existing destination files are skipped.
// Stamp markers and manifests are expected duplicates; any other collision
// is logged since same-named resource files are not content-merged.
func (u *Unpacker) copyTree(src, dest string) {
	files, err := u.ops.ListFilesRecursively(src)
	if err != nil {
		u.logger.Warn(fmt.Sprintf("failed to list aar directory %s: %v", src, err))
		return
	}
	for _, file := range files {
		rel, err := filepath.Rel(src, file)
		if err != nil {
			u.logger.Warn(fmt.Sprintf("failed to relativize %s: %v", file, err))
			continue
		}
		destFile := filepath.Join(dest, rel)
		if u.ops.Exists(destFile) {
			base := filepath.Base(destFile)
			if base != domain.StampFileName && base != domain.ManifestFileName {
				u.logger.Info(fmt.Sprintf("not copying %s to merged aar directory: %s already exists", file, destFile))
			}
			continue
		}
		if err := u.ops.MkdirAll(filepath.Dir(destFile)); err != nil {
			u.logger.Warn(fmt.Sprintf("failed to create merged aar directory for %s: %v", destFile, err))
			continue
		}
		if err := u.ops.Copy(file, destFile); err != nil {
			u.logger.Warn(fmt.Sprintf("failed to copy %s to merged aar directory %s: %v", file, destFile, err))
		}
	}
}
