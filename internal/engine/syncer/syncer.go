// Package syncer drives sync passes that keep the local AAR cache
// consistent with the project's declared artifact set, and resolves cached
// jar and resource paths afterwards.
package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/opencontainers/go-digest"
	"go.trai.ch/zerr"

	"github.com/pge-bw/aarcache/internal/core/domain"
	"github.com/pge-bw/aarcache/internal/core/ports"
	"github.com/pge-bw/aarcache/internal/engine/cache"
	"github.com/pge-bw/aarcache/internal/engine/unpack"
)

// Syncer orchestrates one synchronization pass at a time. Passes must be
// serialized by the caller.
type Syncer struct {
	cache      *cache.Cache
	collector  ports.LibraryCollector
	prefetcher ports.Prefetcher
	differ     ports.Differ
	unpacker   *unpack.Unpacker
	snapshots  ports.SnapshotStore
	logger     ports.Logger
}

// New creates a new Syncer.
func New(
	c *cache.Cache,
	collector ports.LibraryCollector,
	prefetcher ports.Prefetcher,
	differ ports.Differ,
	unpacker *unpack.Unpacker,
	snapshots ports.SnapshotStore,
	logger ports.Logger,
) *Syncer {
	return &Syncer{
		cache:      c,
		collector:  collector,
		prefetcher: prefetcher,
		differ:     differ,
		unpacker:   unpacker,
		snapshots:  snapshots,
		logger:     logger,
	}
}

// Result counts what one pass did.
type Result struct {
	Updated int
	Failed  int
	Removed int
}

// Sync runs one pass in the given mode. A full pass clears the cache first
// and then behaves like an incremental pass with empty prior state, so every
// declared artifact is refreshed. Only the incremental mode prunes entries
// no longer declared. The refresh mode is lighter still: no pruning, and it
// is refused when the project declares remote artifacts.
func (s *Syncer) Sync(ctx context.Context, mode domain.SyncMode) (Result, error) {
	set, err := s.collector.Collect(ctx)
	if err != nil {
		return Result{}, zerr.Wrap(err, "failed to collect declared libraries")
	}

	switch mode {
	case domain.SyncFull:
		s.cache.Clear()
	case domain.SyncRefresh:
		if hasRemote(set) {
			s.logger.Info("project declares remote artifacts, refreshing only during sync")
			return Result{}, nil
		}
	case domain.SyncIncremental:
	default:
		return Result{}, zerr.With(domain.ErrUnknownSyncMode, "mode", string(mode))
	}

	return s.refresh(ctx, set, mode == domain.SyncIncremental)
}

// refresh performs the shared pass body: ensure root, scan, diff, fetch,
// unpack, optionally prune. The cache state is rescanned on every exit path
// so the in-memory view tracks the disk as closely as possible.
func (s *Syncer) refresh(ctx context.Context, set domain.LibrarySet, removeMissing bool) (Result, error) {
	var res Result
	if err := s.cache.EnsureRoot(); err != nil {
		s.logger.Warn(fmt.Sprintf("could not create aar cache directory %s: %v", s.cache.Root(), err))
		return res, nil
	}
	defer s.cache.Scan()

	cached := s.cache.Scan()
	declared := declaredState(set)
	aarOutputs := make(map[string]domain.Artifact, len(declared))
	for name, item := range declared {
		aarOutputs[name] = item.Aar
	}

	previous, err := s.snapshots.Load()
	if err != nil {
		s.logger.Warn(fmt.Sprintf("failed to load remote output snapshot: %v", err))
		previous = map[string]digest.Digest{}
	}

	updatedKeys, err := s.differ.UpdatedKeys(aarOutputs, cached, previous)
	if err != nil {
		return res, zerr.Wrap(err, "failed to diff cache state")
	}

	// Fetch the aar of every updated key, plus its jar: the jar is a
	// separate artifact and is only refreshed when its aar is.
	if err := s.prefetcher.Download(ctx, set.Project, remoteSubset(declared, updatedKeys)); err != nil {
		if cancelled(ctx, err) {
			return res, errors.Join(domain.ErrSyncCancelled, err)
		}
		s.logger.Error(zerr.Wrap(err, "aar fetch did not complete"))
		return res, nil
	}

	stats, err := s.unpacker.Unpack(ctx, declared, updatedKeys, s.cache.Root())
	res.Updated, res.Failed = stats.Unpacked, stats.Failed
	if err != nil {
		if cancelled(ctx, err) {
			return res, errors.Join(domain.ErrSyncCancelled, err)
		}
		s.logger.Error(zerr.Wrap(err, "unpacked aar synchronization did not complete"))
		return res, nil
	}
	if len(updatedKeys) > 0 {
		s.logger.Info(fmt.Sprintf("copied %d aars", len(updatedKeys)))
	}

	if removeMissing {
		keep := make(map[string]struct{}, len(declared))
		for name := range declared {
			keep[name] = struct{}{}
		}
		removed, err := s.cache.RemoveStaleEntries(ctx, keep)
		if err != nil {
			if cancelled(ctx, err) {
				return res, errors.Join(domain.ErrSyncCancelled, err)
			}
			s.logger.Error(zerr.Wrap(err, "aar cache pruning did not complete"))
			return res, nil
		}
		res.Removed = removed
		if removed > 0 {
			s.logger.Info(fmt.Sprintf("removed %d aars", removed))
		}
	}

	if err := s.snapshots.Save(remoteSnapshot(declared)); err != nil {
		s.logger.Warn(fmt.Sprintf("failed to save remote output snapshot: %v", err))
	}
	return res, nil
}

// ClassJar resolves the merged class jar for a library. It prefers the
// cached merged directory and falls back to the jar artifact's own location
// when it is locally resident. A remote-only jar with no cached copy is a
// configuration error for the caller. An empty path means the library has no
// compiled classes.
func (s *Syncer) ClassJar(lib domain.AarAndJar) (string, error) {
	if lib.Jar == nil {
		return "", nil
	}
	if aarDir, ok := s.AarDir(lib); ok {
		return domain.JarFile(aarDir), nil
	}
	if remote, isRemote := lib.Jar.(domain.RemoteArtifact); isRemote {
		// If the jar is remote, the cache state is expected to contain the
		// key, so this lookup miss is unexpected.
		s.logger.Warn(fmt.Sprintf(
			"failed to look up library %s from cache state [aar = %s, jar = %s]",
			lib.LibraryKey, lib.Aar.CacheKey(), remote.Key))
		s.logger.Info(fmt.Sprintf("cache state contains the following keys: %v", s.cache.Keys()))
		return "", zerr.With(domain.ErrRemoteNotCached, "key", remote.Key)
	}
	return lib.Jar.(domain.LocalArtifact).Path, nil
}

// ResourceDirectory resolves the res/ directory of a library's cached merged
// entry.
func (s *Syncer) ResourceDirectory(lib domain.AarAndJar) (string, bool) {
	aarDir, ok := s.AarDir(lib)
	if !ok {
		return "", false
	}
	return domain.ResDir(aarDir), true
}

// AarDir resolves the merged cache directory for a library.
func (s *Syncer) AarDir(lib domain.AarAndJar) (string, bool) {
	return s.cache.Dir(domain.MergedDirName(lib.LibraryKey))
}

func hasRemote(set domain.LibrarySet) bool {
	for _, lib := range set.Libraries {
		if _, isRemote := lib.Aar.(domain.RemoteArtifact); isRemote {
			return true
		}
		if lib.Jar != nil {
			if _, isRemote := lib.Jar.(domain.RemoteArtifact); isRemote {
				return true
			}
		}
	}
	return false
}

// declaredState keys every declared work item by its raw cache entry name.
func declaredState(set domain.LibrarySet) map[string]domain.AarAndJar {
	declared := make(map[string]domain.AarAndJar, len(set.Libraries))
	for _, lib := range set.Libraries {
		declared[domain.AarDirName(lib.Aar)] = lib
	}
	return declared
}

// remoteSubset returns the remote artifacts among the updated keys' aars and
// jars; local artifacts bypass fetching.
func remoteSubset(declared map[string]domain.AarAndJar, updatedKeys map[string]struct{}) []domain.RemoteArtifact {
	var artifacts []domain.RemoteArtifact
	for key := range updatedKeys {
		item, ok := declared[key]
		if !ok {
			continue
		}
		if remote, isRemote := item.Aar.(domain.RemoteArtifact); isRemote {
			artifacts = append(artifacts, remote)
		}
		if item.Jar != nil {
			if remote, isRemote := item.Jar.(domain.RemoteArtifact); isRemote {
				artifacts = append(artifacts, remote)
			}
		}
	}
	return artifacts
}

// remoteSnapshot records the digests of all declared remote artifacts for
// the next pass's diff.
func remoteSnapshot(declared map[string]domain.AarAndJar) map[string]digest.Digest {
	snapshot := make(map[string]digest.Digest)
	for _, item := range declared {
		if remote, isRemote := item.Aar.(domain.RemoteArtifact); isRemote {
			snapshot[remote.Key] = remote.Digest
		}
		if item.Jar != nil {
			if remote, isRemote := item.Jar.(domain.RemoteArtifact); isRemote {
				snapshot[remote.Key] = remote.Digest
			}
		}
	}
	return snapshot
}

func cancelled(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
