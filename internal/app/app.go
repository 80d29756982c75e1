// Package app wires the cache engine to its adapters and exposes the
// operations the CLI runs.
package app

import (
	"context"
	"path/filepath"
	"runtime"

	"go.trai.ch/zerr"

	"github.com/pge-bw/aarcache/internal/adapters/archive"
	"github.com/pge-bw/aarcache/internal/adapters/fetch"
	"github.com/pge-bw/aarcache/internal/adapters/fs"
	"github.com/pge-bw/aarcache/internal/adapters/manifest"
	"github.com/pge-bw/aarcache/internal/adapters/state"
	"github.com/pge-bw/aarcache/internal/core/domain"
	"github.com/pge-bw/aarcache/internal/core/ports"
	"github.com/pge-bw/aarcache/internal/engine/cache"
	"github.com/pge-bw/aarcache/internal/engine/diff"
	"github.com/pge-bw/aarcache/internal/engine/syncer"
	"github.com/pge-bw/aarcache/internal/engine/unpack"
)

// Options configures an App.
type Options struct {
	// ManifestPath is the YAML manifest declaring the project's libraries.
	ManifestPath string
	// CacheDir is the cache root. Defaults to .aarcache next to the
	// manifest.
	CacheDir string
	// RemoteBase is the directory remote artifact keys are resolved
	// against.
	RemoteBase string
	// Jobs bounds parallel filesystem work. Defaults to the CPU count.
	Jobs int
}

// App holds the wired cache engine.
type App struct {
	logger    ports.Logger
	cache     *cache.Cache
	collector ports.LibraryCollector
	syncer    *syncer.Syncer
}

// New wires an App from the given options.
func New(opts Options, logger ports.Logger) *App {
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.NumCPU()
	}
	if opts.CacheDir == "" {
		opts.CacheDir = filepath.Join(filepath.Dir(opts.ManifestPath), ".aarcache")
	}

	ops := fs.New()
	collector := manifest.NewLoader(opts.ManifestPath)
	c := cache.New(opts.CacheDir, ops, logger, opts.Jobs)
	prefetcher := fetch.NewPrefetcher(
		opts.RemoteBase,
		filepath.Join(opts.CacheDir, fetch.StagingDirName),
		logger,
		opts.Jobs,
	)
	snapshots := state.NewStore(filepath.Join(opts.CacheDir, state.DefaultFileName))
	unpacker := unpack.New(ops, archive.NewZipExtractor(), prefetcher, logger, opts.Jobs)
	sy := syncer.New(c, collector, prefetcher, diff.New(ops), unpacker, snapshots, logger)

	return &App{
		logger:    logger,
		cache:     c,
		collector: collector,
		syncer:    sy,
	}
}

// CacheDir returns the cache root directory.
func (a *App) CacheDir() string {
	return a.cache.Root()
}

// Sync runs one synchronization pass in the given mode.
func (a *App) Sync(ctx context.Context, mode string) (syncer.Result, error) {
	m, err := domain.ParseSyncMode(mode)
	if err != nil {
		return syncer.Result{}, zerr.With(err, "mode", mode)
	}
	return a.syncer.Sync(ctx, m)
}

// Clean deletes the entire cache root.
func (a *App) Clean(_ context.Context) error {
	a.cache.Clear()
	return nil
}

// LibraryPaths holds the resolved on-disk locations for one library.
type LibraryPaths struct {
	Jar string
	Res string
}

// Paths resolves the merged jar and resource directory for a library key.
// The cache state is scanned first so lookups reflect the disk.
func (a *App) Paths(ctx context.Context, libraryKey string) (LibraryPaths, error) {
	a.cache.Scan()

	set, err := a.collector.Collect(ctx)
	if err != nil {
		return LibraryPaths{}, zerr.Wrap(err, "failed to collect declared libraries")
	}
	for _, lib := range set.Libraries {
		if lib.LibraryKey != libraryKey {
			continue
		}
		jar, err := a.syncer.ClassJar(lib)
		if err != nil {
			return LibraryPaths{}, err
		}
		res, _ := a.syncer.ResourceDirectory(lib)
		return LibraryPaths{Jar: jar, Res: res}, nil
	}
	return LibraryPaths{}, zerr.With(domain.ErrLibraryNotFound, "key", libraryKey)
}
