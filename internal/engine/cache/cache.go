// Package cache tracks what the on-disk AAR cache currently holds.
package cache

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/pge-bw/aarcache/internal/core/domain"
	"github.com/pge-bw/aarcache/internal/core/ports"
)

// Cache is the state tracker for one cache root. Its in-memory view maps
// cache entry names to stamp marker paths and is replaced wholesale on every
// Scan via an atomic pointer swap, so concurrent readers never observe a
// partially updated mapping. Readers may still see a snapshot older than the
// latest scan; callers needing freshness must re-scan.
//
// Concurrent sync passes against the same root are not supported and must be
// serialized by the caller.
type Cache struct {
	root        string
	ops         ports.FileOps
	logger      ports.Logger
	parallelism int

	state atomic.Pointer[map[string]string]
}

// New creates a Cache for the given root. The state is empty until the first
// Scan.
func New(root string, ops ports.FileOps, logger ports.Logger, parallelism int) *Cache {
	c := &Cache{
		root:        root,
		ops:         ops,
		logger:      logger,
		parallelism: parallelism,
	}
	empty := map[string]string{}
	c.state.Store(&empty)
	return c
}

// Root returns the cache root directory.
func (c *Cache) Root() string {
	return c.root
}

// EnsureRoot makes sure the cache root directory exists.
func (c *Cache) EnsureRoot() error {
	if c.ops.Exists(c.root) {
		return nil
	}
	return c.ops.MkdirAll(c.root)
}

// Scan rebuilds the state from the cache root's immediate subdirectories.
// Each entry maps to the expected stamp marker path, whether or not the
// marker exists. A missing or unreadable root yields an empty state.
func (c *Cache) Scan() map[string]string {
	scanned := map[string]string{}
	entries, err := c.ops.ListDir(c.root)
	if err != nil {
		c.state.Store(&scanned)
		return scanned
	}
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		scanned[name] = filepath.Join(c.root, name, domain.StampFileName)
	}
	c.state.Store(&scanned)
	return scanned
}

// State returns the current in-memory view without touching the disk.
func (c *Cache) State() map[string]string {
	return *c.state.Load()
}

// Keys returns the names currently tracked.
func (c *Cache) Keys() []string {
	state := *c.state.Load()
	keys := make([]string, 0, len(state))
	for name := range state {
		keys = append(keys, name)
	}
	return keys
}

// Dir returns the on-disk path for a tracked entry name. It misses when the
// state was never populated, which guards against lookups before the first
// scan.
func (c *Cache) Dir(name string) (string, bool) {
	state := *c.state.Load()
	if len(state) == 0 {
		c.logger.Warn("cache state is empty")
		return "", false
	}
	return filepath.Join(c.root, name), true
}

// RemoveStaleEntries deletes every tracked raw entry whose name is not in
// keep, with bounded parallelism, and returns how many were removed.
// Entries without the raw suffix are left alone; their creators regenerate
// them every pass. Deletion failures are logged, not raised.
func (c *Cache) RemoveStaleEntries(ctx context.Context, keep map[string]struct{}) (int, error) {
	state := *c.state.Load()
	var stale []string
	for name := range state {
		if _, kept := keep[name]; kept || !strings.HasSuffix(name, domain.DotAar) {
			continue
		}
		stale = append(stale, name)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism)
	for _, name := range stale {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := c.ops.RemoveAll(filepath.Join(c.root, name)); err != nil {
				c.logger.Warn(fmt.Sprintf("failed to remove stale cache entry %s: %v", name, err))
			}
			return nil
		})
	}
	return len(stale), g.Wait()
}

// Clear deletes the entire cache root, best effort, and empties the state.
func (c *Cache) Clear() {
	if c.ops.Exists(c.root) {
		if err := c.ops.RemoveAll(c.root); err != nil {
			c.logger.Warn(fmt.Sprintf("failed to clear cache directory %s: %v", c.root, err))
		}
	}
	empty := map[string]string{}
	c.state.Store(&empty)
}
