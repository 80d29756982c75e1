// Package diff decides which cache entries need a refresh.
package diff

import (
	"github.com/opencontainers/go-digest"
	"go.trai.ch/zerr"

	"github.com/pge-bw/aarcache/internal/core/domain"
	"github.com/pge-bw/aarcache/internal/core/ports"
)

var _ ports.Differ = (*Differ)(nil)

// Differ implements ports.Differ. A declared entry is updated when it is
// absent from the cache state, when a local artifact's modification time no
// longer matches its stamp marker, or when a remote artifact's digest
// differs from the previous pass's snapshot. An artifact that switched from
// local to remote falls out of the snapshot and is therefore updated too.
type Differ struct {
	ops ports.FileOps
}

// New creates a new Differ.
func New(ops ports.FileOps) *Differ {
	return &Differ{ops: ops}
}

// UpdatedKeys computes the set of declared keys needing a refresh.
func (d *Differ) UpdatedKeys(
	declared map[string]domain.Artifact,
	cached map[string]string,
	previous map[string]digest.Digest,
) (map[string]struct{}, error) {
	updated := make(map[string]struct{})
	for name, artifact := range declared {
		stampPath, ok := cached[name]
		if !ok {
			updated[name] = struct{}{}
			continue
		}
		stale, err := d.isStale(artifact, stampPath, previous)
		if err != nil {
			return nil, err
		}
		if stale {
			updated[name] = struct{}{}
		}
	}
	return updated, nil
}

func (d *Differ) isStale(artifact domain.Artifact, stampPath string, previous map[string]digest.Digest) (bool, error) {
	switch a := artifact.(type) {
	case domain.LocalArtifact:
		sourceTime, err := d.ops.ModTime(a.Path)
		if err != nil {
			// Source unreadable: refresh and let the unpack report it.
			return true, nil
		}
		stampTime, err := d.ops.ModTime(stampPath)
		if err != nil {
			return true, nil
		}
		return !sourceTime.Equal(stampTime), nil
	case domain.RemoteArtifact:
		prev, ok := previous[a.Key]
		return !ok || prev != a.Digest, nil
	default:
		return false, zerr.With(domain.ErrUnknownArtifactType, "key", artifact.CacheKey())
	}
}
