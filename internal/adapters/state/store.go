// Package state persists the remote artifact digests seen during a sync
// pass, so the next pass can detect remote content changes.
package state

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"
	"go.trai.ch/zerr"

	"github.com/pge-bw/aarcache/internal/core/ports"
)

// DefaultFileName is the snapshot file kept beneath the cache root. The dot
// prefix keeps it out of cache scans.
const DefaultFileName = ".remote_outputs.json"

var _ ports.SnapshotStore = (*Store)(nil)

// Store implements ports.SnapshotStore using a flat JSON file.
type Store struct {
	path string
}

// NewStore creates a new SnapshotStore backed by the file at the given path.
func NewStore(path string) *Store {
	return &Store{path: filepath.Clean(path)}
}

// Load returns the previous pass's snapshot. A missing or empty file yields
// an empty snapshot.
func (s *Store) Load() (map[string]digest.Digest, error) {
	snapshot := make(map[string]digest.Digest)

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return snapshot, nil
		}
		return nil, zerr.Wrap(err, "failed to read remote output snapshot")
	}
	if len(data) == 0 {
		return snapshot, nil
	}

	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, zerr.Wrap(err, "failed to unmarshal remote output snapshot")
	}
	return snapshot, nil
}

// Save replaces the stored snapshot.
func (s *Store) Save(snapshot map[string]digest.Digest) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal remote output snapshot")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create directory for remote output snapshot")
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write remote output snapshot")
	}
	return nil
}
