package ports

import "github.com/opencontainers/go-digest"

// SnapshotStore persists the remote artifact digests seen during a pass so
// the next pass can detect remote content changes.
//
//go:generate go run go.uber.org/mock/mockgen -source=snapshot.go -destination=mocks/mock_snapshot.go -package=mocks
type SnapshotStore interface {
	// Load returns the snapshot from the previous pass, or an empty map if
	// none was recorded.
	Load() (map[string]digest.Digest, error)

	// Save replaces the stored snapshot.
	Save(snapshot map[string]digest.Digest) error
}
