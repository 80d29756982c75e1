// Package domain contains the core types for the AAR cache.
package domain

import "github.com/opencontainers/go-digest"

// Artifact is an opaque handle to archive or jar content. It is either
// locally resident (LocalArtifact) or remote (RemoteArtifact, which must be
// fetched before it can be read).
type Artifact interface {
	// CacheKey returns the stable identity key for this artifact.
	CacheKey() string
}

// LocalArtifact is an artifact backed by a file on the local filesystem.
type LocalArtifact struct {
	Path string
}

// CacheKey returns the artifact's path as its identity key.
func (a LocalArtifact) CacheKey() string { return a.Path }

// RemoteArtifact is an artifact identified by a content key within a remote
// output tree. It carries the digest of its content so staged copies can be
// verified and so changes can be detected between sync passes.
type RemoteArtifact struct {
	Key    string
	Digest digest.Digest
}

// CacheKey returns the artifact's remote content key as its identity key.
func (a RemoteArtifact) CacheKey() string { return a.Key }

// AarAndJar pairs an AAR archive with its optional merged class jar and the
// library key grouping artifacts that belong to the same logical library.
// The jar is supplied as a separate artifact rather than taken from inside
// the archive; it is nil when the library carries no compiled classes.
type AarAndJar struct {
	Aar        Artifact
	Jar        Artifact
	LibraryKey string
}

// LibrarySet is the full set of libraries a project declares for one sync
// pass, as produced by a LibraryCollector.
type LibrarySet struct {
	Project   string
	Libraries []AarAndJar
}

// SyncMode selects how a sync pass treats existing cache content.
type SyncMode string

const (
	// SyncFull clears the whole cache before refreshing.
	SyncFull SyncMode = "full"
	// SyncIncremental refreshes changed entries and prunes entries that are
	// no longer declared.
	SyncIncremental SyncMode = "incremental"
	// SyncRefresh refreshes changed entries without pruning. It is refused
	// when the project declares remote artifacts.
	SyncRefresh SyncMode = "refresh"
)

// ParseSyncMode converts a mode string to a SyncMode.
func ParseSyncMode(s string) (SyncMode, error) {
	switch SyncMode(s) {
	case SyncFull, SyncIncremental, SyncRefresh:
		return SyncMode(s), nil
	default:
		return "", ErrUnknownSyncMode
	}
}
