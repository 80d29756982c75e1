package domain

import "go.trai.ch/zerr"

var (
	// ErrSyncCancelled is returned when a sync pass is interrupted before it
	// completes.
	ErrSyncCancelled = zerr.New("sync pass cancelled")

	// ErrRemoteNotCached is returned when a lookup needs local content for a
	// remote-only artifact that has no cached copy. There is no meaningful
	// fallback path for remote artifacts.
	ErrRemoteNotCached = zerr.New("remote artifact not cached")

	// ErrUnknownSyncMode is returned when a sync mode string is not one of
	// full, incremental or refresh.
	ErrUnknownSyncMode = zerr.New("unknown sync mode")

	// ErrUnknownArtifactType is returned when an Artifact implementation is
	// neither local nor remote.
	ErrUnknownArtifactType = zerr.New("unknown artifact type")

	// ErrLibraryNotFound is returned when a library key is not present in
	// the declared set.
	ErrLibraryNotFound = zerr.New("library not found")
)
