package ports

import (
	"context"

	"github.com/pge-bw/aarcache/internal/core/domain"
)

// Prefetcher stages remote artifacts locally so they can be read during
// unpacking. Local artifacts bypass it entirely.
//
//go:generate go run go.uber.org/mock/mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type Prefetcher interface {
	// Download stages the given remote artifacts. It must complete before
	// any staged path is read.
	Download(ctx context.Context, projectName string, artifacts []domain.RemoteArtifact) error

	// StagedPath returns the local path holding a previously downloaded
	// artifact's content.
	StagedPath(artifact domain.RemoteArtifact) (string, error)
}
