package ports

import (
	"github.com/opencontainers/go-digest"

	"github.com/pge-bw/aarcache/internal/core/domain"
)

// Differ computes the subset of declared cache entries that need a refresh.
// Implementations must be free of side effects.
//
//go:generate go run go.uber.org/mock/mockgen -source=differ.go -destination=mocks/mock_differ.go -package=mocks
type Differ interface {
	// UpdatedKeys returns the keys of declared whose cached content is stale
	// or missing. declared maps cache entry names to artifacts, cached maps
	// entry names to stamp marker paths, and previous holds the remote
	// artifact digests known from the prior pass, keyed by content key.
	UpdatedKeys(
		declared map[string]domain.Artifact,
		cached map[string]string,
		previous map[string]digest.Digest,
	) (map[string]struct{}, error)
}
