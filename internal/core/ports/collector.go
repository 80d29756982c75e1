package ports

import (
	"context"

	"github.com/pge-bw/aarcache/internal/core/domain"
)

// LibraryCollector discovers the artifact groups the project declares for a
// sync pass. The cache engine treats the declared set as authoritative.
//
//go:generate go run go.uber.org/mock/mockgen -source=collector.go -destination=mocks/mock_collector.go -package=mocks
type LibraryCollector interface {
	// Collect resolves the project's declared libraries.
	Collect(ctx context.Context) (domain.LibrarySet, error)
}
