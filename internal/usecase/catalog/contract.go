package catalog

import (
	"context"

	"github.com/kailas-cloud/askgames/internal/domain"
)

// Repository defines the storage contract for catalog browsing.
type Repository interface {
	Free(ctx context.Context, index string, limit int) ([]domain.CatalogGame, error)
	ByGenre(ctx context.Context, index, genre string, limit int) ([]domain.CatalogGame, error)
	ByDateRange(ctx context.Context, index, from, to string, limit int) ([]domain.CatalogGame, error)
	FindKey(ctx context.Context, index, title string) (string, error)
	SimilarTo(ctx context.Context, index, key string, k int) ([]domain.CatalogGame, error)
}

// IndexResolver maps a wildcard pattern to the most recent concrete index.
type IndexResolver interface {
	ResolveLatest(ctx context.Context, pattern string) string
}
