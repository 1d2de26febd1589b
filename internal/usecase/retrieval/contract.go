package retrieval

import (
	"context"

	"github.com/kailas-cloud/askgames/internal/domain"
)

// Repository defines the storage contract for retrieval operations.
type Repository interface {
	SearchKNN(
		ctx context.Context, index string,
		vector []float32, prefilter string, k, efRuntime int,
	) ([]domain.Hit, error)

	SearchLexical(
		ctx context.Context, index, question string, topK int,
	) ([]domain.Hit, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// IndexResolver maps a wildcard pattern to the most recent concrete index.
type IndexResolver interface {
	ResolveLatest(ctx context.Context, pattern string) string
}
