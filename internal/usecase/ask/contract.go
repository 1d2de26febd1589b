package ask

import (
	"context"

	"github.com/kailas-cloud/askgames/internal/domain"
)

// Retriever runs the retrieval stage for one question.
type Retriever interface {
	Retrieve(ctx context.Context, question string) (domain.RetrievalQuery, domain.RetrievalResult, error)
}

// ContextFormatter renders a retrieval result into the context block.
type ContextFormatter interface {
	Format(result domain.RetrievalResult) string
}

// Generator produces the final answer from question plus context.
type Generator interface {
	Generate(ctx context.Context, question, contextBlock string, score float64) domain.GenerationResult
}

// Recorder persists per-question usage records. May be nil-adjacent: a
// no-op implementation disables accounting.
type Recorder interface {
	Record(question string, strategy domain.Strategy, res domain.GenerationResult)
}
