package ask

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/askgames/internal/domain"
)

// Service is the question pipeline: retrieve, format, generate, record.
// Each invocation is stateless and independent; retrieval and generation are
// strictly ordered within a request.
type Service struct {
	retriever Retriever
	formatter ContextFormatter
	generator Generator
	recorder  Recorder
	logger    *zap.Logger
}

// New creates the pipeline service. recorder may be nil.
func New(
	retriever Retriever, formatter ContextFormatter,
	generator Generator, recorder Recorder, logger *zap.Logger,
) *Service {
	return &Service{
		retriever: retriever,
		formatter: formatter,
		generator: generator,
		recorder:  recorder,
		logger:    logger,
	}
}

// Ask answers one question end to end. The only errors returned are a blank
// question and an embedding failure; every other failure mode is encoded in
// the result itself.
func (s *Service) Ask(ctx context.Context, question string) (domain.GenerationResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.GenerationResult{}, domain.ErrEmptyQuestion
	}

	query, retrieved, err := s.retriever.Retrieve(ctx, question)
	if err != nil {
		return domain.GenerationResult{}, fmt.Errorf("retrieve context: %w", err)
	}

	s.logger.Debug("Context retrieved",
		zap.String("strategy", query.Strategy.String()),
		zap.Int("hits", len(retrieved.Hits)),
		zap.Float64("max_score", retrieved.MaxScore))

	contextBlock := s.formatter.Format(retrieved)

	result := s.generator.Generate(ctx, question, contextBlock, retrieved.MaxScore)

	if s.recorder != nil {
		s.recorder.Record(question, query.Strategy, result)
	}

	return result, nil
}
