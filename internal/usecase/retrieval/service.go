package retrieval

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/askgames/internal/db"
	"github.com/kailas-cloud/askgames/internal/domain"
	"github.com/kailas-cloud/askgames/internal/metrics"
)

// NoContextNotice marks a retrieval that found nothing usable.
const NoContextNotice = "No se encontró contexto relevante para la pregunta."

// Service runs the full retrieval stage: plan, embed, resolve the index,
// execute and shape the ranked result.
type Service struct {
	repo     Repository
	embed    Embedder
	resolver IndexResolver
	planner  *Planner

	pattern   string
	descChars int
	timeout   time.Duration
	logger    *zap.Logger
}

// Options groups the retrieval tuning knobs.
type Options struct {
	IndexPattern     string
	DescriptionChars int
	SearchTimeout    time.Duration
}

// New creates a retrieval service.
func New(
	repo Repository, embed Embedder, resolver IndexResolver,
	planner *Planner, opts Options, logger *zap.Logger,
) *Service {
	return &Service{
		repo:      repo,
		embed:     embed,
		resolver:  resolver,
		planner:   planner,
		pattern:   opts.IndexPattern,
		descChars: opts.DescriptionChars,
		timeout:   opts.SearchTimeout,
		logger:    logger,
	}
}

// Retrieve answers one question's retrieval stage. Only an embedding failure
// aborts (typed error); query execution failures degrade to a result carrying
// a visible error notice and zero score, since generation can still proceed
// without context.
func (s *Service) Retrieve(ctx context.Context, question string) (domain.RetrievalQuery, domain.RetrievalResult, error) {
	query := s.planner.Build(question)

	embResult, err := s.embed.Embed(ctx, question)
	if err != nil {
		return query, domain.RetrievalResult{}, fmt.Errorf("vectorize question: %w", err)
	}
	query.Vector = embResult.Embedding

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	index := s.resolver.ResolveLatest(ctx, s.pattern)

	start := time.Now()
	result := s.execute(ctx, index, query)
	metrics.RetrievalDuration.WithLabelValues(query.Strategy.String()).Observe(time.Since(start).Seconds())
	metrics.RetrievalHits.WithLabelValues(query.Strategy.String()).Observe(float64(len(result.Hits)))

	return query, result, nil
}

func (s *Service) execute(ctx context.Context, index string, query domain.RetrievalQuery) domain.RetrievalResult {
	var (
		hits []domain.Hit
		err  error
	)

	switch query.Strategy {
	case domain.StrategyPriceFilter:
		hits, err = s.executePriceFilter(ctx, index, query)
	default:
		hits, err = s.executeHybrid(ctx, index, query)
	}

	strategy := query.Strategy.String()
	if err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues(strategy, "error").Inc()
		s.logger.Warn("Retrieval failed",
			zap.String("index", index),
			zap.String("strategy", strategy),
			zap.Error(err))
		return domain.RetrievalResult{Notice: fmt.Sprintf("[Error de búsqueda]: %v", err)}
	}

	metrics.RetrievalRequestsTotal.WithLabelValues(strategy, "success").Inc()

	if len(hits) == 0 {
		return domain.RetrievalResult{Notice: NoContextNotice}
	}

	for i := range hits {
		hits[i].Description = truncateRunes(hits[i].Description, s.descChars)
	}

	return domain.RetrievalResult{
		Hits:     hits,
		MaxScore: hits[0].Score,
	}
}

// executePriceFilter narrows candidates to the price band and ranks the
// survivors by vector similarity.
func (s *Service) executePriceFilter(ctx context.Context, index string, query domain.RetrievalQuery) ([]domain.Hit, error) {
	lo, hi := query.PriceBounds()
	prefilter := db.NumericRange(domain.FieldPrice, lo, hi)
	return s.repo.SearchKNN(ctx, index, query.Vector, prefilter, query.TopK, query.Candidates)
}

// executeHybrid runs the KNN and weighted lexical legs, then fuses via RRF.
// A lexical leg with no usable terms degrades to vector-only ranking.
func (s *Service) executeHybrid(ctx context.Context, index string, query domain.RetrievalQuery) ([]domain.Hit, error) {
	knn, err := s.repo.SearchKNN(ctx, index, query.Vector, "", query.TopK, query.Candidates)
	if err != nil {
		return nil, err
	}

	lexical, err := s.repo.SearchLexical(ctx, index, query.Question, query.TopK)
	if err != nil {
		return nil, err
	}

	if len(lexical) == 0 {
		return knn, nil
	}
	return fuseRRF(knn, lexical, query.TopK), nil
}

// truncateRunes caps s at max runes, appending an ellipsis when cut.
func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
