package catalog

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/askgames/internal/domain"
)

const (
	// defaultLimit bounds browse listings.
	defaultLimit = 50
	// similarK is the neighbour count for similarity lookups.
	similarK = 10
)

// Service provides direct catalog browsing next to the question pipeline.
// No LLM involved: these are plain index reads.
type Service struct {
	repo     Repository
	resolver IndexResolver
	pattern  string
}

// New creates a catalog service.
func New(repo Repository, resolver IndexResolver, pattern string) *Service {
	return &Service{repo: repo, resolver: resolver, pattern: pattern}
}

// FreeGames lists free-to-play games.
func (s *Service) FreeGames(ctx context.Context) ([]domain.CatalogGame, error) {
	index := s.resolver.ResolveLatest(ctx, s.pattern)
	games, err := s.repo.Free(ctx, index, defaultLimit)
	if err != nil {
		return nil, fmt.Errorf("free games: %w", err)
	}
	return games, nil
}

// ByGenre lists games carrying the given genre tag.
func (s *Service) ByGenre(ctx context.Context, genre string) ([]domain.CatalogGame, error) {
	index := s.resolver.ResolveLatest(ctx, s.pattern)
	games, err := s.repo.ByGenre(ctx, index, genre, defaultLimit)
	if err != nil {
		return nil, fmt.Errorf("games by genre: %w", err)
	}
	return games, nil
}

// Released lists games released on a concrete day ("2006-01-02") or during
// a whole year ("2006").
func (s *Service) Released(ctx context.Context, date string) ([]domain.CatalogGame, error) {
	from, to := date, date
	if len(date) == 4 {
		from, to = date+"-01-01", date+"-12-31"
	}

	index := s.resolver.ResolveLatest(ctx, s.pattern)
	games, err := s.repo.ByDateRange(ctx, index, from, to, defaultLimit)
	if err != nil {
		return nil, fmt.Errorf("games by date: %w", err)
	}
	return games, nil
}

// SimilarTo finds the stored game best matching title and lists its nearest
// neighbours by the stored embedding. No embedding provider round-trip.
func (s *Service) SimilarTo(ctx context.Context, title string) ([]domain.CatalogGame, error) {
	index := s.resolver.ResolveLatest(ctx, s.pattern)

	key, err := s.repo.FindKey(ctx, index, title)
	if err != nil {
		return nil, fmt.Errorf("similar games: %w", err)
	}

	games, err := s.repo.SimilarTo(ctx, index, key, similarK)
	if err != nil {
		return nil, fmt.Errorf("similar games: %w", err)
	}
	return games, nil
}
