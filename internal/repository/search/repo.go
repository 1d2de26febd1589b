package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/askgames/internal/db"
	"github.com/kailas-cloud/askgames/internal/domain"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// hitFields is the bounded _source-style projection for retrieval hits.
// The raw embedding vector is never returned.
var hitFields = []string{
	domain.FieldName,
	domain.FieldPrice,
	domain.FieldIsFree,
	domain.FieldGenres,
	domain.FieldShortDesc,
}

// Repo implements usecase/retrieval.Repository over the FT search store.
type Repo struct {
	store  store
	boosts []db.FieldBoost
}

// New creates a search repository. boosts order the lexical fields by
// descending weight; it is fixed at construction.
func New(s store, boosts []db.FieldBoost) *Repo {
	return &Repo{store: s, boosts: boosts}
}

// SearchKNN ranks documents by vector similarity, optionally narrowed by an
// FT prefilter expression (e.g. a price band).
func (r *Repo) SearchKNN(
	ctx context.Context, index string,
	vector []float32, prefilter string, k, efRuntime int,
) ([]domain.Hit, error) {
	q := &db.KNNQuery{
		IndexName:    index,
		Prefilter:    prefilter,
		Vector:       vector,
		K:            k,
		EFRuntime:    efRuntime,
		ReturnFields: hitFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w", index, err)
	}

	return parseHits(sr), nil
}

// SearchLexical runs the weighted fuzzy lexical leg over the question terms.
// Questions with no usable terms yield no hits and no query round-trip.
func (r *Repo) SearchLexical(
	ctx context.Context, index, question string, topK int,
) ([]domain.Hit, error) {
	query := db.WeightedFuzzy(r.boosts, db.Tokenize(question))
	if query == "" {
		return nil, nil
	}

	q := &db.TextQuery{
		IndexName:    index,
		Query:        query,
		TopK:         topK,
		ReturnFields: hitFields,
	}

	sr, err := r.store.SearchText(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search lexical %s: %w", index, err)
	}

	return parseHits(sr), nil
}

func parseHits(sr *db.SearchResult) []domain.Hit {
	if sr == nil || sr.Total == 0 {
		return nil
	}

	hits := make([]domain.Hit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		hits = append(hits, parseHit(entry))
	}
	return hits
}

func parseHit(entry db.SearchEntry) domain.Hit {
	h := domain.Hit{
		Key:   entry.Key,
		Score: entry.Score,
	}
	for k, v := range entry.Fields {
		switch k {
		case domain.FieldName:
			h.Title = v
		case domain.FieldPrice:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				h.Price = f
			}
		case domain.FieldIsFree:
			h.IsFree = v == "true" || v == "1"
		case domain.FieldGenres:
			h.Genres = splitGenres(v)
		case domain.FieldShortDesc:
			h.Description = v
		}
	}
	return h
}

func splitGenres(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if g := strings.TrimSpace(p); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}
