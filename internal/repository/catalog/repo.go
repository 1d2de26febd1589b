package catalog

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/askgames/internal/db"
	"github.com/kailas-cloud/askgames/internal/domain"
)

// store is the consumer interface for catalog browsing (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	HGet(ctx context.Context, key, field string) ([]byte, error)
}

// gameFields is the catalog projection. The embedding vector stays out.
var gameFields = []string{
	domain.FieldName,
	domain.FieldShortDesc,
	domain.FieldGenres,
	domain.FieldDevelopers,
	domain.FieldPrice,
	domain.FieldIsFree,
	domain.FieldQualityScore,
	domain.FieldReleaseDate,
}

// Repo provides browse-style catalog reads next to the retrieval pipeline.
type Repo struct {
	store store
}

// New creates a catalog repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Free lists free-to-play games: either flagged free or priced at zero.
func (r *Repo) Free(ctx context.Context, index string, limit int) ([]domain.CatalogGame, error) {
	query := db.Or(
		db.TagMatch(domain.FieldIsFree, "true"),
		db.NumericRange(domain.FieldPrice, 0, 0),
	)

	sr, err := r.store.SearchList(ctx, index, query, 0, limit, gameFields)
	if err != nil {
		return nil, fmt.Errorf("list free games: %w", err)
	}
	return parseGames(sr), nil
}

// ByGenre lists games tagged with the given genre.
func (r *Repo) ByGenre(ctx context.Context, index, genre string, limit int) ([]domain.CatalogGame, error) {
	query := db.TagMatch(domain.FieldGenres, genre)

	sr, err := r.store.SearchList(ctx, index, query, 0, limit, gameFields)
	if err != nil {
		return nil, fmt.Errorf("list games by genre %q: %w", genre, err)
	}
	return parseGames(sr), nil
}

// ByDateRange lists games released inside [from, to], both "2006-01-02"
// strings. Release dates are indexed as epoch seconds.
func (r *Repo) ByDateRange(ctx context.Context, index, from, to string, limit int) ([]domain.CatalogGame, error) {
	lo, err := parseDate(from)
	if err != nil {
		return nil, err
	}
	hi, err := parseDate(to)
	if err != nil {
		return nil, err
	}
	// Inclusive upper bound covers the whole day.
	hi = hi.AddDate(0, 0, 1).Add(-time.Second)

	query := db.NumericRange(domain.FieldReleaseDate, float64(lo.Unix()), float64(hi.Unix()))

	sr, err := r.store.SearchList(ctx, index, query, 0, limit, gameFields)
	if err != nil {
		return nil, fmt.Errorf("list games by date: %w", err)
	}
	return parseGames(sr), nil
}

// FindKey resolves a free-form title to the best-matching document key.
func (r *Repo) FindKey(ctx context.Context, index, title string) (string, error) {
	query := db.FuzzyMatch(domain.FieldName, db.Tokenize(title))
	if query == "" {
		return "", domain.ErrGameNotFound
	}

	sr, err := r.store.SearchText(ctx, &db.TextQuery{
		IndexName:    index,
		Query:        query,
		TopK:         1,
		ReturnFields: []string{domain.FieldName},
	})
	if err != nil {
		return "", fmt.Errorf("find game %q: %w", title, err)
	}
	if len(sr.Entries) == 0 {
		return "", domain.ErrGameNotFound
	}
	return sr.Entries[0].Key, nil
}

// SimilarTo lists the k nearest neighbours of the stored game at key,
// excluding the game itself.
func (r *Repo) SimilarTo(ctx context.Context, index, key string, k int) ([]domain.CatalogGame, error) {
	raw, err := r.store.HGet(ctx, key, domain.FieldEmbedding)
	if err != nil {
		return nil, fmt.Errorf("read embedding for %s: %w", key, err)
	}
	vec, err := bytesToVector(raw)
	if err != nil {
		return nil, fmt.Errorf("read embedding for %s: %w", key, err)
	}

	// Fetch one extra: the source game is its own nearest neighbour.
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    index,
		Vector:       vec,
		K:            k + 1,
		ReturnFields: gameFields,
	})
	if err != nil {
		return nil, fmt.Errorf("similar to %s: %w", key, err)
	}

	games := make([]domain.CatalogGame, 0, k)
	for _, entry := range sr.Entries {
		if entry.Key == key {
			continue
		}
		games = append(games, parseGame(entry))
		if len(games) == k {
			break
		}
	}
	return games, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", s, domain.ErrInvalidDate)
	}
	return t, nil
}

func parseGames(sr *db.SearchResult) []domain.CatalogGame {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}
	games := make([]domain.CatalogGame, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		games = append(games, parseGame(entry))
	}
	return games
}

func parseGame(entry db.SearchEntry) domain.CatalogGame {
	var g domain.CatalogGame
	for k, v := range entry.Fields {
		switch k {
		case domain.FieldName:
			g.Title = v
		case domain.FieldShortDesc:
			g.ShortDesc = v
		case domain.FieldGenres:
			g.Genres = splitCSV(v)
		case domain.FieldDevelopers:
			g.Developers = splitCSV(v)
		case domain.FieldPrice:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				g.Price = f
			}
		case domain.FieldIsFree:
			g.IsFree = v == "true" || v == "1"
		case domain.FieldQualityScore:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				g.QualityScore = f
			}
		case domain.FieldReleaseDate:
			g.ReleaseDate = formatEpochDate(v)
		}
	}
	return g
}

func splitCSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// formatEpochDate turns stored epoch seconds back into "2006-01-02".
// Unparseable values pass through unchanged.
func formatEpochDate(v string) string {
	sec, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return v
	}
	return time.Unix(sec, 0).UTC().Format("2006-01-02")
}

func bytesToVector(data []byte) ([]float32, error) {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding blob: len=%d", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
