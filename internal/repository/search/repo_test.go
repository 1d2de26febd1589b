package search

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/kailas-cloud/askgames/internal/db"
	"github.com/kailas-cloud/askgames/internal/domain"
)

// --- Mocks ---

type mockStore struct {
	knnResult  *db.SearchResult
	knnErr     error
	textResult *db.SearchResult
	textErr    error
	gotKNN     *db.KNNQuery
	gotText    *db.TextQuery
	textCalls  int
}

func (m *mockStore) SearchKNN(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	m.gotKNN = q
	return m.knnResult, m.knnErr
}

func (m *mockStore) SearchText(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	m.textCalls++
	m.gotText = q
	return m.textResult, m.textErr
}

var testBoosts = []db.FieldBoost{
	{Field: domain.FieldName, Weight: 5},
	{Field: domain.FieldGenresText, Weight: 2},
	{Field: domain.FieldShortDesc, Weight: 1},
}

// --- Tests ---

func TestSearchKNN_QueryShape(t *testing.T) {
	store := &mockStore{knnResult: &db.SearchResult{}}
	repo := New(store, testBoosts)

	vec := []float32{0.1, 0.2}
	_, err := repo.SearchKNN(context.Background(), "steam_games-2024.03.15", vec, "@price_final:[9.7 9.8]", 5, 55)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q := store.gotKNN
	if q.IndexName != "steam_games-2024.03.15" {
		t.Errorf("unexpected index %q", q.IndexName)
	}
	if q.Prefilter != "@price_final:[9.7 9.8]" {
		t.Errorf("unexpected prefilter %q", q.Prefilter)
	}
	if q.K != 5 || q.EFRuntime != 55 {
		t.Errorf("expected k=5 ef=55, got k=%d ef=%d", q.K, q.EFRuntime)
	}
	if !reflect.DeepEqual(q.Vector, vec) {
		t.Errorf("vector not passed through: %v", q.Vector)
	}
	for _, f := range q.ReturnFields {
		if f == domain.FieldEmbedding {
			t.Error("the embedding vector must never be projected back")
		}
	}
}

func TestSearchKNN_ParsesHits(t *testing.T) {
	store := &mockStore{knnResult: &db.SearchResult{
		Total: 2,
		Entries: []db.SearchEntry{
			{
				Key:   "steam_games-2024.03.15:620",
				Score: 0.93,
				Fields: map[string]string{
					domain.FieldName:      "Portal 2",
					domain.FieldPrice:     "9.75",
					domain.FieldIsFree:    "false",
					domain.FieldGenres:    "Puzzle, Plataformas",
					domain.FieldShortDesc: "Cámaras de pruebas.",
				},
			},
			{
				Key:   "steam_games-2024.03.15:570",
				Score: 0.81,
				Fields: map[string]string{
					domain.FieldName:   "Dota 2",
					domain.FieldIsFree: "1",
				},
			},
		},
	}}
	repo := New(store, testBoosts)

	hits, err := repo.SearchKNN(context.Background(), "idx", []float32{0.1}, "", 5, 55)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}

	h := hits[0]
	if h.Title != "Portal 2" || h.Price != 9.75 || h.IsFree {
		t.Errorf("unexpected first hit %+v", h)
	}
	if !reflect.DeepEqual(h.Genres, []string{"Puzzle", "Plataformas"}) {
		t.Errorf("genres not split and trimmed: %v", h.Genres)
	}
	if h.Description != "Cámaras de pruebas." || h.Score != 0.93 {
		t.Errorf("unexpected description/score %+v", h)
	}

	// "1" counts as free too.
	if !hits[1].IsFree {
		t.Errorf("expected is_free=1 to parse as free, got %+v", hits[1])
	}
}

func TestSearchKNN_ErrorWrapped(t *testing.T) {
	sentinel := errors.New("store down")
	repo := New(&mockStore{knnErr: sentinel}, testBoosts)

	_, err := repo.SearchKNN(context.Background(), "idx", []float32{0.1}, "", 5, 55)
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if !strings.Contains(err.Error(), "search knn idx") {
		t.Errorf("expected operation context, got %q", err.Error())
	}
}

func TestSearchLexical_WeightedQuery(t *testing.T) {
	store := &mockStore{textResult: &db.SearchResult{}}
	repo := New(store, testBoosts)

	_, err := repo.SearchLexical(context.Background(), "idx", "juegos de terror", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q := store.gotText
	if q.TopK != 5 {
		t.Errorf("expected topK 5, got %d", q.TopK)
	}
	for _, want := range []string{"%terror%", "$weight:5", "$weight:2", "$weight:1", "@name:", "@genres_text:", "@short_description:"} {
		if !strings.Contains(q.Query, want) {
			t.Errorf("lexical query missing %q: %q", want, q.Query)
		}
	}
	// The genres TAG attribute rejects TEXT-syntax clauses; only the TEXT
	// alias may appear in the lexical leg.
	if strings.Contains(q.Query, "@genres:") {
		t.Errorf("lexical query must not address the TAG attribute: %q", q.Query)
	}
}

func TestSearchLexical_NoTermsSkipsRoundTrip(t *testing.T) {
	store := &mockStore{}
	repo := New(store, testBoosts)

	hits, err := repo.SearchLexical(context.Background(), "idx", "¿? !", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits != nil {
		t.Errorf("expected no hits, got %v", hits)
	}
	if store.textCalls != 0 {
		t.Errorf("expected no store round-trip, got %d calls", store.textCalls)
	}
}

func TestSplitGenres(t *testing.T) {
	got := splitGenres("Action, RPG , ,Indie")
	want := []string{"Action", "RPG", "Indie"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if splitGenres("") != nil {
		t.Error("empty input must yield nil")
	}
}
