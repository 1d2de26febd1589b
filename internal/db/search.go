package db

// KNNQuery is the input for vector similarity search.
//
// Prefilter is an FT query string restricting the candidate set before the
// KNN stage (e.g. a numeric price band); empty means match-all.
type KNNQuery struct {
	IndexName    string
	Prefilter    string
	Vector       []float32
	K            int
	EFRuntime    int // HNSW runtime candidate pool; 0 uses the index default
	ReturnFields []string
}

// TextQuery is the input for lexical (full-text) search.
// Query is a complete FT query string, typically produced by WeightedFuzzy
// or FuzzyMatch.
type TextQuery struct {
	IndexName    string
	Query        string
	TopK         int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
