package domain

// Catalog hash field names as stored in the search index. The gateway only
// reads them; ingestion (cmd/loader) writes them.
const (
	FieldName         = "name"
	FieldShortDesc    = "short_description"
	FieldDetailedDesc = "detailed_description"
	FieldGenres       = "genres"
	// FieldGenresText is the TEXT alias of the genres TAG field. TAG fields
	// reject TEXT-syntax fuzzy clauses, so the lexical leg queries the alias.
	FieldGenresText = "genres_text"
	FieldPriceCat     = "price_category"
	FieldPrice        = "price_final"
	FieldIsFree       = "is_free"
	FieldDevelopers   = "developers"
	FieldQualityScore = "quality_score"
	FieldReleaseDate  = "release_date"
	FieldEmbedding    = "embedding"
)

// CatalogGame is one catalog entry as read back from the index. The raw
// embedding vector is never projected back (payload size).
type CatalogGame struct {
	Title        string   `json:"title"`
	ShortDesc    string   `json:"short_description,omitempty"`
	DetailedDesc string   `json:"detailed_description,omitempty"`
	Genres       []string `json:"genres,omitempty"`
	Developers   []string `json:"developers,omitempty"`
	Price        float64  `json:"price"`
	IsFree       bool     `json:"is_free"`
	QualityScore float64  `json:"quality_score,omitempty"`
	ReleaseDate  string   `json:"release_date,omitempty"`
}
