package domain

// Strategy selects how a question is turned into a search request.
// Exactly one strategy is active per request, chosen deterministically
// from the question text.
type Strategy int

const (
	// StrategyHybrid combines KNN vector ranking with weighted fuzzy
	// lexical matching.
	StrategyHybrid Strategy = iota
	// StrategyPriceFilter narrows candidates to a price band and ranks
	// the survivors by vector similarity.
	StrategyPriceFilter
)

// String returns the strategy name for logs and metrics labels.
func (s Strategy) String() string {
	if s == StrategyPriceFilter {
		return "price_filter"
	}
	return "hybrid"
}

// RetrievalQuery is a request-scoped retrieval plan built from one question.
type RetrievalQuery struct {
	Strategy Strategy
	Question string
	Vector   []float32
	TopK     int

	// Price-filter strategy.
	TargetPrice    float64
	PriceTolerance float64

	// Hybrid strategy: size of the KNN candidate pool explored before
	// the topK cut. Inflated above TopK to improve recall.
	Candidates int
}

// PriceBounds returns the inclusive price band for the price-filter strategy.
func (q RetrievalQuery) PriceBounds() (lo, hi float64) {
	return q.TargetPrice - q.PriceTolerance, q.TargetPrice + q.PriceTolerance
}
