package retrieval

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kailas-cloud/askgames/internal/domain"
)

// minCandidates floors the KNN candidate pool explored before the topK cut.
const minCandidates = 50

// numberPattern matches an integer or decimal token with either separator.
var numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// Planner turns a question into a retrieval plan. Strategy selection is
// deterministic: a price cue word plus a parseable number selects the
// price-filter strategy, everything else is hybrid.
type Planner struct {
	priceCues []string
	tolerance float64
	topK      int
}

// NewPlanner creates a query planner.
func NewPlanner(priceCues []string, tolerance float64, topK int) *Planner {
	cues := make([]string, len(priceCues))
	for i, c := range priceCues {
		cues[i] = strings.ToLower(c)
	}
	return &Planner{priceCues: cues, tolerance: tolerance, topK: topK}
}

// Build constructs the retrieval plan for one question. The embedding vector
// is attached later by the caller.
func (p *Planner) Build(question string) domain.RetrievalQuery {
	q := domain.RetrievalQuery{
		Strategy:   domain.StrategyHybrid,
		Question:   question,
		TopK:       p.topK,
		Candidates: candidatePool(p.topK),
	}

	if target, ok := p.detectPrice(question); ok {
		q.Strategy = domain.StrategyPriceFilter
		q.TargetPrice = target
		q.PriceTolerance = p.tolerance
	}
	return q
}

// detectPrice reports the target price when the question carries both a cue
// word and a parseable number. A malformed number never aborts: it falls back
// to hybrid.
func (p *Planner) detectPrice(question string) (float64, bool) {
	lower := strings.ToLower(question)

	var cued bool
	for _, cue := range p.priceCues {
		if strings.Contains(lower, cue) {
			cued = true
			break
		}
	}
	if !cued {
		return 0, false
	}

	// First numeric token wins when several are present.
	token := numberPattern.FindString(lower)
	if token == "" {
		return 0, false
	}

	target, err := strconv.ParseFloat(strings.ReplaceAll(token, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return target, true
}

// candidatePool inflates the HNSW exploration pool above topK for recall.
func candidatePool(topK int) int {
	if n := topK + minCandidates; n > minCandidates {
		return n
	}
	return minCandidates
}
