package retrieval

import (
	"sort"

	"github.com/kailas-cloud/askgames/internal/domain"
)

// rrfK is the Reciprocal Rank Fusion constant (standard value from Cormack et al. 2009).
const rrfK = 60

// fuseRRF merges the KNN and lexical rankings via Reciprocal Rank Fusion.
// score(d) = sum of 1/(k + rank_i(d)) for each ranking where d appears.
// When a document appears in both lists, the KNN hit's fields are kept.
func fuseRRF(knn, lexical []domain.Hit, topK int) []domain.Hit {
	type scored struct {
		hit   domain.Hit
		score float64
	}

	merged := make(map[string]*scored)

	for rank, h := range knn {
		s := 1.0 / float64(rrfK+rank+1)
		merged[h.Key] = &scored{hit: h, score: s}
	}

	for rank, h := range lexical {
		s := 1.0 / float64(rrfK+rank+1)
		if existing, ok := merged[h.Key]; ok {
			existing.score += s
		} else {
			merged[h.Key] = &scored{hit: h, score: s}
		}
	}

	hits := make([]domain.Hit, 0, len(merged))
	for _, s := range merged {
		h := s.hit
		h.Score = s.score
		hits = append(hits, h)
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Key < hits[j].Key
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}
