package domain

// Hit is one retrieved catalog entry prepared for context assembly.
// Description is already truncated to the per-item character budget.
type Hit struct {
	Key         string
	Title       string
	Price       float64
	IsFree      bool
	Genres      []string
	Description string
	Score       float64
}

// RetrievalResult is the ranked outcome of one retrieval, consumed
// immediately by the context formatter.
//
// Notice carries a human-readable marker when Hits is empty: either the
// no-context text or a visible retrieval error marker. Retrieval failures
// are encoded here rather than returned as errors, because the pipeline can
// still answer (weakly) without context.
type RetrievalResult struct {
	Hits     []Hit
	MaxScore float64
	Notice   string
}

// Empty reports whether the retrieval produced no usable documents.
func (r RetrievalResult) Empty() bool {
	return len(r.Hits) == 0
}
