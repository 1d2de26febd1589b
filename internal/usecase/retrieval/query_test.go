package retrieval

import (
	"math"
	"testing"

	"github.com/kailas-cloud/askgames/internal/domain"
)

var testCues = []string{"cuesta", "precio", "euros", "vale", "barato"}

func TestBuild_PriceCueWithNumber(t *testing.T) {
	p := NewPlanner(testCues, 0.05, 5)

	q := p.Build("¿Qué juego cuesta 9.75 euros?")

	if q.Strategy != domain.StrategyPriceFilter {
		t.Fatalf("expected price_filter strategy, got %s", q.Strategy)
	}
	if q.TargetPrice != 9.75 {
		t.Errorf("expected target price 9.75, got %v", q.TargetPrice)
	}
	if q.PriceTolerance != 0.05 {
		t.Errorf("expected tolerance 0.05, got %v", q.PriceTolerance)
	}
}

func TestBuild_CommaDecimalSeparator(t *testing.T) {
	p := NewPlanner(testCues, 0.05, 5)

	dot := p.Build("Busco algo que cueste 9.75 euros")
	comma := p.Build("Busco algo que cueste 9,75 euros")

	if dot.Strategy != domain.StrategyPriceFilter || comma.Strategy != domain.StrategyPriceFilter {
		t.Fatalf("expected price_filter for both separators, got %s / %s", dot.Strategy, comma.Strategy)
	}
	if dot.TargetPrice != comma.TargetPrice {
		t.Errorf("separators must parse identically: %v vs %v", dot.TargetPrice, comma.TargetPrice)
	}
}

func TestBuild_NoCueIsHybrid(t *testing.T) {
	p := NewPlanner(testCues, 0.05, 5)

	q := p.Build("Busco juegos de terror con buena historia")

	if q.Strategy != domain.StrategyHybrid {
		t.Errorf("expected hybrid strategy, got %s", q.Strategy)
	}
	if q.TargetPrice != 0 {
		t.Errorf("hybrid query must not carry a target price, got %v", q.TargetPrice)
	}
}

func TestBuild_CueWithoutNumberIsHybrid(t *testing.T) {
	p := NewPlanner(testCues, 0.05, 5)

	q := p.Build("¿Cuánto cuesta ese juego tan famoso?")

	if q.Strategy != domain.StrategyHybrid {
		t.Errorf("expected hybrid when no number present, got %s", q.Strategy)
	}
}

func TestBuild_CueMatchIsCaseInsensitive(t *testing.T) {
	p := NewPlanner(testCues, 0.05, 5)

	q := p.Build("PRECIO de 20 euros como mucho")

	if q.Strategy != domain.StrategyPriceFilter {
		t.Errorf("expected price_filter for uppercase cue, got %s", q.Strategy)
	}
	if q.TargetPrice != 20 {
		t.Errorf("expected target price 20, got %v", q.TargetPrice)
	}
}

func TestBuild_FirstNumberWins(t *testing.T) {
	p := NewPlanner(testCues, 0.05, 5)

	q := p.Build("cuesta 5 o quizá 10 euros")

	if q.TargetPrice != 5 {
		t.Errorf("expected first numeric token 5, got %v", q.TargetPrice)
	}
}

func TestBuild_CandidatePoolInflated(t *testing.T) {
	p := NewPlanner(testCues, 0.05, 5)

	q := p.Build("juegos de plataformas")

	if q.Candidates != 55 {
		t.Errorf("expected candidate pool topK+50=55, got %d", q.Candidates)
	}
	if q.TopK != 5 {
		t.Errorf("expected topK 5, got %d", q.TopK)
	}
}

func TestPriceBounds(t *testing.T) {
	p := NewPlanner(testCues, 0.05, 5)

	q := p.Build("cuesta 9.75")
	lo, hi := q.PriceBounds()

	if math.Abs(lo-9.70) > 1e-9 || math.Abs(hi-9.80) > 1e-9 {
		t.Errorf("expected band [9.70, 9.80], got [%v, %v]", lo, hi)
	}
}
