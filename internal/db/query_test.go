package db

import (
	"reflect"
	"testing"
)

func TestNumericRange(t *testing.T) {
	got := NumericRange("price_final", 9.7, 9.8)
	want := "@price_final:[9.7 9.8]"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	got = NumericRange("price_final", 0, 0)
	if got != "@price_final:[0 0]" {
		t.Errorf("expected zero band, got %q", got)
	}
}

func TestTagMatch(t *testing.T) {
	got := TagMatch("genres", "Action")
	if got != "@genres:{Action}" {
		t.Errorf("expected plain tag match, got %q", got)
	}

	got = TagMatch("genres", "Free to Play")
	want := `@genres:{Free\ to\ Play}`
	if got != want {
		t.Errorf("expected spaces escaped, got %q", got)
	}
}

func TestOr(t *testing.T) {
	if got := Or("a", "b"); got != "(a | b)" {
		t.Errorf("expected grouped alternatives, got %q", got)
	}
	if got := Or("a"); got != "a" {
		t.Errorf("single part must not be grouped, got %q", got)
	}
	if got := Or("", "b", ""); got != "b" {
		t.Errorf("empty parts must be dropped, got %q", got)
	}
	if got := Or(); got != "" {
		t.Errorf("no parts yields empty query, got %q", got)
	}
}

func TestFuzzyMatch(t *testing.T) {
	got := FuzzyMatch("name", []string{"hollow", "knight"})
	want := "@name:(%hollow%|%knight%)"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if got := FuzzyMatch("name", nil); got != "" {
		t.Errorf("no terms yields empty query, got %q", got)
	}
}

func TestWeightedFuzzy(t *testing.T) {
	boosts := []FieldBoost{
		{Field: "name", Weight: 5},
		{Field: "short_description", Weight: 1},
	}

	got := WeightedFuzzy(boosts, []string{"terror"})
	want := "((@name:(%terror%))=>{$weight:5} | (@short_description:(%terror%))=>{$weight:1})"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if got := WeightedFuzzy(boosts, nil); got != "" {
		t.Errorf("no terms yields empty query, got %q", got)
	}
	if got := WeightedFuzzy(nil, []string{"terror"}); got != "" {
		t.Errorf("no boosts yields empty query, got %q", got)
	}
}

func TestWeightedFuzzy_FractionalWeight(t *testing.T) {
	got := WeightedFuzzy([]FieldBoost{{Field: "detailed_description", Weight: 0.5}}, []string{"rpg"})
	want := "((@detailed_description:(%rpg%))=>{$weight:0.5})"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("¿Cuánto cuesta Hollow Knight?")
	want := []string{"cuánto", "cuesta", "hollow", "knight"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenize_DropsShortFragments(t *testing.T) {
	got := Tokenize("a 9.75 de X")
	want := []string{"75", "de"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenize_EmptyInput(t *testing.T) {
	if got := Tokenize("  ¿?! "); len(got) != 0 {
		t.Errorf("expected no terms, got %v", got)
	}
}
