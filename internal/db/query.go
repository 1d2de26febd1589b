package db

import (
	"fmt"
	"strings"
	"unicode"
)

// FieldBoost weights one TEXT field inside a weighted lexical query.
type FieldBoost struct {
	Field  string
	Weight float64
}

// NumericRange builds an inclusive numeric range filter: @field:[lo hi].
func NumericRange(field string, lo, hi float64) string {
	return fmt.Sprintf("@%s:[%g %g]", field, lo, hi)
}

// TagMatch builds an exact tag filter: @field:{value}.
func TagMatch(field, value string) string {
	return fmt.Sprintf("@%s:{%s}", field, tagEscaper.Replace(value))
}

// Or joins query parts into a should-group: (a | b | c).
func Or(parts ...string) string {
	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	if len(nonEmpty) == 0 {
		return ""
	}
	if len(nonEmpty) == 1 {
		return nonEmpty[0]
	}
	return "(" + strings.Join(nonEmpty, " | ") + ")"
}

// FuzzyMatch builds a fuzzy any-term match over one field:
// @field:(%t1%|%t2%). Terms are escaped; an empty term list yields "".
func FuzzyMatch(field string, terms []string) string {
	if len(terms) == 0 {
		return ""
	}
	fuzzed := make([]string, 0, len(terms))
	for _, t := range terms {
		escaped := queryEscaper.Replace(t)
		if escaped == "" {
			continue
		}
		fuzzed = append(fuzzed, "%"+escaped+"%")
	}
	if len(fuzzed) == 0 {
		return ""
	}
	return fmt.Sprintf("@%s:(%s)", field, strings.Join(fuzzed, "|"))
}

// WeightedFuzzy builds a dialect-2 weighted should-group over several TEXT
// fields: (@a:(...))=>{$weight:5} | (@b:(...))=>{$weight:1} | ...
// Field order is preserved, so relative boosts stay deterministic.
func WeightedFuzzy(boosts []FieldBoost, terms []string) string {
	parts := make([]string, 0, len(boosts))
	for _, b := range boosts {
		m := FuzzyMatch(b.Field, terms)
		if m == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("(%s)=>{$weight:%g}", m, b.Weight))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

// Tokenize splits free text into lowercase search terms, dropping
// punctuation and one-letter fragments.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		terms = append(terms, strings.ToLower(f))
	}
	return terms
}

// --- Escaping ---

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	" ", "\\ ",
)

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
)
