package retrieval

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/askgames/internal/domain"
)

// truncationMarker closes a context block that hit the word ceiling.
const truncationMarker = "..."

// Formatter renders a retrieval result into the bounded context block passed
// to generation.
type Formatter struct {
	maxWords int
}

// NewFormatter creates a context formatter with a global word ceiling.
func NewFormatter(maxWords int) *Formatter {
	return &Formatter{maxWords: maxWords}
}

// Format joins per-document summaries in the executor's score order. An empty
// result yields its notice text, never an empty string. Output above the word
// ceiling is cut at a word boundary and closed with the truncation marker.
func (f *Formatter) Format(result domain.RetrievalResult) string {
	if result.Empty() {
		if result.Notice != "" {
			return result.Notice
		}
		return NoContextNotice
	}

	blocks := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		blocks = append(blocks, formatHit(hit))
	}

	return f.truncateWords(strings.Join(blocks, "\n\n"))
}

func formatHit(hit domain.Hit) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🎮 Título: %s\n", hit.Title)
	if hit.IsFree || hit.Price == 0 {
		b.WriteString("💰 Precio: GRATIS\n")
	} else {
		fmt.Fprintf(&b, "💰 Precio: %.2f€\n", hit.Price)
	}
	if len(hit.Genres) > 0 {
		fmt.Fprintf(&b, "🎭 Géneros: %s\n", strings.Join(hit.Genres, ", "))
	}
	fmt.Fprintf(&b, "📝 Descripción: %s", hit.Description)

	return b.String()
}

// truncateWords enforces the global word ceiling at a word boundary.
func (f *Formatter) truncateWords(text string) string {
	if f.maxWords <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) <= f.maxWords {
		return text
	}
	return strings.Join(words[:f.maxWords], " ") + truncationMarker
}
