// Package excerpt builds the short teaser shown on article cards.
// Uses a simple whitespace tokenizer (words ≈ tokens).
package excerpt

import "strings"

// DefaultWords is the excerpt length used when none is configured.
const DefaultWords = 30

const ellipsis = "…"

// Excerpter cuts text down to a fixed number of words.
type Excerpter struct {
	Words int // number of words kept
}

// New creates an Excerpter with the given length.
// Defaults to DefaultWords if words <= 0.
func New(words int) *Excerpter {
	if words <= 0 {
		words = DefaultWords
	}
	return &Excerpter{Words: words}
}

// Excerpt returns the first Words words of text joined by single spaces,
// with an ellipsis appended when text was cut.
func (e *Excerpter) Excerpt(text string) string {
	words := strings.Fields(text)
	if len(words) <= e.Words {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:e.Words], " ") + ellipsis
}
