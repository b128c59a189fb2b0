package excerpt

import "testing"

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name  string
		words int
		text  string
		want  string
	}{
		{name: "short text unchanged", words: 5, text: "one two three", want: "one two three"},
		{name: "exact length", words: 3, text: "one two three", want: "one two three"},
		{name: "cut with ellipsis", words: 2, text: "one two three", want: "one two…"},
		{name: "whitespace collapsed", words: 10, text: "  one\n\ntwo\tthree ", want: "one two three"},
		{name: "empty", words: 3, text: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.words).Excerpt(tt.text); got != tt.want {
				t.Errorf("Excerpt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewDefault(t *testing.T) {
	if got := New(0).Words; got != DefaultWords {
		t.Errorf("New(0).Words = %d, want %d", got, DefaultWords)
	}
}
