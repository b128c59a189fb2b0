package sanitize

import (
	"strings"
	"testing"
)

func TestText(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        string
		notContains []string
	}{
		{name: "plain text", input: "Hello, World!", want: "Hello, World!"},
		{name: "empty", input: "", want: ""},
		{name: "ampersand survives as text", input: "Tom & Jerry", want: "Tom & Jerry"},
		{name: "quotes survive as text", input: `say "hi" it's`, want: `say "hi" it's`},
		{name: "script removed with body", input: "<script>alert(1)</script>safe", want: "safe"},
		{
			name:        "event handler image removed",
			input:       "<img src=x onerror=alert(1)>",
			want:        "",
			notContains: []string{"<img", "onerror"},
		},
		{name: "formatting tags stripped", input: "<b>bold</b> and <i>slanted</i>", want: "bold and slanted"},
		{
			name:        "anchor with javascript stripped",
			input:       `<a href="javascript:alert(1)">x</a>`,
			want:        "x",
			notContains: []string{"javascript"},
		},
		{name: "style body removed", input: "<style>body{}</style>ok", want: "ok"},
		{name: "spaced less-than kept", input: "5 < 10 and x<y", want: "5 < 10 and x"},
		{name: "less-than before letter opens a tag", input: "if a<b then c", want: "if a"},
		{name: "entity-encoded markup kept as text", input: "&lt;script&gt;", want: "<script>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Text(tt.input)
			if got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.input, got, tt.want)
			}
			for _, bad := range tt.notContains {
				if strings.Contains(got, bad) {
					t.Errorf("Text(%q) = %q, must not contain %q", tt.input, got, bad)
				}
			}
		})
	}
}

func TestSanitizerIsShared(t *testing.T) {
	if Default() != Default() {
		t.Error("Default() returned different sanitizers")
	}
	if got := New().Text("<p>x</p>"); got != "x" {
		t.Errorf("New().Text() = %q, want x", got)
	}
}

func TestURL(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{input: "https://example.com", want: "https://example.com", wantOK: true},
		{input: "  http://example.com/a?b=c  ", want: "http://example.com/a?b=c", wantOK: true},
		{input: "/blog-post/slug", want: "/blog-post/slug", wantOK: true},
		{input: "mailto:cs@example.com", want: "mailto:cs@example.com", wantOK: true},
		{input: "javascript:alert(1)", wantOK: false},
		{input: "JavaScript:alert(1)", wantOK: false},
		{input: "vbscript:msgbox", wantOK: false},
		{input: "data:text/html,<script>alert(1)</script>", wantOK: false},
		{input: "java\tscript:alert(1)", wantOK: false},
		{input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := URL(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("URL(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("URL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
