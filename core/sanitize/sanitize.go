// Package sanitize is the single boundary every piece of CMS-supplied text
// passes through before it is placed into rendered markup.
//
// Text strips all markup with a bluemonday strict policy and returns plain
// text. Callers must insert the result as a text node (never as raw HTML), so
// the serializer escapes it once more on output.
package sanitize

import (
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer neutralizes markup in untrusted text. It is safe for concurrent use.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// New creates a Sanitizer backed by a strict policy: every element and
// attribute is removed, and the contents of script and style elements are
// dropped along with them.
func New() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

var defaultSanitizer = New()

// Default returns the shared Sanitizer.
func Default() *Sanitizer {
	return defaultSanitizer
}

// Text returns s with all markup removed, as plain (unescaped) text.
func (s *Sanitizer) Text(in string) string {
	if in == "" {
		return ""
	}
	// bluemonday returns HTML-escaped text; decode it back so the result can
	// be handed to a text node without double escaping.
	return html.UnescapeString(s.policy.Sanitize(in))
}

// Text sanitizes with the default Sanitizer.
func Text(in string) string {
	return defaultSanitizer.Text(in)
}

// safeSchemes are the link schemes allowed as anchor targets. An empty
// scheme is a relative reference.
var safeSchemes = map[string]bool{
	"":       true,
	"http":   true,
	"https":  true,
	"mailto": true,
	"tel":    true,
}

// URL reports whether raw is safe to use as a navigation target and returns
// it trimmed. Scripting schemes (javascript:, vbscript:, data:) and URLs that
// do not parse are rejected.
func URL(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", false
	}
	if !safeSchemes[strings.ToLower(u.Scheme)] {
		return "", false
	}
	return trimmed, true
}
