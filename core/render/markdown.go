// Package render: Markdown renderer.
// Converts the sanitized body to Markdown and frames it with the article's
// title, byline and tags.
package render

import (
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/postpipe/core"
)

// MarkdownRenderer writes an article as Markdown.
type MarkdownRenderer struct {
	normalizer core.Normalizer
}

// NewMarkdownRenderer creates a MarkdownRenderer using the given normalizer
// for the body.
func NewMarkdownRenderer(n core.Normalizer) *MarkdownRenderer {
	return &MarkdownRenderer{normalizer: n}
}

// Render returns the article as Markdown.
func (r *MarkdownRenderer) Render(page *core.Page) ([]byte, error) {
	body, err := r.normalizer.Normalize(page.Body)
	if err != nil {
		return nil, fmt.Errorf("normalizing body: %w", err)
	}

	var b strings.Builder
	if page.Meta.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", page.Meta.Title)
	}
	if byline := markdownByline(page.Meta); byline != "" {
		fmt.Fprintf(&b, "*%s*\n\n", byline)
	}
	if page.Meta.FeaturedImage != "" {
		fmt.Fprintf(&b, "![%s](%s)\n\n", page.Meta.Title, page.Meta.FeaturedImage)
	}
	if body != "" {
		b.WriteString(body)
		b.WriteString("\n")
	}
	if len(page.Meta.Tags) > 0 {
		tags := make([]string, len(page.Meta.Tags))
		for i, t := range page.Meta.Tags {
			tags[i] = "#" + t
		}
		fmt.Fprintf(&b, "\n%s\n", strings.Join(tags, " "))
	}
	return []byte(b.String()), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

func markdownByline(m core.ArticleMeta) string {
	var parts []string
	if m.Author != "" {
		parts = append(parts, "By "+m.Author)
	}
	if m.PublishedAt != "" {
		parts = append(parts, FormatDate(m.PublishedAt))
	}
	if m.Category != "" {
		parts = append(parts, m.Category)
	}
	return strings.Join(parts, " | ")
}
