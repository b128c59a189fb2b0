// Package render: JSON renderer.
// Builds the structured JSON output from the sanitized body and article
// metadata. The outline comes from the extractor; block counts come from the
// decoded document.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/postpipe/core"
	"github.com/gaurav-prasanna/postpipe/core/excerpt"
)

// JSONRenderer produces structured JSON output.
type JSONRenderer struct {
	extractor core.Extractor
	excerpter *excerpt.Excerpter
}

// NewJSONRenderer creates a JSONRenderer. A nil excerpter uses the default
// length.
func NewJSONRenderer(x core.Extractor, e *excerpt.Excerpter) *JSONRenderer {
	if e == nil {
		e = excerpt.New(0)
	}
	return &JSONRenderer{extractor: x, excerpter: e}
}

// Render converts a page into the JSON structure.
func (r *JSONRenderer) Render(page *core.Page) ([]byte, error) {
	outline, err := r.extractor.Extract(page.Body)
	if err != nil {
		return nil, fmt.Errorf("extracting outline: %w", err)
	}

	warnings := page.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	out := core.PageJSON{
		Metadata: page.Meta,
		Content: core.PageContent{
			Text:    outline.Text,
			Excerpt: r.excerpter.Excerpt(outline.Text),
			HTML:    page.Body,
		},
		Structure: core.PageStructure{
			Headings: outline.Headings,
			Links:    outline.Links,
			Images:   outline.Images,
			Blocks:   page.Document.Counts(),
			Warnings: warnings,
		},
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
