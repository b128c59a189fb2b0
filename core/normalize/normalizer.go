// Package normalize implements the Normalizer interface.
// It converts the sanitized HTML body into Markdown. Span styles written by
// the block renderer are turned into <strong>/<em> first so that emphasis
// survives the conversion.
package normalize

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"
)

// MarkdownNormalizer converts HTML to Markdown using html-to-markdown.
type MarkdownNormalizer struct {
	// Domain resolves relative link and image URLs when set.
	Domain string
	conv   *converter.Converter
}

// New creates a MarkdownNormalizer. domain may be empty.
func New(domain string) *MarkdownNormalizer {
	return &MarkdownNormalizer{
		Domain: domain,
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}
}

// Normalize converts an HTML fragment into Markdown.
func (n *MarkdownNormalizer) Normalize(html string) (string, error) {
	emphasized, err := emphasizeSpans(html)
	if err != nil {
		return "", err
	}

	var opts []converter.ConvertOptionFunc
	if n.Domain != "" {
		opts = append(opts, converter.WithDomain(n.Domain))
	}
	markdown, err := n.conv.ConvertString(emphasized, opts...)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}

// emphasizeSpans wraps the content of styled spans in <strong> and <em>.
func emphasizeSpans(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	doc.Find("span[style]").Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		if strings.Contains(style, "font-style: italic") {
			s.WrapInnerHtml("<em></em>")
		}
		if strings.Contains(style, "font-weight: bold") {
			s.WrapInnerHtml("<strong></strong>")
		}
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("serializing HTML: %w", err)
	}
	return out, nil
}
