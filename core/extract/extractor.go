// Package extract implements the Extractor interface.
// It reads the sanitized HTML body produced by the block renderer and
// collects its outline: plain text per block, headings, links and images.
package extract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/postpipe/core"
	"github.com/gaurav-prasanna/postpipe/crawl"
)

// headingLevels maps heading tags to their rank.
var headingLevels = map[string]int{
	"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6,
}

// HTMLExtractor builds an outline from an HTML fragment.
type HTMLExtractor struct {
	// Base is the site's own address; links to other hosts are marked
	// external. Nil marks every absolute link external.
	Base *url.URL
}

// New creates an HTMLExtractor.
func New(base *url.URL) *HTMLExtractor {
	return &HTMLExtractor{Base: base}
}

// Extract parses the fragment and returns its outline. Text keeps one
// paragraph per top-level block and one line per list item.
func (e *HTMLExtractor) Extract(html string) (*core.Outline, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	out := &core.Outline{
		Headings: []core.Heading{},
		Links:    []core.Link{},
		Images:   []core.Image{},
	}

	var paragraphs []string
	doc.Find("body").Children().Each(func(_ int, s *goquery.Selection) {
		if text := blockText(s); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	out.Text = strings.Join(paragraphs, "\n\n")

	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		out.Headings = append(out.Headings, core.Heading{
			Level: headingLevels[goquery.NodeName(s)],
			Text:  strings.TrimSpace(s.Text()),
		})
	})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		out.Links = append(out.Links, core.Link{
			Text:     strings.TrimSpace(s.Text()),
			Href:     href,
			External: crawl.IsExternal(e.Base, href),
		})
	})

	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		alt, _ := s.Attr("alt")
		out.Images = append(out.Images, core.Image{Src: src, Alt: alt})
	})

	return out, nil
}

// blockText returns the text of one top-level block.
func blockText(s *goquery.Selection) string {
	switch goquery.NodeName(s) {
	case "ul", "ol":
		var items []string
		s.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
			if t := strings.TrimSpace(li.Text()); t != "" {
				items = append(items, t)
			}
		})
		return strings.Join(items, "\n")
	case "img":
		alt, _ := s.Attr("alt")
		return strings.TrimSpace(alt)
	default:
		return strings.TrimSpace(s.Text())
	}
}
