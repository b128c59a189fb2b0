// Package core defines the pipeline interfaces and shared types for PostPipe.
// Each stage of the pipeline is a small, testable interface.
package core

import (
	"context"

	"github.com/gaurav-prasanna/postpipe/core/blocks"
)

// ArticleMeta holds the descriptive fields of an article as served by the CMS.
type ArticleMeta struct {
	ID            int      `json:"id"`
	Slug          string   `json:"slug"`
	Title         string   `json:"title"`
	Category      string   `json:"category,omitempty"`
	Author        string   `json:"author,omitempty"`
	PublishedAt   string   `json:"published_at,omitempty"` // YYYY-MM-DD as served
	PhotoSource   string   `json:"photo_source,omitempty"`
	FeaturedImage string   `json:"featured_image,omitempty"` // absolute URL
	Thumbnail     string   `json:"thumbnail,omitempty"`      // absolute URL
	Tags          []string `json:"tags,omitempty"`
	SourceURL     string   `json:"source_url,omitempty"`
	FetchedAt     string   `json:"fetched_at,omitempty"` // ISO8601
}

// Article is one fetched article: metadata plus its rich-text body.
type Article struct {
	Meta ArticleMeta
	Body blocks.Document
}

// ArticlePage is one page of the CMS article listing.
type ArticlePage struct {
	Articles  []ArticleMeta
	Page      int
	PageSize  int
	PageCount int
	Total     int
}

// SocialLink is a social-media profile shown in the article footer.
type SocialLink struct {
	Network string `json:"network"` // e.g. "instagram"
	Link    string `json:"link"`    // host and path, without scheme
}

// Page is an article ready for an output renderer: its metadata, the decoded
// document, and the sanitized HTML produced by the block renderer.
type Page struct {
	Meta     ArticleMeta
	Document blocks.Document
	Body     string   // sanitized HTML fragment, one element per rendered block
	Warnings []string // non-fatal render warnings
	Social   []SocialLink
	Related  []ArticleMeta // "read also" sidebar, never the page's own article
}

// Heading represents a single heading found in the rendered body.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Link represents a hyperlink found in the rendered body.
type Link struct {
	Text     string `json:"text"`
	Href     string `json:"href"`
	External bool   `json:"external"`
}

// Image represents an image reference found in the rendered body.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// Outline is the structural summary of a rendered body.
type Outline struct {
	Text     string    `json:"text"`
	Headings []Heading `json:"headings"`
	Links    []Link    `json:"links"`
	Images   []Image   `json:"images"`
}

// PageContent holds the text and markup of an article.
type PageContent struct {
	Text    string `json:"text"`
	Excerpt string `json:"excerpt"`
	HTML    string `json:"html"`
}

// PageStructure holds structural metadata derived from the body.
type PageStructure struct {
	Headings []Heading      `json:"headings"`
	Links    []Link         `json:"links"`
	Images   []Image        `json:"images"`
	Blocks   map[string]int `json:"blocks"`
	Warnings []string       `json:"warnings"`
}

// PageJSON is the complete JSON output for a single article.
type PageJSON struct {
	Metadata  ArticleMeta   `json:"metadata"`
	Content   PageContent   `json:"content"`
	Structure PageStructure `json:"structure"`
}

// Fetcher retrieves a single article by slug.
type Fetcher interface {
	FetchArticle(ctx context.Context, slug string) (*Article, error)
}

// Lister pages through the article listing.
type Lister interface {
	ListArticles(ctx context.Context, page, pageSize int) (*ArticlePage, error)
}

// RecentLister retrieves the newest articles.
type RecentLister interface {
	ListRecent(ctx context.Context, limit int) ([]ArticleMeta, error)
}

// SocialFetcher retrieves the social-media footer links.
type SocialFetcher interface {
	FetchSocialLinks(ctx context.Context) ([]SocialLink, error)
}

// Extractor builds an outline from a sanitized HTML body.
type Extractor interface {
	Extract(html string) (*Outline, error)
}

// Normalizer converts a sanitized HTML body into Markdown.
type Normalizer interface {
	Normalize(html string) (string, error)
}

// Renderer converts a Page into a final output format.
type Renderer interface {
	Render(page *Page) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}
