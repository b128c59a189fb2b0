// Package fetch implements the Fetcher, Lister and SocialFetcher interfaces
// against a Strapi-style CMS REST API.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gaurav-prasanna/postpipe/core"
	"github.com/gaurav-prasanna/postpipe/core/blocks"
	"github.com/gaurav-prasanna/postpipe/crawl"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "PostPipe/1.0 (https://github.com/gaurav-prasanna/postpipe)"
	defaultMaxBody   = 10 * 1024 * 1024

	articlesPath = "/api/artikels"
	socialPath   = "/api/social-media-footers"
)

// ErrNotFound is returned when no article matches a slug.
var ErrNotFound = errors.New("article not found")

// CMSClient talks to the CMS REST API.
type CMSClient struct {
	base    *url.URL
	client  *http.Client
	logger  *slog.Logger
	maxBody int64
}

// New creates a CMSClient for the CMS at apiURL (scheme and host, optionally
// a path prefix). A zero timeout uses the default.
func New(apiURL string, timeout time.Duration, logger *slog.Logger) (*CMSClient, error) {
	base, err := url.Parse(apiURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid API URL: %q (must include scheme, e.g. https://cms.example.com)", apiURL)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CMSClient{
		base:    base,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		maxBody: defaultMaxBody,
	}, nil
}

// Base returns the CMS base address used to resolve relative media URLs.
func (c *CMSClient) Base() *url.URL {
	u := *c.base
	return &u
}

// FetchArticle retrieves one article with its body by slug.
func (c *CMSClient) FetchArticle(ctx context.Context, slug string) (*core.Article, error) {
	q := url.Values{}
	q.Set("filters[ArtikelSlug][$eq]", slug)
	q.Set("populate", "*")

	var resp listResponse
	endpoint, err := c.get(ctx, articlesPath, q, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}

	a := resp.Data[0]
	body, err := blocks.DecodeRaw(a.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding body of %s: %w", slug, err)
	}

	meta := c.meta(a)
	meta.SourceURL = endpoint
	meta.FetchedAt = time.Now().UTC().Format(time.RFC3339)

	c.logger.Debug("fetched article", "slug", slug, "blocks", len(body))
	return &core.Article{Meta: meta, Body: body}, nil
}

// ListArticles retrieves one page of the article listing.
func (c *CMSClient) ListArticles(ctx context.Context, page, pageSize int) (*core.ArticlePage, error) {
	q := url.Values{}
	q.Set("populate", "*")
	q.Set("pagination[page]", strconv.Itoa(page))
	q.Set("pagination[pageSize]", strconv.Itoa(pageSize))

	var resp listResponse
	if _, err := c.get(ctx, articlesPath, q, &resp); err != nil {
		return nil, err
	}

	out := &core.ArticlePage{
		Articles:  make([]core.ArticleMeta, 0, len(resp.Data)),
		Page:      resp.Meta.Pagination.Page,
		PageSize:  resp.Meta.Pagination.PageSize,
		PageCount: resp.Meta.Pagination.PageCount,
		Total:     resp.Meta.Pagination.Total,
	}
	for _, a := range resp.Data {
		out.Articles = append(out.Articles, c.meta(a))
	}
	return out, nil
}

// ListRecent retrieves the newest articles, most recent first.
func (c *CMSClient) ListRecent(ctx context.Context, limit int) ([]core.ArticleMeta, error) {
	q := url.Values{}
	q.Set("populate", "*")
	q.Set("sort", "TglArtikel:desc")
	q.Set("pagination[limit]", strconv.Itoa(limit))

	var resp listResponse
	if _, err := c.get(ctx, articlesPath, q, &resp); err != nil {
		return nil, err
	}
	out := make([]core.ArticleMeta, 0, len(resp.Data))
	for _, a := range resp.Data {
		out = append(out, c.meta(a))
	}
	return out, nil
}

// FetchSocialLinks retrieves the social-media footer links.
func (c *CMSClient) FetchSocialLinks(ctx context.Context) ([]core.SocialLink, error) {
	var resp socialResponse
	if _, err := c.get(ctx, socialPath, nil, &resp); err != nil {
		return nil, err
	}
	links := make([]core.SocialLink, 0, len(resp.Data))
	for _, s := range resp.Data {
		if s.Network == "" || s.Link == "" {
			continue
		}
		links = append(links, core.SocialLink{Network: s.Network, Link: s.Link})
	}
	return links, nil
}

// get performs a GET against path and decodes the JSON response into out.
// It returns the full request URL.
func (c *CMSClient) get(ctx context.Context, path string, q url.Values, out any) (string, error) {
	endpoint := crawl.ResolveURL(c.base, path)
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, endpoint)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, c.maxBody)).Decode(out); err != nil {
		return "", fmt.Errorf("decoding response from %s: %w", endpoint, err)
	}
	return endpoint, nil
}

func (c *CMSClient) meta(a articleWire) core.ArticleMeta {
	m := core.ArticleMeta{
		ID:          a.ID,
		Slug:        a.Slug,
		Title:       a.Title,
		PublishedAt: a.Date,
		PhotoSource: a.PhotoSource,
	}
	if a.Category != nil {
		m.Category = a.Category.Name
	}
	if a.Author != nil {
		m.Author = a.Author.Name
	}
	for _, t := range a.Tags {
		if t.Name != "" {
			m.Tags = append(m.Tags, t.Name)
		}
	}
	if a.FeaturedImage != nil {
		m.FeaturedImage = crawl.ResolveURL(c.base, a.FeaturedImage.pick("large"))
		m.Thumbnail = crawl.ResolveURL(c.base, a.FeaturedImage.pick("small"))
	}
	return m
}

// Wire types for the CMS responses.

type listResponse struct {
	Data []articleWire `json:"data"`
	Meta struct {
		Pagination struct {
			Page      int `json:"page"`
			PageSize  int `json:"pageSize"`
			PageCount int `json:"pageCount"`
			Total     int `json:"total"`
		} `json:"pagination"`
	} `json:"meta"`
}

type articleWire struct {
	ID            int        `json:"id"`
	Title         string     `json:"TitleArtikel"`
	Slug          string     `json:"ArtikelSlug"`
	Date          string     `json:"TglArtikel"`
	PhotoSource   string     `json:"SumberFoto"`
	FeaturedImage *mediaWire `json:"FeaturedImage"`
	Category      *struct {
		Name string `json:"NamaKategori"`
	} `json:"kategori_artikel"`
	Author *struct {
		Name string `json:"NamaPenulis"`
	} `json:"penulis_artikel"`
	Tags []struct {
		Name string `json:"NamaTag"`
	} `json:"tag_artikels"`
	Body json.RawMessage `json:"DetailArtikel"`
}

type mediaWire struct {
	URL     string `json:"url"`
	Formats map[string]struct {
		URL string `json:"url"`
	} `json:"formats"`
}

// pick returns the URL of the named format, falling back to the original.
func (m *mediaWire) pick(format string) string {
	if f, ok := m.Formats[format]; ok && f.URL != "" {
		return f.URL
	}
	return m.URL
}

type socialResponse struct {
	Data []struct {
		Network string `json:"SocialMedia"`
		Link    string `json:"SocialMediaLink"`
	} `json:"data"`
}
