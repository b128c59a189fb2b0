// Package crawl provides article discovery for --all mode.
// It pages through the CMS article listing and collects every slug once,
// keeping discovery separate from the per-article render pipeline.
package crawl

import (
	"context"
	"fmt"

	"github.com/gaurav-prasanna/postpipe/core"
)

// maxPages bounds the listing walk so a misreported pageCount cannot loop forever.
const maxPages = 1000

// DiscoverAll walks the article listing page by page until the reported page
// count is reached and returns each article's metadata once, in listing order.
func DiscoverAll(ctx context.Context, lister core.Lister, pageSize int) ([]core.ArticleMeta, error) {
	if pageSize <= 0 {
		pageSize = 25
	}

	queue := NewQueue()
	bySlug := make(map[string]core.ArticleMeta)

	for page := 1; page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := lister.ListArticles(ctx, page, pageSize)
		if err != nil {
			return nil, fmt.Errorf("listing page %d: %w", page, err)
		}

		for _, m := range result.Articles {
			if queue.Add(m.Slug) {
				m.Slug = NormalizeSlug(m.Slug)
				bySlug[m.Slug] = m
			}
		}

		if len(result.Articles) == 0 || page >= result.PageCount {
			break
		}
	}

	metas := make([]core.ArticleMeta, 0, queue.Len())
	for queue.HasNext() {
		metas = append(metas, bySlug[queue.Next()])
	}
	return metas, nil
}
