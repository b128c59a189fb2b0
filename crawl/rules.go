// Package crawl: URL and slug rules.
// Provides helpers to resolve CMS asset URLs and normalize article slugs.
package crawl

import (
	"net/url"
	"strings"
)

// ResolveURL makes ref absolute against the CMS base address.
// Absolute refs are returned unchanged. Root-relative refs are appended to
// the base, keeping any base path (e.g. "https://cms.test/api" + "/uploads/a.png").
// Protocol-relative refs ("//cdn.test/a.png") take the base scheme.
func ResolveURL(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if base == nil || ref == "" {
		return ref
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if parsed.IsAbs() {
		return ref
	}
	if parsed.Host != "" {
		return base.ResolveReference(parsed).String()
	}
	return strings.TrimSuffix(base.String(), "/") + "/" + strings.TrimPrefix(ref, "/")
}

// IsExternal reports whether rawURL points to a different host than base.
// Relative URLs are internal.
func IsExternal(base *url.URL, rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if parsed.Host == "" {
		return false
	}
	if base == nil {
		return true
	}
	return !strings.EqualFold(parsed.Host, base.Host)
}

// NormalizeSlug trims whitespace and slashes and lowercases a slug so that
// listings and command-line arguments dedupe to the same key.
func NormalizeSlug(slug string) string {
	slug = strings.TrimSpace(slug)
	slug = strings.TrimPrefix(slug, "/blog-post/")
	slug = strings.Trim(slug, "/")
	return strings.ToLower(slug)
}
