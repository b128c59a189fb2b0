// Package output handles file naming and writing for PostPipe outputs.
// A single article is written as <slug><ext>; a full export mirrors the site
// layout under blog-post/ and adds an index.md listing every article.
package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/gaurav-prasanna/postpipe/core"
	"github.com/gaurav-prasanna/postpipe/crawl"
)

const (
	// PostDir is the subdirectory used by WriteAll, matching the site's
	// /blog-post/<slug> routes.
	PostDir = "blog-post"

	// IndexFile is the listing written by WriteIndex.
	IndexFile = "index.md"
)

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// WriteOne writes a single article as <dir>/<slug><ext>.
func (w *Writer) WriteOne(slug string, data []byte, ext string) (string, error) {
	return w.write(filepath.Join(w.OutputDir, FileName(slug)+ext), data)
}

// WriteAll writes one article of a full export as <dir>/blog-post/<slug><ext>.
func (w *Writer) WriteAll(slug string, data []byte, ext string) (string, error) {
	return w.write(filepath.Join(w.OutputDir, PostDir, FileName(slug)+ext), data)
}

// WriteIndex writes index.md: a table of the exported articles linking to
// their files under blog-post/.
func (w *Writer) WriteIndex(articles []core.ArticleMeta, ext string) (string, error) {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	md.H1("Articles")
	md.PlainText("")
	md.PlainTextf("%d articles exported.", len(articles))
	md.PlainText("")

	rows := make([][]string, 0, len(articles))
	for _, a := range articles {
		title := a.Title
		if title == "" {
			title = a.Slug
		}
		link := PostDir + "/" + FileName(a.Slug) + ext
		rows = append(rows, []string{
			"[" + escapeCell(title) + "](" + link + ")",
			escapeCell(a.Category),
			escapeCell(a.Author),
			a.PublishedAt,
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Title", "Category", "Author", "Date"},
		Rows:   rows,
	})

	if err := md.Build(); err != nil {
		return "", fmt.Errorf("building index: %w", err)
	}
	return w.write(filepath.Join(w.OutputDir, IndexFile), buf.Bytes())
}

func (w *Writer) write(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // output files are meant to be readable
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// FileName converts a slug into a safe flat file name.
// Example: "/blog-post/Tips Home/" → "tips_home"
func FileName(slug string) string {
	name := sanitize(crawl.NormalizeSlug(slug))
	if name == "" {
		return "index"
	}
	return name
}

// sanitize replaces everything except letters, digits, '-' and '_' with
// underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '-', ch == '_':
			b.WriteRune(ch)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
