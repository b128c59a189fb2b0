// Package render: block renderer.
// Maps each block of a document to an HTML element tree. Every piece of span
// text goes through the sanitize boundary and is inserted only as a text node.
// Blocks that cannot be rendered contribute an empty node and a warning; they
// never fail the document.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/postpipe/core/blocks"
	"github.com/gaurav-prasanna/postpipe/core/sanitize"
	"github.com/gaurav-prasanna/postpipe/crawl"
)

// Fixed presentation for quotes, images and span styles.
const (
	quoteStyle  = "margin: 1em 0; padding: 0.5em 1em; border-left: 3px solid #ccc; color: #555"
	imageStyle  = "max-width: 100%; height: auto"
	boldStyle   = "font-weight: bold"
	italicStyle = "font-style: italic"

	linkTarget = "_blank"
	linkRel    = "noopener noreferrer"
)

var (
	ErrUnknownType  = errors.New("unknown block type")
	ErrMalformed    = errors.New("malformed block")
	ErrHeadingLevel = errors.New("heading level out of range")
	ErrNestedList   = errors.New("nested lists are not supported")
	ErrUnsafeURL    = errors.New("unsafe link target")
)

var headingAtoms = [...]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

// Warning is a non-fatal problem found while rendering one block.
type Warning struct {
	Path string // block position, e.g. "[3]"
	Type string // block type discriminator
	Err  error
}

func (w *Warning) Error() string {
	return fmt.Sprintf("%s (%s): %v", w.Path, w.Type, w.Err)
}

func (w *Warning) Unwrap() error { return w.Err }

// Rendered is the output for one block. A nil Node is the empty contribution
// of a block that could not be rendered; it still occupies its position.
type Rendered struct {
	Index    int
	Type     string
	Node     *html.Node
	Warnings []*Warning
}

// Empty reports whether the block rendered to nothing.
func (r Rendered) Empty() bool { return r.Node == nil }

// Options configures a BlockRenderer.
type Options struct {
	// BaseURL resolves relative image URLs. Nil leaves them unchanged.
	BaseURL   *url.URL
	Sanitizer *sanitize.Sanitizer
	Logger    *slog.Logger
}

// BlockRenderer maps blocks to element trees. It holds no mutable state and
// is safe for concurrent use.
type BlockRenderer struct {
	base      *url.URL
	sanitizer *sanitize.Sanitizer
	logger    *slog.Logger
}

// NewBlockRenderer creates a BlockRenderer, filling unset options with the
// default sanitizer and logger.
func NewBlockRenderer(opts Options) *BlockRenderer {
	if opts.Sanitizer == nil {
		opts.Sanitizer = sanitize.Default()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &BlockRenderer{
		base:      opts.BaseURL,
		sanitizer: opts.Sanitizer,
		logger:    opts.Logger,
	}
}

// RenderDocument renders every block in document order.
func (r *BlockRenderer) RenderDocument(doc blocks.Document) []Rendered {
	out := make([]Rendered, len(doc))
	for i, b := range doc {
		out[i] = r.RenderBlock(i, b)
	}
	return out
}

// RenderDocumentParallel renders blocks concurrently with at most workers
// goroutines (unbounded when workers <= 0). The result is identical to
// RenderDocument; an error is returned only if ctx is cancelled.
func (r *BlockRenderer) RenderDocumentParallel(ctx context.Context, doc blocks.Document, workers int) ([]Rendered, error) {
	out := make([]Rendered, len(doc))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, b := range doc {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = r.RenderBlock(i, b)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// RenderBlock renders a single block. It never panics and never fails:
// unknown and malformed blocks render empty and are logged.
func (r *BlockRenderer) RenderBlock(index int, b blocks.Block) Rendered {
	res := Rendered{Index: index}
	if b == nil {
		res.Warnings = append(res.Warnings, r.warn(index, "", ErrUnknownType))
		return res
	}
	res.Type = b.BlockType()

	switch v := b.(type) {
	case blocks.Paragraph:
		res.Node = r.container(atom.P, v.Children)

	case blocks.Heading:
		level := v.Level
		switch {
		case level < 1:
			level = 1
		case level > 6:
			level = 6
		}
		if level != v.Level {
			res.Warnings = append(res.Warnings, r.warn(index, res.Type,
				fmt.Errorf("%w: %d clamped to %d", ErrHeadingLevel, v.Level, level)))
		}
		res.Node = r.container(headingAtoms[level-1], v.Children)

	case blocks.List:
		tag := atom.Ul
		if v.Ordered {
			tag = atom.Ol
		}
		list := element(tag)
		for _, item := range v.Items {
			list.AppendChild(r.container(atom.Li, item))
		}
		if v.DroppedNested > 0 {
			res.Warnings = append(res.Warnings, r.warn(index, res.Type,
				fmt.Errorf("%w: %d dropped", ErrNestedList, v.DroppedNested)))
		}
		res.Node = list

	case blocks.Quote:
		res.Node = r.container(atom.Blockquote, v.Children)
		setAttr(res.Node, "style", quoteStyle)

	case blocks.Image:
		img := element(atom.Img)
		setAttr(img, "src", crawl.ResolveURL(r.base, v.URL))
		setAttr(img, "alt", v.AltText)
		setAttr(img, "style", imageStyle)
		res.Node = img

	case blocks.Link:
		href, ok := sanitize.URL(v.URL)
		if !ok {
			res.Warnings = append(res.Warnings, r.warn(index, res.Type,
				fmt.Errorf("%w: %q", ErrUnsafeURL, v.URL)))
			res.Node = r.container(atom.Span, v.Children)
			break
		}
		a := r.container(atom.A, v.Children)
		setAttr(a, "href", href)
		setAttr(a, "target", linkTarget)
		setAttr(a, "rel", linkRel)
		res.Node = a

	case blocks.Malformed:
		res.Warnings = append(res.Warnings, r.warn(index, res.Type,
			fmt.Errorf("%w: %w", ErrMalformed, v.Err)))

	default:
		res.Warnings = append(res.Warnings, r.warn(index, res.Type, ErrUnknownType))
	}

	return res
}

// container wraps one styled span per inline span in an element.
func (r *BlockRenderer) container(tag atom.Atom, spans []blocks.Span) *html.Node {
	n := element(tag)
	for _, s := range spans {
		n.AppendChild(r.span(s))
	}
	return n
}

// span is the single leaf-text insertion point.
func (r *BlockRenderer) span(s blocks.Span) *html.Node {
	n := element(atom.Span)
	if style := spanStyle(s); style != "" {
		setAttr(n, "style", style)
	}
	if text := r.sanitizer.Text(s.Text); text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	return n
}

func spanStyle(s blocks.Span) string {
	switch {
	case s.Bold && s.Italic:
		return boldStyle + "; " + italicStyle
	case s.Bold:
		return boldStyle
	case s.Italic:
		return italicStyle
	}
	return ""
}

func (r *BlockRenderer) warn(index int, typ string, err error) *Warning {
	w := &Warning{Path: fmt.Sprintf("[%d]", index), Type: typ, Err: err}
	r.logger.Warn("block render degraded", "path", w.Path, "type", w.Type, "err", w.Err)
	return w
}

func element(tag atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: tag, Data: tag.String()}
}

func setAttr(n *html.Node, key, val string) {
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// HTML serializes rendered blocks in order, one element per line. Empty
// contributions produce no markup.
func HTML(rendered []Rendered) (string, error) {
	var buf bytes.Buffer
	for _, r := range rendered {
		if r.Node == nil {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		if err := html.Render(&buf, r.Node); err != nil {
			return "", fmt.Errorf("serializing block %d: %w", r.Index, err)
		}
	}
	return buf.String(), nil
}

// Warnings flattens the warnings of all rendered blocks.
func Warnings(rendered []Rendered) []*Warning {
	var out []*Warning
	for _, r := range rendered {
		out = append(out, r.Warnings...)
	}
	return out
}
