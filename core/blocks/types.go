// Package blocks models the rich-text body of a CMS article as an ordered
// sequence of typed content blocks.
//
// A Document is produced once per successful fetch by Decode and is never
// mutated afterwards; a refetch yields a new Document.
package blocks

import (
	"encoding/json"
	"strings"
)

// Block type discriminators as emitted by the CMS.
const (
	TypeParagraph = "paragraph"
	TypeHeading   = "heading"
	TypeList      = "list"
	TypeQuote     = "quote"
	TypeImage     = "image"
	TypeLink      = "link"
)

// Document is an ordered list of blocks.
type Document []Block

// Span is a run of text with independent style flags.
type Span struct {
	Text   string `json:"text"`
	Bold   bool   `json:"bold,omitempty"`
	Italic bool   `json:"italic,omitempty"`
}

// Block is one structural unit of a document. The set of implementations is
// closed: Paragraph, Heading, List, Quote, Image, Link, plus Unknown and
// Malformed for input that cannot be rendered.
type Block interface {
	// BlockType returns the CMS type discriminator.
	BlockType() string
	block()
}

// Paragraph is a run of spans.
type Paragraph struct {
	Children []Span `json:"children"`
}

// BlockType implements Block.
func (Paragraph) BlockType() string { return TypeParagraph }
func (Paragraph) block()            {}

// Heading is a run of spans at a heading rank. Level is kept as decoded;
// renderers clamp it into 1..6.
type Heading struct {
	Level    int    `json:"level"`
	Children []Span `json:"children"`
}

// BlockType implements Block.
func (Heading) BlockType() string { return TypeHeading }
func (Heading) block()            {}

// List is an ordered or unordered list; each item is its own span sequence.
// Nested lists are not part of the model: DroppedNested counts the ones the
// decoder skipped.
type List struct {
	Ordered       bool     `json:"ordered"`
	Items         [][]Span `json:"items"`
	DroppedNested int      `json:"-"`
}

// BlockType implements Block.
func (List) BlockType() string { return TypeList }
func (List) block()            {}

// Quote is a block quotation.
type Quote struct {
	Children []Span `json:"children"`
}

// BlockType implements Block.
func (Quote) BlockType() string { return TypeQuote }
func (Quote) block()            {}

// Image references a media asset. URL may be relative to the CMS origin.
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

// BlockType implements Block.
func (Image) BlockType() string { return TypeImage }
func (Image) block()            {}

// Link is an anchor wrapping a run of spans.
type Link struct {
	URL      string `json:"url"`
	Children []Span `json:"children"`
}

// BlockType implements Block.
func (Link) BlockType() string { return TypeLink }
func (Link) block()            {}

// Unknown is a block whose type is not recognized. It is kept so that the
// document keeps its positions when the CMS schema grows new block types.
type Unknown struct {
	Type string
	Raw  json.RawMessage
}

// BlockType implements Block.
func (u Unknown) BlockType() string { return u.Type }
func (Unknown) block()              {}

// Malformed is a recognized block that is missing a required field.
type Malformed struct {
	Type string
	Err  error
}

// BlockType implements Block.
func (m Malformed) BlockType() string { return m.Type }
func (Malformed) block()              {}

// SpansOf returns the inline spans carried by b in order. List items are
// concatenated. Blocks without text return nil.
func SpansOf(b Block) []Span {
	switch v := b.(type) {
	case Paragraph:
		return v.Children
	case Heading:
		return v.Children
	case Quote:
		return v.Children
	case Link:
		return v.Children
	case List:
		var out []Span
		for _, item := range v.Items {
			out = append(out, item...)
		}
		return out
	default:
		return nil
	}
}

// PlainText concatenates the span text of a single span sequence.
func PlainText(spans []Span) string {
	var buf strings.Builder
	for _, s := range spans {
		buf.WriteString(s.Text)
	}
	return buf.String()
}

// Counts returns the number of blocks per type discriminator.
func (d Document) Counts() map[string]int {
	out := make(map[string]int)
	for _, b := range d {
		if b == nil {
			continue
		}
		out[b.BlockType()]++
	}
	return out
}
