// Package render: PDF renderer.
// Walks the block document with gofpdf. Span text goes through the same
// sanitize boundary as the HTML output; bold and italic map to font styles.
// Images are shown as a text placeholder.
package render

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/postpipe/core"
	"github.com/gaurav-prasanna/postpipe/core/blocks"
	"github.com/gaurav-prasanna/postpipe/core/sanitize"
)

const (
	pdfFont       = "Helvetica"
	pdfBodySize   = 10
	pdfLineHeight = 5
	pdfQuoteInset = 8
)

var pdfHeadingSizes = [...]float64{18, 15, 13, 12, 11, 10}

// PDFRenderer renders an article as a PDF document.
type PDFRenderer struct {
	sanitizer *sanitize.Sanitizer
}

// NewPDFRenderer creates a PDFRenderer. A nil sanitizer uses the default.
func NewPDFRenderer(s *sanitize.Sanitizer) *PDFRenderer {
	if s == nil {
		s = sanitize.Default()
	}
	return &PDFRenderer{sanitizer: s}
}

type pdfWriter struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
	san *sanitize.Sanitizer
}

// Render converts a page into PDF bytes.
func (r *PDFRenderer) Render(page *core.Page) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	w := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), san: r.sanitizer}
	w.header(page.Meta)
	for _, b := range page.Document {
		w.block(b)
	}
	w.tags(page.Meta.Tags)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

func (w *pdfWriter) header(m core.ArticleMeta) {
	if m.Category != "" {
		w.pdf.SetFont(pdfFont, "", 9)
		w.pdf.SetTextColor(100, 100, 100)
		w.pdf.MultiCell(0, 5, w.text(m.Category), "", "L", false)
		w.pdf.SetTextColor(0, 0, 0)
	}
	if m.Title != "" {
		w.pdf.SetFont(pdfFont, "B", 18)
		w.pdf.MultiCell(0, 8, w.text(m.Title), "", "L", false)
		w.pdf.Ln(2)
	}

	w.pdf.SetFont(pdfFont, "I", 9)
	w.pdf.SetTextColor(100, 100, 100)
	if m.Author != "" || m.PublishedAt != "" {
		w.pdf.MultiCell(0, 5, w.text("By "+m.Author+" | "+FormatDate(m.PublishedAt)), "", "L", false)
	}
	if m.PhotoSource != "" {
		w.pdf.MultiCell(0, 5, w.text("Sumber: "+m.PhotoSource), "", "L", false)
	}
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.Ln(6)
}

func (w *pdfWriter) block(b blocks.Block) {
	switch v := b.(type) {
	case blocks.Paragraph:
		w.spans(v.Children, pdfBodySize, "", "")
		w.pdf.Ln(pdfLineHeight + 3)

	case blocks.Heading:
		level := min(max(v.Level, 1), 6)
		size := pdfHeadingSizes[level-1]
		w.pdf.Ln(4)
		w.spans(v.Children, size, "B", "")
		w.pdf.Ln(size*0.6 + 2)

	case blocks.List:
		for i, item := range v.Items {
			marker := "• "
			if v.Ordered {
				marker = strconv.Itoa(i+1) + ". "
			}
			w.pdf.SetFont(pdfFont, "", pdfBodySize)
			w.pdf.Write(pdfLineHeight, w.tr(marker))
			w.spans(item, pdfBodySize, "", "")
			w.pdf.Ln(pdfLineHeight)
		}
		w.pdf.Ln(3)

	case blocks.Quote:
		left, top, right, _ := w.pdf.GetMargins()
		w.pdf.SetMargins(left+pdfQuoteInset, top, right)
		w.pdf.SetX(left + pdfQuoteInset)
		w.pdf.SetTextColor(85, 85, 85)
		w.spans(v.Children, pdfBodySize, "", "")
		w.pdf.SetTextColor(0, 0, 0)
		w.pdf.SetMargins(left, top, right)
		w.pdf.Ln(pdfLineHeight + 3)

	case blocks.Image:
		w.pdf.SetFont(pdfFont, "I", pdfBodySize)
		w.pdf.SetTextColor(100, 100, 100)
		w.pdf.MultiCell(0, pdfLineHeight, w.text("[Image: "+v.AltText+"]"), "", "L", false)
		w.pdf.SetTextColor(0, 0, 0)
		w.pdf.Ln(3)

	case blocks.Link:
		href, ok := sanitize.URL(v.URL)
		if !ok {
			href = ""
		}
		if href != "" {
			w.pdf.SetTextColor(0, 0, 200)
		}
		w.spans(v.Children, pdfBodySize, "", href)
		w.pdf.SetTextColor(0, 0, 0)
		w.pdf.Ln(pdfLineHeight + 3)
	}
	// Unknown and malformed blocks contribute nothing.
}

// spans writes inline runs, adding base to each span's own style. A non-empty
// href makes each run a link.
func (w *pdfWriter) spans(spans []blocks.Span, size float64, base, href string) {
	height := size * 0.5
	if height < pdfLineHeight {
		height = pdfLineHeight
	}
	for _, s := range spans {
		w.pdf.SetFont(pdfFont, fontStyle(base, s), size)
		text := w.text(s.Text)
		if href != "" {
			w.pdf.WriteLinkString(height, text, href)
			continue
		}
		w.pdf.Write(height, text)
	}
}

func (w *pdfWriter) tags(tags []string) {
	if len(tags) == 0 {
		return
	}
	w.pdf.Ln(4)
	w.pdf.SetFont(pdfFont, "", 9)
	line := ""
	for i, t := range tags {
		if i > 0 {
			line += " "
		}
		line += "#" + t
	}
	w.pdf.MultiCell(0, 5, w.text(line), "", "L", false)
}

// text applies the sanitize boundary and the code page translation.
func (w *pdfWriter) text(s string) string {
	return w.tr(w.san.Text(s))
}

// fontStyle combines a base style ("" or "B") with a span's flags.
func fontStyle(base string, s blocks.Span) string {
	bold := base == "B" || s.Bold
	switch {
	case bold && s.Italic:
		return "BI"
	case bold:
		return "B"
	case s.Italic:
		return "I"
	}
	return ""
}
