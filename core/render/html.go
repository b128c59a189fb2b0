// Package render: HTML renderer.
// Wraps the sanitized block output in a standalone article page.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gaurav-prasanna/postpipe/core"
)

const (
	cmsDateLayout  = "2006-01-02"
	pageDateLayout = "1/2/2006"
)

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"date": FormatDate,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Meta.Title}}</title>
</head>
<body>
<article class="post-section">
{{- with .Meta.Category}}
<div class="post-section-category">{{.}}</div>
{{- end}}
<h1 class="post-section-title">{{.Meta.Title}}</h1>
{{- with .Meta.FeaturedImage}}
<img class="post-section-image" src="{{.}}" alt="{{$.Meta.Title}}" style="max-width: 100%; height: auto">
{{- end}}
{{- with .Meta.PhotoSource}}
<div class="post-section-image-source">Sumber: {{.}}</div>
{{- end}}
<p class="post-section-byline">By {{.Meta.Author}} | {{.Date}}</p>
<div class="post-section-body">
{{.Body}}
</div>
{{- if .Meta.Tags}}
<ul class="post-section-tags">
{{- range .Meta.Tags}}
<li>#{{.}}</li>
{{- end}}
</ul>
{{- end}}
</article>
{{- if .Related}}
<aside class="post-section-trending">
<h3>Baca Juga Ini</h3>
<ul>
{{- range $r := .Related}}
<li class="post-section-trending-post">
<a href="/blog-post/{{$r.Slug}}">
{{- with $r.Thumbnail}}<img class="post-section-trending-post-image" src="{{.}}" alt="{{$r.Title}}">{{end -}}
<h4>{{$r.Title}}</h4></a>
<p class="author-date"><span>{{$r.Author}}</span> | <span>{{date $r.PublishedAt}}</span></p>
</li>
{{- end}}
</ul>
</aside>
{{- end}}
{{- if .Social}}
<aside class="post-section-social">
<h3>Follow Us</h3>
<ul>
{{- range .Social}}
<li><a href="{{.Href}}" target="_blank" rel="noopener noreferrer">{{.Label}}</a></li>
{{- end}}
</ul>
</aside>
{{- end}}
</body>
</html>
`))

// HTMLRenderer produces a standalone HTML article page. It is safe for
// concurrent use.
type HTMLRenderer struct{}

// NewHTMLRenderer creates an HTMLRenderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

type socialView struct {
	Href  template.URL
	Label string
}

type pageView struct {
	Meta    core.ArticleMeta
	Date    string
	Body    template.HTML
	Social  []socialView
	Related []core.ArticleMeta
}

// Render fills the page template. The body is inserted verbatim: it is the
// block renderer's output and already sanitized. Everything else is escaped
// by the template.
func (r *HTMLRenderer) Render(page *core.Page) ([]byte, error) {
	view := pageView{
		Meta:    page.Meta,
		Date:    FormatDate(page.Meta.PublishedAt),
		Body:    template.HTML(page.Body), //nolint:gosec // produced by BlockRenderer
		Related: page.Related,
	}
	title := cases.Title(language.Und)
	for _, s := range page.Social {
		view.Social = append(view.Social, socialView{
			Href:  template.URL("https://" + s.Link), //nolint:gosec // scheme is fixed
			Label: title.String(s.Network),
		})
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("executing page template: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for HTML output.
func (r *HTMLRenderer) Extension() string {
	return ".html"
}

// FormatDate turns a CMS date (YYYY-MM-DD) into the short M/D/YYYY form shown
// in bylines. Values that do not parse are returned unchanged.
func FormatDate(raw string) string {
	t, err := time.Parse(cmsDateLayout, raw)
	if err != nil {
		return raw
	}
	return t.Format(pageDateLayout)
}
