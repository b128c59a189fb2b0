// Package cmd: render command.
// This is the main command that orchestrates the pipeline:
// fetch → render blocks → render page → write.
//
// It handles flag validation, renderer selection, and the single, --file and
// --all modes.
package cmd

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/postpipe/core"
	"github.com/gaurav-prasanna/postpipe/core/blocks"
	"github.com/gaurav-prasanna/postpipe/core/config"
	"github.com/gaurav-prasanna/postpipe/core/excerpt"
	"github.com/gaurav-prasanna/postpipe/core/extract"
	"github.com/gaurav-prasanna/postpipe/core/fetch"
	"github.com/gaurav-prasanna/postpipe/core/normalize"
	"github.com/gaurav-prasanna/postpipe/core/output"
	"github.com/gaurav-prasanna/postpipe/core/render"
	"github.com/gaurav-prasanna/postpipe/crawl"
)

// Flag variables.
var (
	flagAll       bool
	flagFile      string
	flagHTML      bool
	flagMarkdown  bool
	flagJSON      bool
	flagPDF       bool
	flagOutputDir string
	flagAPIURL    string
	flagWorkers   int
)

var renderCmd = &cobra.Command{
	Use:   "render [slug]",
	Short: "Render an article to the specified output format",
	Long: `Render fetches an article from the CMS, renders its rich-text body through
the sanitizing block renderer, and writes it in the specified output format
(HTML, Markdown, JSON, or PDF).

Examples:
  postpipe render tips-home --html
  postpipe render tips-home --json --output_dir ./out
  postpipe render --all --markdown --api_url https://cms.example.com
  postpipe render --file body.json --pdf`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	// Mode flags.
	renderCmd.Flags().BoolVar(&flagAll, "all", false, "Render every article in the CMS and write an index")
	renderCmd.Flags().StringVar(&flagFile, "file", "", "Render a local JSON block document instead of fetching")

	// Output format flags (mutually exclusive).
	renderCmd.Flags().BoolVar(&flagHTML, "html", false, "Output an HTML page")
	renderCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown")
	renderCmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")
	renderCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output PDF")

	renderCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
	renderCmd.Flags().StringVar(&flagAPIURL, "api_url", "", "CMS base URL (overrides config and "+config.EnvAPIURL+")")
	renderCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Concurrent block renderers (default from config)")
}

func runRender(cmd *cobra.Command, args []string) error {
	var slug string
	if len(args) == 1 {
		slug = crawl.NormalizeSlug(args[0])
	}

	// --- Validate flags ---
	if err := validateFlags(slug); err != nil {
		return err
	}
	applyRenderFlags(cmd)

	if flagFile == "" {
		if err := cfg.Validate(); err != nil {
			return err
		}
	} else if err := cfg.ValidateLocal(); err != nil {
		return err
	}

	// Select renderer.
	renderer, err := selectRenderer()
	if err != nil {
		return err
	}

	writer, err := output.New(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	p := &pipeline{renderer: renderer, writer: writer, stdout: cmd.OutOrStdout()}

	if flagFile != "" {
		return p.runFile(ctx, flagFile, slug)
	}

	client, err := fetch.New(cfg.APIURL, cfg.Timeout, logger)
	if err != nil {
		return err
	}
	p.fetcher = client
	p.blocks = newBlockRenderer(client.Base())

	social, err := client.FetchSocialLinks(ctx)
	if err != nil {
		logger.Warn("social links unavailable", "err", err)
	}
	p.social = social

	p.recent = loadRecent(ctx, client)

	if flagAll {
		return p.runAll(ctx, client)
	}
	return p.runOne(ctx, slug)
}

// applyRenderFlags lets explicitly set flags override the loaded config.
func applyRenderFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("api_url") {
		cfg.APIURL = flagAPIURL
	}
	if cmd.Flags().Changed("output_dir") {
		cfg.OutputDir = flagOutputDir
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = flagWorkers
	}
}

// validateFlags checks that exactly one output format is chosen and that the
// mode flags fit together.
func validateFlags(slug string) error {
	if flagAll && flagFile != "" {
		return fmt.Errorf("--all and --file are mutually exclusive")
	}
	if flagAll && slug != "" {
		return fmt.Errorf("--all does not take a slug")
	}
	if !flagAll && flagFile == "" && slug == "" {
		return fmt.Errorf("a slug is required unless --all or --file is given")
	}

	// Count output formats.
	formatCount := 0
	for _, set := range []bool{flagHTML, flagMarkdown, flagJSON, flagPDF} {
		if set {
			formatCount++
		}
	}
	if formatCount == 0 {
		return fmt.Errorf("exactly one output format is required: --html, --markdown, --json, or --pdf")
	}
	if formatCount > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}
	return nil
}

// selectRenderer creates the appropriate Renderer based on flags.
func selectRenderer() (core.Renderer, error) {
	switch {
	case flagHTML:
		return render.NewHTMLRenderer(), nil
	case flagMarkdown:
		return render.NewMarkdownRenderer(normalize.New("")), nil
	case flagJSON:
		return render.NewJSONRenderer(extract.New(localBase()), excerpt.New(cfg.ExcerptWords)), nil
	case flagPDF:
		return render.NewPDFRenderer(nil), nil
	default:
		return nil, fmt.Errorf("no output format selected")
	}
}

func newBlockRenderer(base *url.URL) *render.BlockRenderer {
	return render.NewBlockRenderer(render.Options{BaseURL: base, Logger: logger})
}

// localBase is the CMS base used to resolve image URLs in --file mode; nil
// when no API URL is configured.
func localBase() *url.URL {
	if cfg.APIURL == "" {
		return nil
	}
	u, err := url.Parse(cfg.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil
	}
	return u
}

// relatedCount is the number of articles in the "read also" sidebar.
const relatedCount = 3

type pipeline struct {
	fetcher  core.Fetcher
	blocks   *render.BlockRenderer
	renderer core.Renderer
	writer   *output.Writer
	social   []core.SocialLink
	recent   []core.ArticleMeta
	stdout   io.Writer
}

// runFile renders a local block document.
func (p *pipeline) runFile(ctx context.Context, path, slug string) error {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided input path is intentional
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := blocks.DecodeString(string(data))
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if slug == "" {
		slug = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	p.blocks = newBlockRenderer(localBase())

	out, err := p.render(ctx, &core.Article{Meta: core.ArticleMeta{Slug: slug}, Body: doc})
	if err != nil {
		return err
	}
	written, err := p.writer.WriteOne(slug, out, p.renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(p.stdout, "✓ Written: %s\n", written)
	return nil
}

// runOne fetches and renders a single article.
func (p *pipeline) runOne(ctx context.Context, slug string) error {
	data, _, err := p.process(ctx, slug)
	if err != nil {
		return err
	}
	path, err := p.writer.WriteOne(slug, data, p.renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(p.stdout, "✓ Written: %s\n", path)
	return nil
}

// runAll discovers every article and processes each through the pipeline,
// at most cfg.Workers at a time. Failures are reported and skipped; the index
// lists the articles written, in listing order.
func (p *pipeline) runAll(ctx context.Context, lister core.Lister) error {
	fmt.Fprintf(p.stdout, "Discovering articles from %s...\n", cfg.APIURL)

	metas, err := crawl.DiscoverAll(ctx, lister, cfg.PageSize)
	if err != nil {
		return fmt.Errorf("discovering articles: %w", err)
	}
	fmt.Fprintf(p.stdout, "Found %d articles to process\n", len(metas))

	type result struct {
		meta core.ArticleMeta
		path string
		err  error
	}
	results := make([]result, len(metas))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, m := range metas {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, meta, err := p.process(gctx, m.Slug)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				results[i].err = err
				return nil
			}
			path, err := p.writer.WriteAll(m.Slug, data, p.renderer.Extension())
			results[i] = result{meta: meta, path: path, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var (
		errCount int
		written  []core.ArticleMeta
	)
	for i, r := range results {
		slug := metas[i].Slug
		fmt.Fprintf(p.stdout, "[%d/%d] %s\n", i+1, len(metas), slug)
		if r.err != nil {
			logger.Error("article failed", "slug", slug, "err", r.err)
			errCount++
			continue
		}
		written = append(written, r.meta)
		fmt.Fprintf(p.stdout, "  ✓ Written: %s\n", r.path)
	}

	index, err := p.writer.WriteIndex(written, p.renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(p.stdout, "✓ Index: %s\n", index)

	if errCount > 0 {
		fmt.Fprintf(p.stdout, "\n%d/%d articles failed\n", errCount, len(metas))
	}
	return nil
}

// process runs a single slug through fetch and render.
func (p *pipeline) process(ctx context.Context, slug string) ([]byte, core.ArticleMeta, error) {
	// 1. Fetch
	article, err := p.fetcher.FetchArticle(ctx, slug)
	if err != nil {
		return nil, core.ArticleMeta{}, fmt.Errorf("fetch: %w", err)
	}

	// 2-3. Render blocks and page
	data, err := p.render(ctx, article)
	if err != nil {
		return nil, core.ArticleMeta{}, err
	}
	return data, article.Meta, nil
}

// render turns an article into the selected output format.
func (p *pipeline) render(ctx context.Context, article *core.Article) ([]byte, error) {
	page, err := buildPage(ctx, p.blocks, article, p.social, cfg.Workers)
	if err != nil {
		return nil, err
	}
	page.Related = related(p.recent, article.Meta.Slug, relatedCount)
	data, err := p.renderer.Render(page)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return data, nil
}

// buildPage renders the article body block by block and assembles the Page
// handed to output renderers.
func buildPage(ctx context.Context, br *render.BlockRenderer, article *core.Article, social []core.SocialLink, workers int) (*core.Page, error) {
	rendered, err := br.RenderDocumentParallel(ctx, article.Body, workers)
	if err != nil {
		return nil, fmt.Errorf("render blocks: %w", err)
	}
	body, err := render.HTML(rendered)
	if err != nil {
		return nil, fmt.Errorf("render blocks: %w", err)
	}

	page := &core.Page{
		Meta:     article.Meta,
		Document: article.Body,
		Body:     body,
		Social:   social,
	}
	for _, w := range render.Warnings(rendered) {
		page.Warnings = append(page.Warnings, w.Error())
	}
	return page, nil
}

// loadRecent fetches enough recent articles to fill the sidebar after the
// current article is skipped. Failures only drop the sidebar.
func loadRecent(ctx context.Context, l core.RecentLister) []core.ArticleMeta {
	recent, err := l.ListRecent(ctx, relatedCount+1)
	if err != nil {
		logger.Warn("recent articles unavailable", "err", err)
		return nil
	}
	return recent
}

// related picks up to n recent articles other than the one with slug.
func related(recent []core.ArticleMeta, slug string, n int) []core.ArticleMeta {
	var out []core.ArticleMeta
	for _, m := range recent {
		if len(out) == n {
			break
		}
		if crawl.NormalizeSlug(m.Slug) == crawl.NormalizeSlug(slug) {
			continue
		}
		out = append(out, m)
	}
	return out
}
