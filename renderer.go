package zerxsite

import (
	"context"

	"github.com/zerx-lab/zerxsite/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ Highlighter          = (*pipeline.ChromaHighlighter)(nil)
	_ Highlighter          = pipeline.HighlighterFunc(nil)
	_ pipeline.Highlighter = Highlighter(nil)
)

// Renderer converts the restricted Markdown dialect to HTML plus a TOC.
// Safe for concurrent use.
type Renderer struct {
	r *pipeline.Renderer
}

// NewRenderer creates a Renderer. By default code is highlighted by chroma
// with DefaultHighlightTimeout per block and ResolvePoolSize(0) concurrent
// calls.
func NewRenderer(opts ...Option) *Renderer {
	cfg := rendererConfig{
		style:       pipeline.DefaultHighlightStyle,
		timeout:     DefaultHighlightTimeout,
		concurrency: ResolvePoolSize(0),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var ph pipeline.Highlighter
	switch {
	case !cfg.custom:
		ph = pipeline.NewChromaHighlighter(cfg.style)
	case cfg.highlighter != nil:
		ph = cfg.highlighter
	}
	return &Renderer{r: pipeline.NewRenderer(ph, cfg.timeout, cfg.concurrency)}
}

// Render converts markdown to HTML with plain escaped code blocks.
// It never fails.
func (r *Renderer) Render(markdown string) RenderResult {
	return toResult(r.r.Render(markdown))
}

// RenderWithHighlighting is Render with code blocks highlighted concurrently.
// A block whose highlighting fails, panics or times out falls back to plain
// escaped text. It never fails.
func (r *Renderer) RenderWithHighlighting(ctx context.Context, markdown string) RenderResult {
	return toResult(r.r.RenderWithHighlighting(ctx, markdown))
}

// Slugify derives the anchor ID used for a heading.
func Slugify(text string) string {
	return pipeline.Slugify(text)
}

func toResult(res pipeline.Result) RenderResult {
	return RenderResult{HTML: res.HTML, TOC: res.TOC, Fallbacks: res.Fallbacks}
}
