package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultHighlightTimeout bounds a single highlighter call.
const DefaultHighlightTimeout = 5 * time.Second

// Result is the output of one render call.
type Result struct {
	HTML string
	TOC  []TOCItem
	// Fallbacks counts code blocks whose highlighting failed and were
	// rendered as plain escaped text instead.
	Fallbacks int
}

// Renderer converts the restricted Markdown dialect to HTML.
// A Renderer holds no per-call state and is safe for concurrent use.
type Renderer struct {
	highlighter Highlighter
	timeout     time.Duration
	concurrency int
}

// NewRenderer creates a Renderer. A nil highlighter makes the highlighting
// variant behave like Render. timeout <= 0 uses DefaultHighlightTimeout and
// concurrency <= 0 leaves the fan-out unbounded.
func NewRenderer(h Highlighter, timeout time.Duration, concurrency int) *Renderer {
	if timeout <= 0 {
		timeout = DefaultHighlightTimeout
	}
	return &Renderer{highlighter: h, timeout: timeout, concurrency: concurrency}
}

// Render converts markdown to HTML with plain escaped code blocks.
// It never fails: unrecognized constructs become paragraph text.
func (r *Renderer) Render(markdown string) Result {
	text, blocks, toc := r.transform(markdown)

	fragments := make([]string, len(blocks))
	for i, b := range blocks {
		fragments[i] = codeFigureHTML(b.Lang, plainCodeHTML(b.Lang, b.Code))
	}

	return Result{HTML: restoreCodeBlocks(text, fragments), TOC: toc}
}

// RenderWithHighlighting is Render with each code block sent to the
// highlighter. Calls run concurrently and are reassembled by index. A block
// whose call fails, panics or times out falls back to escaped plain text;
// the render itself never fails. Cancelling ctx turns every pending block
// into a fallback.
func (r *Renderer) RenderWithHighlighting(ctx context.Context, markdown string) Result {
	if r.highlighter == nil {
		return r.Render(markdown)
	}

	text, blocks, toc := r.transform(markdown)

	fragments := make([]string, len(blocks))
	failed := make([]bool, len(blocks))

	g := new(errgroup.Group)
	if r.concurrency > 0 {
		g.SetLimit(r.concurrency)
	}
	for i, b := range blocks {
		if b.Lang == "" {
			fragments[i] = codeFigureHTML(b.Lang, plainCodeHTML(b.Lang, b.Code))
			continue
		}
		g.Go(func() error {
			body, err := r.highlight(ctx, b)
			if err != nil {
				failed[i] = true
				body = plainCodeHTML(b.Lang, b.Code)
			}
			fragments[i] = codeFigureHTML(b.Lang, body)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	fallbacks := 0
	for _, f := range failed {
		if f {
			fallbacks++
		}
	}

	return Result{HTML: restoreCodeBlocks(text, fragments), TOC: toc, Fallbacks: fallbacks}
}

// transform runs every pass except restoration.
func (r *Renderer) transform(markdown string) (string, []codeBlock, []TOCItem) {
	text := sanitizeInput(markdown)
	text, blocks := extractCodeBlocks(text)
	text, toc := processHeadings(text)
	text = applyInlinePasses(text)
	text = assembleBlocks(text)
	for i := range toc {
		toc[i].Title = resolveSentinelMarks(toc[i].Title)
	}
	return resolveSentinelMarks(text), blocks, toc
}

// highlight calls the highlighter for one block under the per-block timeout.
// The call runs in its own goroutine so a highlighter that ignores ctx still
// cannot stall the render past the timeout.
func (r *Renderer) highlight(ctx context.Context, b codeBlock) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- result{err: fmt.Errorf("%w: panic: %v", ErrHighlight, p)}
			}
		}()
		html, err := r.highlighter.Highlight(ctx, b.Code, b.Lang)
		done <- result{html: html, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil {
			return "", res.err
		}
		return neutralizeSentinels(res.html), nil
	}
}
