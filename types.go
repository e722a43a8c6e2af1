package zerxsite

import (
	"context"
	"time"

	"github.com/zerx-lab/zerxsite/internal/pipeline"
)

// TOCItem is one table of contents entry: heading text, "#"+slug, depth.
type TOCItem = pipeline.TOCItem

// RenderResult is the output of a render call.
type RenderResult struct {
	HTML string    `json:"html"`
	TOC  []TOCItem `json:"toc"`
	// Fallbacks counts code blocks rendered as plain text after their
	// highlighting failed. Diagnostic only.
	Fallbacks int `json:"-"`
}

// Highlighter turns source code into highlighted HTML. Implementations may
// fail; failing blocks fall back to escaped plain text.
type Highlighter interface {
	Highlight(ctx context.Context, code, lang string) (string, error)
}

// HighlighterFunc adapts a function to the Highlighter interface.
type HighlighterFunc = pipeline.HighlighterFunc

// Option configures a Renderer.
type Option func(*rendererConfig)

// rendererConfig holds internal configuration for Renderer.
type rendererConfig struct {
	highlighter Highlighter
	custom      bool // highlighter set through WithHighlighter
	style       string
	timeout     time.Duration
	concurrency int
}

// DefaultHighlightTimeout bounds a single highlighter call.
const DefaultHighlightTimeout = pipeline.DefaultHighlightTimeout

// WithHighlighter replaces the default chroma highlighter.
// Passing nil disables highlighting.
func WithHighlighter(h Highlighter) Option {
	return func(c *rendererConfig) {
		c.highlighter = h
		c.custom = true
	}
}

// WithHighlightStyle selects the chroma style of the default highlighter.
// Unknown names fall back to chroma's default style.
func WithHighlightStyle(name string) Option {
	return func(c *rendererConfig) {
		c.style = name
	}
}

// WithHighlightTimeout bounds each highlighter call.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithHighlightTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("zerxsite: WithHighlightTimeout duration must be positive")
	}
	return func(c *rendererConfig) {
		c.timeout = d
	}
}

// WithHighlightConcurrency caps concurrent highlighter calls per render.
// Panics if n < 1.
func WithHighlightConcurrency(n int) Option {
	if n < 1 {
		panic("zerxsite: WithHighlightConcurrency requires n >= 1")
	}
	return func(c *rendererConfig) {
		c.concurrency = n
	}
}
