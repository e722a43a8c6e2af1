package zerxsite

import (
	"context"
	"fmt"
	"strings"

	"github.com/zerx-lab/zerxsite/internal/pipeline"
)

// Post is a rendered local post.
type Post struct {
	HTML string    `json:"html"`
	TOC  []TOCItem `json:"toc"`
	// Assets lists the relative files the HTML references, cleaned and
	// deduplicated, for the caller to publish next to the post.
	Assets []string `json:"assets,omitempty"`
}

// PostConverter renders full CommonMark/GFM Markdown for local posts.
// Safe for concurrent use.
type PostConverter struct {
	conv *pipeline.GoldmarkConverter
}

// PostOption configures a PostConverter.
type PostOption func(*postConfig)

type postConfig struct {
	style string
}

// WithPostHighlightStyle selects the chroma style for post code blocks.
func WithPostHighlightStyle(name string) PostOption {
	return func(c *postConfig) {
		c.style = name
	}
}

// NewPostConverter creates a PostConverter.
func NewPostConverter(opts ...PostOption) *PostConverter {
	cfg := postConfig{style: pipeline.DefaultHighlightStyle}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &PostConverter{conv: pipeline.NewGoldmarkConverter(cfg.style)}
}

// Convert renders markdown and rewrites relative image and link paths under
// baseURL. An empty baseURL leaves paths untouched.
func (c *PostConverter) Convert(ctx context.Context, markdown, baseURL string) (*Post, error) {
	if strings.TrimSpace(markdown) == "" {
		return nil, ErrEmptyMarkdown
	}

	html, toc, err := c.conv.Convert(ctx, markdown)
	if err != nil {
		return nil, err
	}

	html, assets, err := pipeline.RewriteAssetPaths(html, baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRewrite, err)
	}

	return &Post{HTML: html, TOC: toc, Assets: assets}, nil
}
