package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "github-dark"

// Sentinel errors for highlighting.
var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrHighlight           = errors.New("highlighting failed")
)

// Highlighter turns source code into highlighted HTML.
// Implementations may fail; the renderer falls back to escaped plain text.
type Highlighter interface {
	Highlight(ctx context.Context, code, lang string) (string, error)
}

// HighlighterFunc adapts a function to the Highlighter interface.
type HighlighterFunc func(ctx context.Context, code, lang string) (string, error)

// Highlight calls f(ctx, code, lang).
func (f HighlighterFunc) Highlight(ctx context.Context, code, lang string) (string, error) {
	return f(ctx, code, lang)
}

// ChromaHighlighter highlights code with chroma, emitting CSS classes
// instead of inline styles.
type ChromaHighlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewChromaHighlighter creates a highlighter for the named chroma style.
// Unknown style names fall back to chroma's default style.
func NewChromaHighlighter(style string) *ChromaHighlighter {
	if style == "" {
		style = DefaultHighlightStyle
	}
	return &ChromaHighlighter{
		style:     styles.Get(style),
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
	}
}

// Highlight returns chroma HTML for code written in lang.
// Chroma has no context support, so tokenizing runs in a goroutine and the
// call returns early when ctx is done.
func (h *ChromaHighlighter) Highlight(ctx context.Context, code, lang string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	lexer = chroma.Coalesce(lexer)

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: panic: %v", ErrHighlight, r)}
			}
		}()

		iterator, err := lexer.Tokenise(nil, code)
		if err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHighlight, err)}
			return
		}
		var b strings.Builder
		if err := h.formatter.Format(&b, h.style, iterator); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHighlight, err)}
			return
		}
		done <- result{html: b.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
