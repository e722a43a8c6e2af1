package zerxsite

import (
	"errors"

	"github.com/zerx-lab/zerxsite/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown  = errors.New("markdown content cannot be empty")
	ErrHTMLConversion = pipeline.ErrHTMLConversion
	ErrAssetRewrite   = errors.New("asset path rewrite failed")

	// Highlighter errors. The renderer never returns these: they are
	// reported by Highlighter implementations and absorbed as fallbacks.
	ErrUnsupportedLanguage = pipeline.ErrUnsupportedLanguage
	ErrHighlight           = pipeline.ErrHighlight
)
