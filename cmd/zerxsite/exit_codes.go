package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/alecthomas/chroma/v2/styles"

	"github.com/zerx-lab/zerxsite"
	"github.com/zerx-lab/zerxsite/internal/blog"
	"github.com/zerx-lab/zerxsite/internal/config"
	"github.com/zerx-lab/zerxsite/internal/github"
	"github.com/zerx-lab/zerxsite/internal/hints"
	"github.com/zerx-lab/zerxsite/internal/httpx"
	"github.com/zerx-lab/zerxsite/internal/ogimage"
	"github.com/zerx-lab/zerxsite/internal/sitemap"
	"github.com/zerx-lab/zerxsite/internal/wolai"
)

// Exit codes for the zerxsite CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or content
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
	ExitRemote  = 5 // wolai or GitHub API errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, ogimage.ErrBrowserConnect) ||
		errors.Is(err, ogimage.ErrPageCreate) ||
		errors.Is(err, ogimage.ErrPageLoad) ||
		errors.Is(err, ogimage.ErrScreenshot) ||
		errors.Is(err, ogimage.ErrRendererClosed) {
		return ExitBrowser
	}

	// Remote API errors (exit 5)
	var apiErr *wolai.APIError
	var statusErr *github.StatusError
	if errors.As(err, &apiErr) ||
		errors.As(err, &statusErr) ||
		errors.Is(err, wolai.ErrToken) ||
		errors.Is(err, httpx.ErrRequest) ||
		errors.Is(err, httpx.ErrBodyTooLarge) {
		return ExitRemote
	}

	// Usage/config/content errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigInvalid) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, wolai.ErrMissingCredentials) ||
		errors.Is(err, wolai.ErrMissingDatabase) ||
		errors.Is(err, blog.ErrFrontMatter) ||
		errors.Is(err, blog.ErrInvalidDate) ||
		errors.Is(err, blog.ErrNotFound) ||
		errors.Is(err, ogimage.ErrInvalidCard) ||
		errors.Is(err, sitemap.ErrInvalidBaseURL) ||
		errors.Is(err, zerxsite.ErrEmptyMarkdown) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownStyle) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidPage) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, blog.ErrPostsDir) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	var statusErr *github.StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ogimage.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, ogimage.ErrPageLoad), errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(userConfigPaths())
	case errors.Is(err, ErrUnknownStyle):
		return hints.ForHighlightStyle(styles.Names())
	case errors.Is(err, wolai.ErrMissingCredentials), errors.Is(err, wolai.ErrToken):
		return hints.ForWolaiCredentials()
	case errors.As(err, &statusErr) &&
		(statusErr.Status == http.StatusForbidden || statusErr.Status == http.StatusTooManyRequests):
		return hints.ForGitHubRateLimit()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
