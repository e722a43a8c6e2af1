package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	flag "github.com/spf13/pflag"

	"github.com/zerx-lab/zerxsite"
	"github.com/zerx-lab/zerxsite/internal/blog"
	"github.com/zerx-lab/zerxsite/internal/cache"
	"github.com/zerx-lab/zerxsite/internal/config"
	"github.com/zerx-lab/zerxsite/internal/fileutil"
	"github.com/zerx-lab/zerxsite/internal/github"
	"github.com/zerx-lab/zerxsite/internal/httpx"
	"github.com/zerx-lab/zerxsite/internal/logging"
	"github.com/zerx-lab/zerxsite/internal/logging/gologger"
	"github.com/zerx-lab/zerxsite/internal/ogimage"
	"github.com/zerx-lab/zerxsite/internal/wolai"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrReadMarkdown       = errors.New("failed to read markdown file")
	ErrWriteOutput        = errors.New("failed to write output")
	ErrUnknownStyle       = errors.New("unknown highlight style")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidPage        = errors.New("invalid page number")
	ErrBuildFailed        = errors.New("build failed")
)

// maxWorkers caps --workers. Each OG worker owns a Chrome instance.
const maxWorkers = 32

// flagError classifies a pflag parse error. Help requests pass through.
func flagError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// loadConfig builds the configuration from defaults, the optional config
// file and the environment. Callers merge their flags, then finalizeConfig.
func loadConfig(common commonFlags, env *envConfig) (*config.Config, error) {
	name := common.config
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}

// finalizeConfig validates cfg after every override was applied.
func finalizeConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return validateStyle(cfg.Render.HighlightStyle)
}

// validateStyle rejects chroma style names that would silently fall back.
func validateStyle(name string) error {
	if _, ok := styles.Registry[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStyle, name)
	}
	return nil
}

// validateWorkers checks the --workers range (0 = auto).
func validateWorkers(n int) error {
	if n < 0 || n > maxWorkers {
		return fmt.Errorf("%w: %d (allowed 0-%d)", ErrInvalidWorkerCount, n, maxWorkers)
	}
	return nil
}

// userConfigPaths lists where a named config is looked up outside the
// working directory.
func userConfigPaths() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, config.AppName, "config.yaml")}
}

// newLogging creates the diagnostic logger provider. --verbose and --quiet
// override log.level.
func newLogging(cfg *config.Config, common commonFlags) (logging.Provider, error) {
	level := cfg.Log.Level
	switch {
	case common.verbose:
		level = "debug"
	case common.quiet:
		level = "error"
	}
	return gologger.NewProvider(gologger.Config{
		Level:  level,
		Format: cfg.Log.Format,
	})
}

// newRenderer creates the restricted renderer used for hosted articles and
// the render command.
func newRenderer(cfg *config.Config) *zerxsite.Renderer {
	return zerxsite.NewRenderer(
		zerxsite.WithHighlightStyle(cfg.Render.HighlightStyle),
		zerxsite.WithHighlightTimeout(config.Duration(cfg.Render.HighlightTimeout, zerxsite.DefaultHighlightTimeout)),
		zerxsite.WithHighlightConcurrency(zerxsite.ResolvePoolSize(cfg.Render.Workers)),
	)
}

// newHTTPClient creates a retrying JSON client for one remote source.
func newHTTPClient(timeout string, retries int, provider logging.Provider) *httpx.Client {
	return httpx.New(
		httpx.WithTimeout(config.Duration(timeout, httpx.DefaultTimeout)),
		httpx.WithRetries(retries),
		httpx.WithLogger(logging.ModuleLogger(provider, logging.HTTPModule)),
	)
}

// newGitHubClient creates the dashboard data client.
func newGitHubClient(cfg *config.Config, provider logging.Provider) *github.Client {
	ttl := config.Duration(cfg.GitHub.CacheTTL, github.DefaultCacheTTL)
	return github.NewClient(cfg.GitHub.Owner,
		github.WithBaseURL(cfg.GitHub.BaseURL),
		github.WithToken(cfg.GitHub.Token),
		github.WithHTTPClient(newHTTPClient(cfg.GitHub.Timeout, cfg.GitHub.Retries, provider)),
		github.WithCache(cache.New[github.Data](ttl)),
		github.WithLogger(logging.ModuleLogger(provider, logging.GitHubModule)),
	)
}

// newWolaiClient creates the hosted notes client, or nil when no database
// is configured.
func newWolaiClient(cfg *config.Config, provider logging.Provider) *wolai.Client {
	if !cfg.Wolai.Enabled() {
		return nil
	}
	ttl := config.Duration(cfg.Wolai.TokenTTL, wolai.DefaultTokenTTL)
	return wolai.NewClient(
		wolai.Credentials{AppID: cfg.Wolai.AppID, AppSecret: cfg.Wolai.AppSecret},
		wolai.WithBaseURL(cfg.Wolai.BaseURL),
		wolai.WithHTTPClient(newHTTPClient(cfg.Wolai.Timeout, cfg.Wolai.Retries, provider)),
		wolai.WithTokenCache(cache.New[string](ttl)),
		wolai.WithLogger(logging.ModuleLogger(provider, logging.WolaiModule)),
	)
}

// newBlogService wires local posts and, when wc is non-nil, hosted articles.
func newBlogService(cfg *config.Config, provider logging.Provider, wc *wolai.Client) *blog.Service {
	opts := []blog.ServiceOption{
		blog.WithRenderer(newRenderer(cfg)),
		blog.WithConverter(zerxsite.NewPostConverter(zerxsite.WithPostHighlightStyle(cfg.Render.HighlightStyle))),
		blog.WithLogger(logging.ModuleLogger(provider, logging.BlogModule)),
	}
	if wc != nil {
		opts = append(opts, blog.WithArticles(wc, cfg.Wolai.DatabaseID))
	}
	return blog.NewService(cfg.Content.PostsDir, opts...)
}

// newOGPool creates a lazy pool of n card renderers.
func newOGPool(cfg *config.Config, env *Environment, n int) *ogimage.Pool {
	opts := ogimage.BrowserOptions{
		Bin:       cfg.OG.BrowserBin,
		NoSandbox: cfg.OG.NoSandbox,
		Timeout:   config.Duration(cfg.OG.Timeout, ogimage.DefaultTimeout),
	}
	return ogimage.NewPool(n, func() *ogimage.Renderer {
		return ogimage.NewRenderer(env.NewCapturer(opts))
	})
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if err := fileutil.WriteFile(path, data); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// truncateRunes shortens s to at most n runes, ending with an ellipsis when
// cut.
func truncateRunes(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
