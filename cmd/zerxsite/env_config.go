package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/zerx-lab/zerxsite/internal/config"
	"github.com/zerx-lab/zerxsite/internal/hints"
)

// envPrefix marks the variables owned by this tool.
const envPrefix = "ZERXSITE_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Site
	ConfigPath string // ZERXSITE_CONFIG: config file name or path
	SiteURL    string // ZERXSITE_SITE_URL: absolute base URL
	PostsDir   string // ZERXSITE_POSTS_DIR: local posts directory
	OutputDir  string // ZERXSITE_OUTPUT_DIR: build output directory
	Workers    int    // ZERXSITE_WORKERS: parallel workers

	// Rendering and logs
	HighlightStyle string // ZERXSITE_HIGHLIGHT_STYLE: chroma style name
	LogLevel       string // ZERXSITE_LOG_LEVEL: trace..fatal
	LogFormat      string // ZERXSITE_LOG_FORMAT: json, console, pretty

	// OpenGraph card. Booleans can only switch features on.
	OGEnabled    bool   // ZERXSITE_OG_ENABLED
	OGBrowserBin string // ZERXSITE_OG_BROWSER_BIN
	OGNoSandbox  bool   // ZERXSITE_OG_NO_SANDBOX
	OGTimeout    string // ZERXSITE_OG_TIMEOUT

	// Remote sources, named like the hosting providers document them
	GitHubOwner     string // ZERXSITE_GITHUB_OWNER
	GitHubToken     string // GITHUB_TOKEN
	WolaiAppID      string // WOLAI_APP_ID
	WolaiAppSecret  string // WOLAI_APP_SECRET
	WolaiDatabaseID string // WOLAI_DATABASE_ID
}

// knownEnvVars lists valid ZERXSITE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"ZERXSITE_CONFIG":          true,
	"ZERXSITE_SITE_URL":        true,
	"ZERXSITE_POSTS_DIR":       true,
	"ZERXSITE_OUTPUT_DIR":      true,
	"ZERXSITE_WORKERS":         true,
	"ZERXSITE_HIGHLIGHT_STYLE": true,
	"ZERXSITE_LOG_LEVEL":       true,
	"ZERXSITE_LOG_FORMAT":      true,
	"ZERXSITE_OG_ENABLED":      true,
	hints.EnvBrowserBin:        true,
	hints.EnvNoSandbox:         true,
	"ZERXSITE_OG_TIMEOUT":      true,
	"ZERXSITE_GITHUB_OWNER":    true,
	"ZERXSITE_CONTAINER":       true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:      os.Getenv("ZERXSITE_CONFIG"),
		SiteURL:         os.Getenv("ZERXSITE_SITE_URL"),
		PostsDir:        os.Getenv("ZERXSITE_POSTS_DIR"),
		OutputDir:       os.Getenv("ZERXSITE_OUTPUT_DIR"),
		HighlightStyle:  os.Getenv("ZERXSITE_HIGHLIGHT_STYLE"),
		LogLevel:        os.Getenv("ZERXSITE_LOG_LEVEL"),
		LogFormat:       os.Getenv("ZERXSITE_LOG_FORMAT"),
		OGEnabled:       envBool("ZERXSITE_OG_ENABLED"),
		OGBrowserBin:    os.Getenv(hints.EnvBrowserBin),
		OGNoSandbox:     envBool(hints.EnvNoSandbox),
		OGTimeout:       os.Getenv("ZERXSITE_OG_TIMEOUT"),
		GitHubOwner:     os.Getenv("ZERXSITE_GITHUB_OWNER"),
		GitHubToken:     os.Getenv(hints.EnvGitHubToken),
		WolaiAppID:      os.Getenv(hints.EnvWolaiAppID),
		WolaiAppSecret:  os.Getenv(hints.EnvWolaiSecret),
		WolaiDatabaseID: os.Getenv("WOLAI_DATABASE_ID"),
	}

	if workers := os.Getenv("ZERXSITE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// envBool reports whether name holds a true value ("1", "true", ...).
func envBool(name string) bool {
	v, err := strconv.ParseBool(os.Getenv(name))
	return err == nil && v
}

// warnUnknownEnvVars logs warnings for unrecognized ZERXSITE_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides config values with every environment variable
// that is set. Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setIfNotEmpty(&cfg.Site.URL, env.SiteURL)
	setIfNotEmpty(&cfg.Content.PostsDir, env.PostsDir)
	setIfNotEmpty(&cfg.Content.OutputDir, env.OutputDir)
	if env.Workers > 0 {
		cfg.Render.Workers = env.Workers
	}

	setIfNotEmpty(&cfg.Render.HighlightStyle, env.HighlightStyle)
	setIfNotEmpty(&cfg.Log.Level, env.LogLevel)
	setIfNotEmpty(&cfg.Log.Format, env.LogFormat)

	if env.OGEnabled {
		cfg.OG.Enabled = true
	}
	setIfNotEmpty(&cfg.OG.BrowserBin, env.OGBrowserBin)
	if env.OGNoSandbox {
		cfg.OG.NoSandbox = true
	}
	setIfNotEmpty(&cfg.OG.Timeout, env.OGTimeout)

	setIfNotEmpty(&cfg.GitHub.Owner, env.GitHubOwner)
	setIfNotEmpty(&cfg.GitHub.Token, env.GitHubToken)
	setIfNotEmpty(&cfg.Wolai.AppID, env.WolaiAppID)
	setIfNotEmpty(&cfg.Wolai.AppSecret, env.WolaiAppSecret)
	setIfNotEmpty(&cfg.Wolai.DatabaseID, env.WolaiDatabaseID)
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
