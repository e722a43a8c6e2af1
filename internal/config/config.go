package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/zerx-lab/zerxsite/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigInvalid   = errors.New("invalid config")
)

// AppName names the user config directory.
const AppName = "zerxsite"

// Field length limits.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 300
	MaxURLLength         = 2048
	MaxNameLength        = 100
)

// Log levels and formats accepted by LogConfig.
var (
	LogLevels  = []any{"trace", "debug", "info", "warn", "error", "fatal"}
	LogFormats = []any{"json", "console", "pretty"}
)

// Config holds all configuration for building the site.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Render  RenderConfig  `yaml:"render"`
	GitHub  GitHubConfig  `yaml:"github"`
	Wolai   WolaiConfig   `yaml:"wolai"`
	Log     LogConfig     `yaml:"log"`
	OG      OGConfig      `yaml:"og"`
}

// SiteConfig describes the published site.
type SiteConfig struct {
	URL         string `yaml:"url"` // Absolute base URL, no trailing slash
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
}

// ContentConfig locates local posts and the build output.
type ContentConfig struct {
	PostsDir  string `yaml:"postsDir"`
	OutputDir string `yaml:"outputDir"`
	PageSize  int    `yaml:"pageSize"` // Posts per index page
}

// RenderConfig tunes Markdown rendering.
type RenderConfig struct {
	HighlightStyle   string `yaml:"highlightStyle"`   // chroma style name
	HighlightTimeout string `yaml:"highlightTimeout"` // per code block, e.g. "5s"
	Workers          int    `yaml:"workers"`          // 0 = auto
}

// GitHubConfig configures the dashboard data source.
type GitHubConfig struct {
	Owner    string `yaml:"owner"`
	Token    string `yaml:"token"` // Optional, raises the rate limit
	BaseURL  string `yaml:"baseURL"`
	CacheTTL string `yaml:"cacheTTL"`
	Timeout  string `yaml:"timeout"`
	Retries  int    `yaml:"retries"`
}

// WolaiConfig configures the hosted notes source. Disabled when the
// database ID is empty.
type WolaiConfig struct {
	AppID      string `yaml:"appId"`
	AppSecret  string `yaml:"appSecret"`
	DatabaseID string `yaml:"databaseId"`
	BaseURL    string `yaml:"baseURL"`
	TokenTTL   string `yaml:"tokenTTL"`
	Timeout    string `yaml:"timeout"`
	Retries    int    `yaml:"retries"`
}

// LogConfig selects the diagnostic logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// OGConfig configures the OpenGraph card.
type OGConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Title      string `yaml:"title"`
	Subtitle   string `yaml:"subtitle"`
	BrowserBin string `yaml:"browserBin"` // Empty = rod managed browser
	NoSandbox  bool   `yaml:"noSandbox"`
	Timeout    string `yaml:"timeout"`
}

// Enabled reports whether notes should be fetched.
func (w WolaiConfig) Enabled() bool {
	return w.DatabaseID != ""
}

// Validate checks every section. Called automatically by LoadConfig, but
// available for callers who construct Config manually.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Site),
		validation.Field(&c.Content),
		validation.Field(&c.Render),
		validation.Field(&c.GitHub),
		validation.Field(&c.Wolai),
		validation.Field(&c.Log),
		validation.Field(&c.OG),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	return nil
}

// Validate implements validation.Validatable.
func (s SiteConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.URL, validation.Required, validation.Length(0, MaxURLLength), is.URL),
		validation.Field(&s.Title, validation.Length(0, MaxTitleLength)),
		validation.Field(&s.Description, validation.Length(0, MaxDescriptionLength)),
		validation.Field(&s.Author, validation.Length(0, MaxNameLength)),
	)
}

// Validate implements validation.Validatable.
func (c ContentConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.PageSize, validation.Required, validation.Min(1), validation.Max(100)),
	)
}

// Validate implements validation.Validatable.
func (r RenderConfig) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.HighlightTimeout, validation.By(positiveDuration)),
		validation.Field(&r.Workers, validation.Min(0)),
	)
}

// Validate implements validation.Validatable.
func (g GitHubConfig) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Owner, validation.Required, validation.Length(1, 39)),
		validation.Field(&g.BaseURL, validation.Required, is.URL),
		validation.Field(&g.CacheTTL, validation.By(positiveDuration)),
		validation.Field(&g.Timeout, validation.By(positiveDuration)),
		validation.Field(&g.Retries, validation.Min(0), validation.Max(10)),
	)
}

// Validate implements validation.Validatable.
func (w WolaiConfig) Validate() error {
	enabled := w.Enabled()
	return validation.ValidateStruct(&w,
		validation.Field(&w.AppID, validation.When(enabled, validation.Required)),
		validation.Field(&w.AppSecret, validation.When(enabled, validation.Required)),
		validation.Field(&w.BaseURL, validation.Required, is.URL),
		validation.Field(&w.TokenTTL, validation.By(positiveDuration)),
		validation.Field(&w.Timeout, validation.By(positiveDuration)),
		validation.Field(&w.Retries, validation.Min(0), validation.Max(10)),
	)
}

// Validate implements validation.Validatable.
func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In(LogLevels...)),
		validation.Field(&l.Format, validation.In(LogFormats...)),
	)
}

// Validate implements validation.Validatable.
func (o OGConfig) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Title, validation.When(o.Enabled, validation.Required), validation.Length(0, MaxTitleLength)),
		validation.Field(&o.Subtitle, validation.Length(0, MaxTitleLength)),
		validation.Field(&o.Timeout, validation.By(positiveDuration)),
	)
}

// positiveDuration accepts empty strings (default applies) and positive
// time.ParseDuration values.
func positiveDuration(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return errors.New("must be a duration such as 30s or 1h")
	}
	if d <= 0 {
		return errors.New("must be positive")
	}
	return nil
}

// Duration parses s, returning def when s is empty or invalid.
// Validate rejects invalid values before they reach here.
func Duration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// DefaultConfig returns the configuration of zerx.dev with remote sources
// disabled until credentials are provided.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			URL:         "https://zerx.dev",
			Title:       "ZERX_LAB",
			Description: "技术博客，分享全栈开发、开源项目和技术探索的心得。",
			Author:      "zerx-lab",
		},
		Content: ContentConfig{
			PostsDir:  "content/blog",
			OutputDir: "public",
			PageSize:  10,
		},
		Render: RenderConfig{
			HighlightStyle:   "github-dark",
			HighlightTimeout: "5s",
		},
		GitHub: GitHubConfig{
			Owner:    "zerx-lab",
			BaseURL:  "https://api.github.com",
			CacheTTL: "1h",
			Timeout:  "15s",
			Retries:  2,
		},
		Wolai: WolaiConfig{
			BaseURL:  "https://openapi.wolai.com/v1",
			TokenTTL: "24h",
			Timeout:  "15s",
			Retries:  2,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		OG: OGConfig{
			Title:    "zerx.dev",
			Subtitle: "全栈开发者 · Web Developer",
			Timeout:  "30s",
		},
	}
}

// ApplyDefaults fills empty string and zero numeric fields from
// DefaultConfig. Booleans are left as set.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()

	setString(&c.Site.URL, d.Site.URL)
	setString(&c.Site.Title, d.Site.Title)
	setString(&c.Site.Description, d.Site.Description)
	setString(&c.Site.Author, d.Site.Author)

	setString(&c.Content.PostsDir, d.Content.PostsDir)
	setString(&c.Content.OutputDir, d.Content.OutputDir)
	setInt(&c.Content.PageSize, d.Content.PageSize)

	setString(&c.Render.HighlightStyle, d.Render.HighlightStyle)
	setString(&c.Render.HighlightTimeout, d.Render.HighlightTimeout)

	setString(&c.GitHub.Owner, d.GitHub.Owner)
	setString(&c.GitHub.BaseURL, d.GitHub.BaseURL)
	setString(&c.GitHub.CacheTTL, d.GitHub.CacheTTL)
	setString(&c.GitHub.Timeout, d.GitHub.Timeout)
	setInt(&c.GitHub.Retries, d.GitHub.Retries)

	setString(&c.Wolai.BaseURL, d.Wolai.BaseURL)
	setString(&c.Wolai.TokenTTL, d.Wolai.TokenTTL)
	setString(&c.Wolai.Timeout, d.Wolai.Timeout)
	setInt(&c.Wolai.Retries, d.Wolai.Retries)

	setString(&c.Log.Level, d.Log.Level)
	setString(&c.Log.Format, d.Log.Format)

	setString(&c.OG.Title, d.OG.Title)
	setString(&c.OG.Subtitle, d.OG.Subtitle)
	setString(&c.OG.Timeout, d.OG.Timeout)
}

func setString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

func setInt(dst *int, def int) {
	if *dst == 0 {
		*dst = def
	}
}

// LoadConfig loads configuration from a file path or config name. Empty
// fields are filled from DefaultConfig, so a file only lists the values it
// overrides.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	f, err := os.Open(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	defer f.Close()

	cfg := &Config{}
	if err := yamlutil.ReadStrict(f, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/zerxsite/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppName, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
