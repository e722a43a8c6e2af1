// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/zerx-lab/zerxsite/internal/fileutil"
)

// Environment variables referenced by hints.
const (
	EnvNoSandbox   = "ZERXSITE_OG_NO_SANDBOX"
	EnvBrowserBin  = "ZERXSITE_OG_BROWSER_BIN"
	EnvGitHubToken = "GITHUB_TOKEN"
	EnvWolaiAppID  = "WOLAI_APP_ID"
	EnvWolaiSecret = "WOLAI_APP_SECRET"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// InCI reports whether a common CI provider variable is set.
func InCI() bool {
	return os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	if (InCI() || IsInContainer()) && os.Getenv(EnvNoSandbox) != "1" {
		hints = append(hints, "set "+EnvNoSandbox+"=1 for Docker/CI")
	}

	if os.Getenv(EnvBrowserBin) == "" {
		hints = append(hints, "set "+EnvBrowserBin+" to use a local Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about raising timeouts for slow operations.
func ForTimeout() string {
	return format("raise og.timeout or the source timeout in the config file")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepathSlash(p), "/zerxsite/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForHighlightStyle returns hints for unknown chroma style names.
func ForHighlightStyle(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForWolaiCredentials returns hints for missing or rejected wolai credentials.
func ForWolaiCredentials() string {
	var missing []string
	if os.Getenv(EnvWolaiAppID) == "" {
		missing = append(missing, EnvWolaiAppID)
	}
	if os.Getenv(EnvWolaiSecret) == "" {
		missing = append(missing, EnvWolaiSecret)
	}
	if len(missing) == 0 {
		return format("check the app credentials in the wolai developer console")
	}
	return format("set " + strings.Join(missing, " and ") + " (a .env file works)")
}

// ForGitHubRateLimit returns a hint for 403/429 answers from the GitHub API.
func ForGitHubRateLimit() string {
	if os.Getenv(EnvGitHubToken) != "" {
		return format("rate limit reached even with " + EnvGitHubToken + "; retry later")
	}
	return format("set " + EnvGitHubToken + " to raise the API rate limit")
}

func filepathSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
