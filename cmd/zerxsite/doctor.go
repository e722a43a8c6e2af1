package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/zerx-lab/zerxsite/internal/config"
	"github.com/zerx-lab/zerxsite/internal/hints"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"`
	Chrome   chromeInfo  `json:"chrome"`
	Env      envInfo     `json:"environment"`
	Sources  sourcesInfo `json:"sources"`
	System   systemInfo  `json:"system"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Required bool   `json:"required"` // og.enabled
	Found    bool   `json:"found"`
	Path     string `json:"path,omitempty"`
	Version  string `json:"version,omitempty"`
	Sandbox  bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

// sourcesInfo reports which remote sources are configured.
type sourcesInfo struct {
	GitHubOwner string `json:"github_owner"`
	GitHubToken bool   `json:"github_token"`
	Wolai       bool   `json:"wolai"`
	WolaiCreds  bool   `json:"wolai_credentials"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool   `json:"temp_writable"`
	PostsDir     string `json:"posts_dir"`
	PostsFound   bool   `json:"posts_found"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad config.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	cfg, err := loadConfig(commonFlags{}, loadEnvConfig())
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}

	result := runDoctor(cfg)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(cfg *config.Config) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	checkConfig(result, cfg)
	checkChrome(result, cfg)
	checkEnvironment(result, cfg)
	checkSources(result, cfg)
	checkSystem(result, cfg)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}

	return result
}

// checkConfig reports validation problems without stopping the other checks.
func checkConfig(result *doctorResult, cfg *config.Config) {
	if err := finalizeConfig(cfg); err != nil {
		result.Errors = append(result.Errors, err.Error())
	}
}

// checkChrome detects Chrome/Chromium. A missing browser is an error only
// when OpenGraph images are enabled.
func checkChrome(result *doctorResult, cfg *config.Config) {
	result.Chrome.Required = cfg.OG.Enabled
	result.Chrome.Sandbox = !cfg.OG.NoSandbox
	report := func(msg string) {
		if cfg.OG.Enabled {
			result.Errors = append(result.Errors, msg)
		} else {
			result.Warnings = append(result.Warnings, msg+" (only needed for OpenGraph images)")
		}
	}

	chromePath := cfg.OG.BrowserBin
	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			report("Chrome/Chromium not found. Install Chrome or set " + hints.EnvBrowserBin)
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		report(fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	cmd := exec.Command(chromePath, "--version") // #nosec G204 -- browser path from config
	out, err := cmd.Output()
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, cfg *config.Config) {
	result.Env.Container, result.Env.ContainerHint = isContainer()
	result.Env.CI = hints.InCI()

	if cfg.OG.Enabled && (result.Env.Container || result.Env.CI) && !cfg.OG.NoSandbox {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but sandbox is enabled. Set "+hints.EnvNoSandbox+"=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("ZERXSITE_CONTAINER") == "1" {
		return true, "ZERXSITE_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSources reports remote source configuration.
func checkSources(result *doctorResult, cfg *config.Config) {
	result.Sources = sourcesInfo{
		GitHubOwner: cfg.GitHub.Owner,
		GitHubToken: cfg.GitHub.Token != "",
		Wolai:       cfg.Wolai.Enabled(),
		WolaiCreds:  cfg.Wolai.AppID != "" && cfg.Wolai.AppSecret != "",
	}

	if !result.Sources.GitHubToken {
		result.Warnings = append(result.Warnings,
			hints.EnvGitHubToken+" not set; the GitHub API allows 60 requests per hour")
	}
	if result.Sources.Wolai && !result.Sources.WolaiCreds {
		result.Errors = append(result.Errors,
			"wolai database configured without app credentials"+hints.ForWolaiCredentials())
	}
}

// checkSystem verifies the temp directory and the posts directory.
func checkSystem(result *doctorResult, cfg *config.Config) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "zerxsite-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}

	result.System.PostsDir = cfg.Content.PostsDir
	if info, err := os.Stat(cfg.Content.PostsDir); err == nil && info.IsDir() {
		result.System.PostsFound = true
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Posts directory %s not found", cfg.Content.PostsDir))
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "zerxsite doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled")
		}
	} else if r.Chrome.Required {
		fmt.Fprintln(w, "  [ERROR] Not found")
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Sources")
	fmt.Fprintf(w, "  [OK] GitHub owner: %s\n", r.Sources.GitHubOwner)
	if r.Sources.Wolai {
		fmt.Fprintln(w, "  [OK] wolai: enabled")
	} else {
		fmt.Fprintln(w, "  [OK] wolai: disabled")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	if r.System.PostsFound {
		fmt.Fprintf(w, "  [OK] Posts directory: %s\n", r.System.PostsDir)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to build")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
