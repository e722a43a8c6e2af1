package main

// Notes:
// - posts, og, config and github are driven through runMain with a config
//   file; the github API is an httptest server.
// - Remote wolai listing is covered by the blog and wolai packages.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zerx-lab/zerxsite/internal/blog"
	"github.com/zerx-lab/zerxsite/internal/config"
	"github.com/zerx-lab/zerxsite/internal/github"
)

// writeConfig writes a config file with postsDir pointing at posts.
func writeConfig(t *testing.T, posts, extra string) string {
	t.Helper()
	return writeFile(t, t.TempDir(), "site.yaml",
		fmt.Sprintf("content:\n  postsDir: %q\n  pageSize: 1\n%s", posts, extra))
}

// ---------------------------------------------------------------------------
// TestRunPosts - Paginated listing
// ---------------------------------------------------------------------------

func TestRunPosts(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfig(t, newPostsDir(t), "")

	t.Run("text listing", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv()
		if code := te.run("posts", "-c", cfgPath, "--no-wolai"); code != ExitSuccess {
			t.Fatalf("exit = %d, stderr: %s", code, te.stderr.String())
		}
		out := te.stdout.String()
		for _, want := range []string{"2024-06-01", "Second", "/blog/second", "Page 1 of 2 (2 posts), next: --page 2"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
		if strings.Contains(out, "Hello World") || strings.Contains(out, "Draft") {
			t.Errorf("unexpected entries on page 1:\n%s", out)
		}
	})

	t.Run("json second page", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv()
		if code := te.run("posts", "-c", cfgPath, "--no-wolai", "--json", "--page", "2"); code != ExitSuccess {
			t.Fatalf("exit = %d, stderr: %s", code, te.stderr.String())
		}
		var page blog.Page
		if err := json.Unmarshal(te.stdout.Bytes(), &page); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if page.Number != 2 || page.Total != 2 || page.HasMore {
			t.Errorf("page = %+v", page)
		}
		if len(page.Entries) != 1 || page.Entries[0].Title != "Hello World" {
			t.Errorf("entries = %+v", page.Entries)
		}
	})

	t.Run("past the end", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv()
		if code := te.run("posts", "-c", cfgPath, "--no-wolai", "--page", "9"); code != ExitSuccess {
			t.Fatalf("exit = %d", code)
		}
		if !strings.Contains(te.stdout.String(), "No posts on page 9 (2 total)") {
			t.Errorf("stdout = %q", te.stdout.String())
		}
	})

	t.Run("invalid page", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv()
		if code := te.run("posts", "-c", cfgPath, "--page", "0"); code != ExitUsage {
			t.Errorf("exit = %d, want %d", code, ExitUsage)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunOG - Site card rendering
// ---------------------------------------------------------------------------

func TestRunOG(t *testing.T) {
	t.Parallel()

	t.Run("writes png", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv()
		out := filepath.Join(t.TempDir(), "cards", "og.png")
		cfgPath := writeConfig(t, t.TempDir(), "")

		if code := te.run("og", "-c", cfgPath, "-o", out, "--title", "zerx.dev"); code != ExitSuccess {
			t.Fatalf("exit = %d, stderr: %s", code, te.stderr.String())
		}
		if got := readFile(t, out); got != string(fakePNG) {
			t.Errorf("png = %q", got)
		}
		if te.captures() != 1 {
			t.Errorf("captures = %d, want 1", te.captures())
		}
		if !strings.Contains(te.stdout.String(), "Created "+out) {
			t.Errorf("stdout = %q", te.stdout.String())
		}
	})

	t.Run("title too long", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv()
		cfgPath := writeConfig(t, t.TempDir(), "")
		code := te.run("og", "-c", cfgPath, "-o", filepath.Join(t.TempDir(), "og.png"), "--title", strings.Repeat("x", 500))

		if code != ExitUsage {
			t.Errorf("exit = %d, want %d", code, ExitUsage)
		}
		if te.captures() != 0 {
			t.Error("no capture expected for an invalid card")
		}
	})

	t.Run("browser failure", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv()
		te.captureErr = fmt.Errorf("boom")
		cfgPath := writeConfig(t, t.TempDir(), "")
		code := te.run("og", "-c", cfgPath, "-o", filepath.Join(t.TempDir(), "og.png"))

		if code == ExitSuccess {
			t.Error("expected a failure exit code")
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunConfig - Effective configuration
// ---------------------------------------------------------------------------

func TestRunConfig(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfig(t, "posts", "github:\n  token: ghp_secret\n")

	t.Run("redacts secrets", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv()
		if code := te.run("config", "-c", cfgPath); code != ExitSuccess {
			t.Fatalf("exit = %d, stderr: %s", code, te.stderr.String())
		}
		out := te.stdout.String()
		if strings.Contains(out, "ghp_secret") {
			t.Errorf("token leaked:\n%s", out)
		}
		if !strings.Contains(out, redacted) {
			t.Errorf("expected redacted marker:\n%s", out)
		}
		if !strings.Contains(out, "pageSize: 1") {
			t.Errorf("expected file values:\n%s", out)
		}
	})

	t.Run("show secrets", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv()
		if code := te.run("config", "-c", cfgPath, "--show-secrets"); code != ExitSuccess {
			t.Fatalf("exit = %d", code)
		}
		if !strings.Contains(te.stdout.String(), "ghp_secret") {
			t.Errorf("token missing:\n%s", te.stdout.String())
		}
	})

	t.Run("positional argument", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv()
		if code := te.run("config", "-c", cfgPath, "extra"); code != ExitUsage {
			t.Errorf("exit = %d, want %d", code, ExitUsage)
		}
	})
}

func TestRedactSecrets_KeepsEmpty(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	redactSecrets(cfg)
	if cfg.GitHub.Token != "" || cfg.Wolai.AppSecret != "" {
		t.Errorf("empty secrets should stay empty: %+v %+v", cfg.GitHub, cfg.Wolai)
	}
}

// ---------------------------------------------------------------------------
// TestRunGitHub - Dashboard data against a fake API
// ---------------------------------------------------------------------------

func newGitHubServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octo", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"public_repos": 2, "followers": 7}`)
	})
	mux.HandleFunc("/users/octo/repos", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[
			{"name": "site", "html_url": "https://github.com/octo/site", "stargazers_count": 5, "forks_count": 1, "language": "Go"},
			{"name": "dotfiles", "html_url": "https://github.com/octo/dotfiles", "stargazers_count": 0}
		]`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRunGitHub(t *testing.T) {
	t.Parallel()

	srv := newGitHubServer(t)
	cfgPath := writeConfig(t, "posts", fmt.Sprintf("github:\n  owner: octo\n  baseURL: %q\n  retries: 0\n", srv.URL))

	t.Run("data", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv()
		if code := te.run("github", "-c", cfgPath); code != ExitSuccess {
			t.Fatalf("exit = %d, stderr: %s", code, te.stderr.String())
		}
		var data github.Data
		if err := json.Unmarshal(te.stdout.Bytes(), &data); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(data.Repositories) != 1 || data.Repositories[0].Name != "site" {
			t.Errorf("repositories = %+v", data.Repositories)
		}
		if data.Stats.TotalStars != 5 || data.Stats.Followers != 7 {
			t.Errorf("stats = %+v", data.Stats)
		}
	})

	t.Run("stars", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv()
		if code := te.run("github", "-c", cfgPath, "--stars"); code != ExitSuccess {
			t.Fatalf("exit = %d, stderr: %s", code, te.stderr.String())
		}
		var stars map[string]github.RepoStars
		if err := json.NewDecoder(bytes.NewReader(te.stdout.Bytes())).Decode(&stars); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if stars["site"].Stars != 5 {
			t.Errorf("stars = %+v", stars)
		}
	})
}
