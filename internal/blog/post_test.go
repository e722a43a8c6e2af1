package blog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writePost(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

// ---------------------------------------------------------------------------
// TestParsePost - Front matter and fallbacks
// ---------------------------------------------------------------------------

func TestParsePost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		path      string
		source    string
		wantSlug  string
		wantTitle string
		wantDate  time.Time
		wantTags  []string
		wantDraft bool
	}{
		{
			name: "full front matter",
			path: "posts/ignored-name.md",
			source: "---\ntitle: Hello World\ndescription: First post\nslug: Custom Slug\n" +
				"date: \"2025-06-01\"\ntags: [go, \" web \", \"\"]\n---\n# Heading\n\nBody\n",
			wantSlug:  "custom-slug",
			wantTitle: "Hello World",
			wantDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			wantTags:  []string{"go", "web"},
		},
		{
			name:      "slug from file name",
			path:      "posts/My First Post.mdx",
			source:    "---\ntitle: T\n---\nbody",
			wantSlug:  "my-first-post",
			wantTitle: "T",
		},
		{
			name:      "title from first heading outside fences",
			path:      "notes.md",
			source:    "```md\n# not this\n```\n\n# Real Title\n",
			wantSlug:  "notes",
			wantTitle: "Real Title",
		},
		{
			name:      "title falls back to slug",
			path:      "untitled.md",
			source:    "just text",
			wantSlug:  "untitled",
			wantTitle: "untitled",
		},
		{
			name:      "draft flag",
			path:      "wip.md",
			source:    "---\ntitle: WIP\ndraft: true\n---\n",
			wantSlug:  "wip",
			wantTitle: "WIP",
			wantDraft: true,
		},
		{
			name:      "datetime layout",
			path:      "timed.md",
			source:    "---\ntitle: Timed\ndate: \"2025-06-01 10:30\"\n---\n",
			wantSlug:  "timed",
			wantTitle: "Timed",
			wantDate:  time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := ParsePost(tt.path, []byte(tt.source))
			if err != nil {
				t.Fatalf("ParsePost() error = %v", err)
			}
			if p.Slug != tt.wantSlug {
				t.Errorf("Slug = %q, want %q", p.Slug, tt.wantSlug)
			}
			if p.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", p.Title, tt.wantTitle)
			}
			if !p.Date.Equal(tt.wantDate) {
				t.Errorf("Date = %v, want %v", p.Date, tt.wantDate)
			}
			if p.Draft != tt.wantDraft {
				t.Errorf("Draft = %v, want %v", p.Draft, tt.wantDraft)
			}
			if len(p.Tags) != len(tt.wantTags) {
				t.Fatalf("Tags = %v, want %v", p.Tags, tt.wantTags)
			}
			for i := range tt.wantTags {
				if p.Tags[i] != tt.wantTags[i] {
					t.Errorf("Tags[%d] = %q, want %q", i, p.Tags[i], tt.wantTags[i])
				}
			}
		})
	}
}

func TestParsePost_BodyExcludesFrontMatter(t *testing.T) {
	t.Parallel()

	p, err := ParsePost("a.md", []byte("---\ntitle: A\n---\n## Section\n"))
	if err != nil {
		t.Fatalf("ParsePost() error = %v", err)
	}
	if p.Body != "## Section\n" {
		t.Errorf("Body = %q", p.Body)
	}
}

func TestParsePost_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		source  string
		wantErr error
	}{
		{"bad yaml", "---\ntitle: [unclosed\n---\n", ErrFrontMatter},
		{"bad date", "---\ntitle: A\ndate: yesterday\n---\n", ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := ParsePost("x.md", []byte(tt.source)); !errors.Is(err, tt.wantErr) {
				t.Errorf("ParsePost() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLoadDir - Directory scanning
// ---------------------------------------------------------------------------

func TestLoadDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePost(t, dir, "old.md", "---\ntitle: Old\ndate: \"2024-01-01\"\n---\nold")
	writePost(t, dir, "new.mdx", "---\ntitle: New\ndate: \"2025-01-01\"\n---\nnew")
	writePost(t, dir, "undated.md", "# Undated\n")
	writePost(t, dir, "draft.md", "---\ntitle: Draft\ndraft: true\n---\n")
	writePost(t, dir, "notes.txt", "ignored")
	if err := os.Mkdir(filepath.Join(dir, "images.md"), 0o755); err != nil {
		t.Fatal(err)
	}

	posts, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}

	want := []string{"new", "old", "undated"}
	if len(posts) != len(want) {
		t.Fatalf("LoadDir() returned %d posts, want %d", len(posts), len(want))
	}
	for i, slug := range want {
		if posts[i].Slug != slug {
			t.Errorf("posts[%d].Slug = %q, want %q", i, posts[i].Slug, slug)
		}
	}
	if posts[0].Path != filepath.Join(dir, "new.mdx") {
		t.Errorf("Path = %q", posts[0].Path)
	}
}

func TestLoadDir_DuplicateSlug(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePost(t, dir, "a.md", "---\nslug: same\n---\n")
	writePost(t, dir, "b.md", "---\nslug: same\n---\n")

	if _, err := LoadDir(dir); err == nil {
		t.Fatal("LoadDir() expected duplicate slug error")
	}
}

func TestLoadDir_MissingDir(t *testing.T) {
	t.Parallel()

	_, err := LoadDir(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, ErrPostsDir) {
		t.Errorf("LoadDir() error = %v, want ErrPostsDir", err)
	}
}

func TestSortPosts_TiesBySlug(t *testing.T) {
	t.Parallel()

	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	posts := []Post{{Slug: "b", Date: day}, {Slug: "z"}, {Slug: "a", Date: day}, {Slug: "c"}}
	SortPosts(posts)

	want := []string{"a", "b", "c", "z"}
	for i, slug := range want {
		if posts[i].Slug != slug {
			t.Errorf("posts[%d] = %q, want %q", i, posts[i].Slug, slug)
		}
	}
}
