// Package blog loads local posts, merges them with hosted articles, and
// renders them for publishing.
package blog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/goliatone/go-slug"

	"github.com/zerx-lab/zerxsite/internal/fileutil"
	"github.com/zerx-lab/zerxsite/internal/pipeline"
	"github.com/zerx-lab/zerxsite/internal/yamlutil"
)

// Post extensions read by LoadDir.
var Extensions = []string{".md", ".mdx"}

// Sentinel errors.
var (
	ErrPostsDir    = errors.New("cannot read posts directory")
	ErrFrontMatter = errors.New("invalid front matter")
	ErrInvalidDate = errors.New("invalid post date")
)

var yamlFrontMatter = frontmatter.NewFormat("---", "---", yamlutil.UnmarshalLenient)

// Accepted front matter date layouts.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01-02 15:04:05 -0700 MST",
}

// Meta is the front matter of a local post.
type Meta struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Slug        string   `yaml:"slug"`
	Date        string   `yaml:"date"`
	Tags        []string `yaml:"tags"`
	Draft       bool     `yaml:"draft"`
}

// Post is a local Markdown post.
type Post struct {
	Slug        string
	Title       string
	Description string
	Date        time.Time
	Tags        []string
	Draft       bool
	Path        string
	Body        string
}

// ParsePost reads front matter and body from source. path names the file
// for the slug fallback and error messages.
func ParsePost(path string, source []byte) (Post, error) {
	var meta Meta
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta, yamlFrontMatter)
	if err != nil {
		return Post{}, fmt.Errorf("%w: %s: %v", ErrFrontMatter, path, err)
	}

	p := Post{
		Title:       strings.TrimSpace(meta.Title),
		Description: strings.TrimSpace(meta.Description),
		Tags:        cleanTags(meta.Tags),
		Draft:       meta.Draft,
		Path:        path,
		Body:        string(body),
	}

	if meta.Date != "" {
		d, err := parseDate(meta.Date)
		if err != nil {
			return Post{}, fmt.Errorf("%w: %s: %q", ErrInvalidDate, path, meta.Date)
		}
		p.Date = d
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	p.Slug = postSlug(meta.Slug, base)

	if p.Title == "" {
		p.Title = firstHeading(p.Body)
	}
	if p.Title == "" {
		p.Title = p.Slug
	}
	return p, nil
}

// LoadDir reads every post file directly under dir, skipping drafts.
// Posts are ordered newest first, undated posts last, then by slug.
func LoadDir(dir string) ([]Post, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPostsDir, err)
	}

	var posts []Post
	seen := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || !fileutil.HasExtension(e.Name(), Extensions...) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path) // #nosec G304 -- path comes from a directory listing
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		p, err := ParsePost(path, data)
		if err != nil {
			return nil, err
		}
		if p.Draft {
			continue
		}
		if prev, dup := seen[p.Slug]; dup {
			return nil, fmt.Errorf("duplicate slug %q in %s and %s", p.Slug, prev, path)
		}
		seen[p.Slug] = path
		posts = append(posts, p)
	}

	SortPosts(posts)
	return posts, nil
}

// SortPosts orders posts newest first, undated last, ties by slug.
func SortPosts(posts []Post) {
	slices.SortStableFunc(posts, func(a, b Post) int {
		switch {
		case a.Date.IsZero() && !b.Date.IsZero():
			return 1
		case !a.Date.IsZero() && b.Date.IsZero():
			return -1
		case a.Date.After(b.Date):
			return -1
		case a.Date.Before(b.Date):
			return 1
		}
		return strings.Compare(a.Slug, b.Slug)
	})
}

// postSlug normalizes the front matter slug, or the file name when absent.
func postSlug(explicit, base string) string {
	raw := strings.TrimSpace(explicit)
	if raw == "" {
		raw = base
	}
	if s, err := slug.Normalize(raw); err == nil && s != "" {
		return s
	}
	if s := pipeline.Slugify(raw); s != "" {
		return s
	}
	return "post"
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

func cleanTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// firstHeading returns the text of the first "# " line outside code fences.
func firstHeading(body string) string {
	inFence := false
	for line := range strings.SplitSeq(body, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, "```") {
			inFence = !inFence
			continue
		}
		if !inFence && strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return ""
}
