// Package sitemap writes sitemap.xml for the site.
package sitemap

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Namespace is the sitemap protocol namespace.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Change frequencies used by the site.
const (
	Monthly = "monthly"
	Weekly  = "weekly"
)

// ErrInvalidBaseURL is returned for a base URL without scheme or host.
var ErrInvalidBaseURL = errors.New("invalid sitemap base url")

// Entry is one <url> element.
type Entry struct {
	Loc          string
	LastModified time.Time
	ChangeFreq   string
	Priority     float64
}

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []xmlURL `xml:"url"`
}

type xmlURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Builder collects site pages under a base URL.
type Builder struct {
	base    string
	now     time.Time
	entries []Entry
}

// New creates a Builder for baseURL. now stamps entries without a date.
func New(baseURL string, now time.Time) (*Builder, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}
	return &Builder{base: strings.TrimRight(u.String(), "/"), now: now}, nil
}

// Add appends a page at path with the given frequency and priority.
// A zero modified time uses the builder's now.
func (b *Builder) Add(path string, modified time.Time, freq string, priority float64) {
	if modified.IsZero() {
		modified = b.now
	}
	b.entries = append(b.entries, Entry{
		Loc:          b.base + normalizePath(path),
		LastModified: modified,
		ChangeFreq:   freq,
		Priority:     priority,
	})
}

// AddSitePages adds the fixed pages: home, blog index, and about.
func (b *Builder) AddSitePages() {
	b.Add("", time.Time{}, Monthly, 1.0)
	b.Add("/blog", time.Time{}, Weekly, 0.9)
	b.Add("/about", time.Time{}, Monthly, 0.7)
}

// AddPost adds a blog post page.
func (b *Builder) AddPost(path string, modified time.Time) {
	b.Add(path, modified, Weekly, 0.8)
}

// Entries returns the collected entries in insertion order.
func (b *Builder) Entries() []Entry {
	return b.entries
}

// WriteTo encodes the sitemap to w.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	set := urlset{XMLNS: Namespace, URLs: make([]xmlURL, 0, len(b.entries))}
	for _, e := range b.entries {
		set.URLs = append(set.URLs, xmlURL{
			Loc:        e.Loc,
			LastMod:    e.LastModified.UTC().Format(time.RFC3339),
			ChangeFreq: e.ChangeFreq,
			Priority:   strconv.FormatFloat(e.Priority, 'f', 1, 64),
		})
	}

	cw := &countingWriter{w: w}
	if _, err := io.WriteString(cw, xml.Header); err != nil {
		return cw.n, err
	}
	enc := xml.NewEncoder(cw)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return cw.n, fmt.Errorf("encoding sitemap: %w", err)
	}
	if _, err := io.WriteString(cw, "\n"); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// Bytes returns the encoded sitemap.
func (b *Builder) Bytes() ([]byte, error) {
	var sb strings.Builder
	if _, err := b.WriteTo(&sb); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// normalizePath makes path absolute and escapes each segment.
// The root path maps to the bare base URL.
func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Path: p}).EscapedPath()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
