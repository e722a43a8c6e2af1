package blog

import (
	"time"
)

// PageSize is the number of entries per index page.
const PageSize = 10

// Entry sources.
const (
	SourceLocal = "local"
	SourceWolai = "wolai"
)

// Entry is one row of the merged blog index.
type Entry struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	URL         string     `json:"url"`
	Date        *time.Time `json:"date,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Source      string     `json:"source"`
}

// Page is a slice of the index.
type Page struct {
	Entries []Entry `json:"entries"`
	Number  int     `json:"page"`
	Total   int     `json:"total"`
	HasMore bool    `json:"hasMore"`
}

// LocalEntry builds the index row of a local post.
func LocalEntry(p Post) Entry {
	e := Entry{
		ID:          p.Slug,
		Title:       p.Title,
		Description: p.Description,
		URL:         "/blog/" + p.Slug,
		Tags:        p.Tags,
		Source:      SourceLocal,
	}
	if !p.Date.IsZero() {
		d := p.Date
		e.Date = &d
	}
	return e
}

// Paginate returns page n (1-based) of entries with size entries per page.
// Out-of-range pages are empty.
func Paginate(entries []Entry, n, size int) Page {
	if size < 1 {
		size = PageSize
	}
	if n < 1 {
		n = 1
	}
	p := Page{Number: n, Total: len(entries), Entries: []Entry{}}

	start := (n - 1) * size
	if start >= len(entries) {
		return p
	}
	end := min(start+size, len(entries))
	p.Entries = entries[start:end]
	p.HasMore = end < len(entries)
	return p
}

// Find returns the entry with the given id.
func Find(entries []Entry, id string) (Entry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}
