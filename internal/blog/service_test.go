package blog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/zerx-lab/zerxsite"
	"github.com/zerx-lab/zerxsite/internal/wolai"
)

type fakeArticles struct {
	articles   []wolai.Article
	content    map[string]string
	listErr    error
	contentErr error
}

func (f *fakeArticles) Articles(_ context.Context, databaseID string) ([]wolai.Article, error) {
	if databaseID != "db" {
		return nil, wolai.ErrMissingDatabase
	}
	return f.articles, f.listErr
}

func (f *fakeArticles) ArticleContent(_ context.Context, id string) (string, error) {
	if f.contentErr != nil {
		return "", f.contentErr
	}
	return f.content[id], nil
}

func newServiceDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writePost(t, dir, "hello.md", "---\ntitle: Hello\ndate: \"2025-05-05\"\n---\n## Intro\n\n![cover](cover.png)\n")
	return dir
}

func TestService_IndexMergesSources(t *testing.T) {
	t.Parallel()

	src := &fakeArticles{articles: []wolai.Article{{ID: "w1", Title: "Hosted", Tags: []string{"notes"}}}}
	svc := NewService(newServiceDir(t), WithArticles(src, " db "))

	idx, err := svc.Index(context.Background())
	if err != nil {
		t.Fatalf("Index() error = %v", err)
	}
	if len(idx.Entries) != 2 {
		t.Fatalf("Entries = %+v", idx.Entries)
	}
	if idx.Entries[0].Source != SourceLocal || idx.Entries[1].Source != SourceWolai {
		t.Errorf("sources = %q, %q", idx.Entries[0].Source, idx.Entries[1].Source)
	}
	if idx.Entries[1].URL != "/blog/wolai/w1" {
		t.Errorf("hosted URL = %q", idx.Entries[1].URL)
	}
	if p := idx.Page(1, 0); p.Total != 2 || p.HasMore {
		t.Errorf("Page(1) = %+v", p)
	}
}

func TestIndex_PageUsesGivenSize(t *testing.T) {
	t.Parallel()

	src := &fakeArticles{articles: []wolai.Article{{ID: "w1", Title: "Hosted"}}}
	idx, err := NewService(newServiceDir(t), WithArticles(src, "db")).Index(context.Background())
	if err != nil {
		t.Fatalf("Index() error = %v", err)
	}

	first := idx.Page(1, 1)
	if len(first.Entries) != 1 || !first.HasMore || first.Entries[0].Source != SourceLocal {
		t.Errorf("Page(1, 1) = %+v", first)
	}
	second := idx.Page(2, 1)
	if len(second.Entries) != 1 || second.HasMore || second.Entries[0].ID != "w1" {
		t.Errorf("Page(2, 1) = %+v", second)
	}
}

func TestService_IndexToleratesHostedFailure(t *testing.T) {
	t.Parallel()

	src := &fakeArticles{listErr: errors.New("api down")}
	svc := NewService(newServiceDir(t), WithArticles(src, "db"))

	idx, err := svc.Index(context.Background())
	if err != nil {
		t.Fatalf("Index() error = %v", err)
	}
	if len(idx.Entries) != 1 {
		t.Errorf("Entries = %+v, want local only", idx.Entries)
	}
}

func TestService_IndexWithoutDatabaseSkipsHosted(t *testing.T) {
	t.Parallel()

	src := &fakeArticles{articles: []wolai.Article{{ID: "w1", Title: "Hosted"}}}
	svc := NewService(newServiceDir(t), WithArticles(src, ""))

	idx, err := svc.Index(context.Background())
	if err != nil {
		t.Fatalf("Index() error = %v", err)
	}
	if len(idx.Entries) != 1 {
		t.Errorf("Entries = %+v, want local only", idx.Entries)
	}
}

func TestService_RenderLocal(t *testing.T) {
	t.Parallel()

	svc := NewService(newServiceDir(t))
	idx, err := svc.Index(context.Background())
	if err != nil {
		t.Fatalf("Index() error = %v", err)
	}

	r, err := svc.RenderID(context.Background(), idx, "hello")
	if err != nil {
		t.Fatalf("RenderID() error = %v", err)
	}
	if !strings.Contains(r.HTML, `id="intro"`) {
		t.Errorf("HTML missing heading id: %s", r.HTML)
	}
	if !strings.Contains(r.HTML, `src="/blog/hello/cover.png"`) {
		t.Errorf("HTML image not rewritten: %s", r.HTML)
	}
	if len(r.Assets) != 1 || r.Assets[0] != "cover.png" {
		t.Errorf("Assets = %v, want [cover.png]", r.Assets)
	}
	if len(r.TOC) != 1 || r.TOC[0].URL != "#intro" {
		t.Errorf("TOC = %+v", r.TOC)
	}
	if r.Source == nil || r.Source.Slug != "hello" {
		t.Errorf("Source = %+v", r.Source)
	}
}

func TestService_RenderHosted(t *testing.T) {
	t.Parallel()

	src := &fakeArticles{
		articles: []wolai.Article{{ID: "w1", Title: "Hosted"}},
		content:  map[string]string{"w1": "## Setup\n\n- a\n- b\n"},
	}
	noHighlight := zerxsite.NewRenderer(zerxsite.WithHighlighter(nil))
	svc := NewService(t.TempDir(), WithArticles(src, "db"), WithRenderer(noHighlight))

	idx, err := svc.Index(context.Background())
	if err != nil {
		t.Fatalf("Index() error = %v", err)
	}
	r, err := svc.RenderID(context.Background(), idx, "w1")
	if err != nil {
		t.Fatalf("RenderID() error = %v", err)
	}
	if !strings.Contains(r.HTML, `<h2 id="setup">Setup</h2>`) || !strings.Contains(r.HTML, "<ul><li>a</li>") {
		t.Errorf("HTML = %s", r.HTML)
	}
	if len(r.TOC) != 1 || r.TOC[0].Title != "Setup" {
		t.Errorf("TOC = %+v", r.TOC)
	}
}

func TestService_RenderErrors(t *testing.T) {
	t.Parallel()

	src := &fakeArticles{
		articles:   []wolai.Article{{ID: "w1", Title: "Hosted"}},
		contentErr: errors.New("boom"),
	}
	svc := NewService(newServiceDir(t), WithArticles(src, "db"))
	idx, err := svc.Index(context.Background())
	if err != nil {
		t.Fatalf("Index() error = %v", err)
	}

	if _, err := svc.RenderID(context.Background(), idx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RenderID(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := svc.RenderID(context.Background(), idx, "w1"); err == nil {
		t.Error("RenderID(w1) expected content error")
	}
	if _, err := svc.Render(context.Background(), idx, Entry{ID: "x", Source: "rss"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Render(unknown source) error = %v, want ErrNotFound", err)
	}
}
