package blog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zerx-lab/zerxsite"
	"github.com/zerx-lab/zerxsite/internal/logging"
	"github.com/zerx-lab/zerxsite/internal/wolai"
)

// ErrNotFound is returned when an entry id matches no post.
var ErrNotFound = errors.New("post not found")

// ArticleSource supplies hosted articles.
type ArticleSource interface {
	Articles(ctx context.Context, databaseID string) ([]wolai.Article, error)
	ArticleContent(ctx context.Context, blockID string) (string, error)
}

// Rendered is a post ready to publish.
type Rendered struct {
	Entry  Entry              `json:"entry"`
	HTML   string             `json:"html"`
	TOC    []zerxsite.TOCItem `json:"toc"`
	Assets []string           `json:"assets,omitempty"`
	Source *Post              `json:"-"`
}

// Service merges local posts with hosted articles and renders them.
type Service struct {
	dir        string
	databaseID string
	articles   ArticleSource
	renderer   *zerxsite.Renderer
	converter  *zerxsite.PostConverter
	logger     logging.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithArticles enables hosted articles from databaseID.
func WithArticles(src ArticleSource, databaseID string) ServiceOption {
	return func(s *Service) {
		s.articles = src
		s.databaseID = strings.TrimSpace(databaseID)
	}
}

// WithRenderer sets the renderer for hosted articles.
func WithRenderer(r *zerxsite.Renderer) ServiceOption {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithConverter sets the converter for local posts.
func WithConverter(c *zerxsite.PostConverter) ServiceOption {
	return func(s *Service) {
		if c != nil {
			s.converter = c
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l logging.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logging.OrNoOp(l)
	}
}

// NewService creates a Service reading local posts from dir.
func NewService(dir string, opts ...ServiceOption) *Service {
	s := &Service{dir: dir, logger: logging.NoOp()}
	for _, opt := range opts {
		opt(s)
	}
	if s.renderer == nil {
		s.renderer = zerxsite.NewRenderer()
	}
	if s.converter == nil {
		s.converter = zerxsite.NewPostConverter()
	}
	return s
}

// Index holds the merged entries together with the local posts they came from.
type Index struct {
	Entries []Entry
	posts   map[string]*Post
}

// Index loads local posts and, when configured, hosted articles. Local posts
// come first. A hosted source failure is logged and yields local posts only.
func (s *Service) Index(ctx context.Context) (*Index, error) {
	posts, err := LoadDir(s.dir)
	if err != nil {
		return nil, err
	}

	idx := &Index{posts: make(map[string]*Post, len(posts))}
	for i := range posts {
		p := &posts[i]
		idx.Entries = append(idx.Entries, LocalEntry(*p))
		idx.posts[p.Slug] = p
	}

	if s.articles == nil || s.databaseID == "" {
		return idx, nil
	}

	articles, err := s.articles.Articles(ctx, s.databaseID)
	if err != nil {
		s.logger.Warn("blog.articles.failed", "database", s.databaseID, "error", err)
		return idx, nil
	}
	for _, a := range articles {
		idx.Entries = append(idx.Entries, Entry{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			URL:         "/blog/wolai/" + a.ID,
			Tags:        a.Tags,
			Source:      SourceWolai,
		})
	}
	s.logger.Debug("blog.index.loaded", "local", len(posts), "hosted", len(articles))
	return idx, nil
}

// Page returns page n of the index with size entries per page.
// A size below 1 uses PageSize.
func (idx *Index) Page(n, size int) Page {
	return Paginate(idx.Entries, n, size)
}

// Render renders one entry of idx.
func (s *Service) Render(ctx context.Context, idx *Index, e Entry) (*Rendered, error) {
	switch e.Source {
	case SourceLocal:
		p, ok := idx.posts[e.ID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, e.ID)
		}
		post, err := s.converter.Convert(ctx, p.Body, e.URL+"/")
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", p.Path, err)
		}
		return &Rendered{Entry: e, HTML: post.HTML, TOC: post.TOC, Assets: post.Assets, Source: p}, nil

	case SourceWolai:
		if s.articles == nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, e.ID)
		}
		md, err := s.articles.ArticleContent(ctx, e.ID)
		if err != nil {
			return nil, fmt.Errorf("fetching article %s: %w", e.ID, err)
		}
		res := s.renderer.RenderWithHighlighting(ctx, md)
		if res.Fallbacks > 0 {
			s.logger.Debug("blog.highlight.fallback", "article", e.ID, "blocks", res.Fallbacks)
		}
		return &Rendered{Entry: e, HTML: res.HTML, TOC: res.TOC}, nil

	default:
		return nil, fmt.Errorf("%w: unknown source %q", ErrNotFound, e.Source)
	}
}

// RenderID finds id in idx and renders it.
func (s *Service) RenderID(ctx context.Context, idx *Index, id string) (*Rendered, error) {
	e, ok := Find(idx.Entries, id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.Render(ctx, idx, e)
}
