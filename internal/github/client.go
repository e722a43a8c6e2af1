// Package github fetches repository and user statistics for the dashboard.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zerx-lab/zerxsite/internal/cache"
	"github.com/zerx-lab/zerxsite/internal/httpx"
	"github.com/zerx-lab/zerxsite/internal/logging"
)

// Defaults.
const (
	DefaultBaseURL  = "https://api.github.com"
	DefaultOwner    = "zerx-lab"
	DefaultCacheTTL = time.Hour
	UserAgent       = "zerx-website"
	PerPage         = 100
)

const dataKey = "data"

// ErrNoRepositories is returned when no repository could be listed.
var ErrNoRepositories = errors.New("no repositories fetched")

// StatusError reports a non-2xx API answer.
type StatusError struct {
	URL     string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("github: %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("github: %s: status %d: %s", e.URL, e.Status, e.Message)
}

// Client reads public data for one owner. It is safe for concurrent use.
type Client struct {
	baseURL string
	owner   string
	token   string
	http    *httpx.Client
	cache   *cache.Cache[Data]
	logger  logging.Logger
	now     func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
			c.baseURL = u
		}
	}
}

// WithToken sends a bearer token, which raises the rate limit.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithHTTPClient sets the transport used for every call.
func WithHTTPClient(h *httpx.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithCache supplies the cache holding aggregated results.
func WithCache(dc *cache.Cache[Data]) Option {
	return func(c *Client) {
		if dc != nil {
			c.cache = dc
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		c.logger = logging.OrNoOp(l)
	}
}

// NewClient creates a client for owner. An empty owner means DefaultOwner.
func NewClient(owner string, opts ...Option) *Client {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		owner = DefaultOwner
	}
	c := &Client{
		baseURL: DefaultBaseURL,
		owner:   owner,
		logger:  logging.NoOp(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpx.New(httpx.WithLogger(c.logger))
	}
	if c.cache == nil {
		c.cache = cache.New[Data](DefaultCacheTTL, cache.WithCapacity(4), cache.WithShards(1))
	}
	return c
}

func (c *Client) headers() http.Header {
	h := http.Header{
		"Accept":     {"application/vnd.github.v3+json"},
		"User-Agent": {UserAgent},
	}
	if c.token != "" {
		h.Set("Authorization", "Bearer "+c.token)
	}
	return h
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	resp, err := c.http.Do(ctx, httpx.Request{URL: u, Header: c.headers()})
	if err != nil {
		return err
	}
	if !resp.OK() {
		var body struct {
			Message string `json:"message"`
		}
		_ = resp.Decode(&body)
		return &StatusError{URL: u, Status: resp.Status, Message: body.Message}
	}
	return resp.Decode(out)
}

// User fetches the owner's profile.
func (c *Client) User(ctx context.Context) (*User, error) {
	var u User
	if err := c.getJSON(ctx, c.baseURL+"/users/"+url.PathEscape(c.owner), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Repos lists every repository of the owner, most recently pushed first.
// Pages are read until a short page. A failing page ends the listing and
// the pages read so far are returned together with the error.
func (c *Client) Repos(ctx context.Context) ([]Repo, error) {
	var all []Repo
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("per_page", strconv.Itoa(PerPage))
		q.Set("page", strconv.Itoa(page))
		q.Set("sort", "pushed")
		q.Set("direction", "desc")
		u := c.baseURL + "/users/" + url.PathEscape(c.owner) + "/repos?" + q.Encode()

		var repos []Repo
		if err := c.getJSON(ctx, u, &repos); err != nil {
			return all, fmt.Errorf("repos page %d: %w", page, err)
		}
		all = append(all, repos...)
		if len(repos) < PerPage {
			return all, nil
		}
	}
}

// Data returns the dashboard data. It never fails: when no repository can be
// listed it returns Fallback. Successful results are cached.
func (c *Client) Data(ctx context.Context) Data {
	data, err := c.cache.GetOrFetch(ctx, dataKey, c.fetch)
	if err != nil {
		c.logger.Warn("github.fallback", "owner", c.owner, "error", err)
		return Fallback(c.now())
	}
	return data
}

// Invalidate drops the cached dashboard data.
func (c *Client) Invalidate() {
	c.cache.Invalidate(dataKey)
}

// Stars returns star and fork counts keyed by repository name.
func (c *Client) Stars(ctx context.Context) map[string]RepoStars {
	return StarsOf(c.Data(ctx))
}

func (c *Client) fetch(ctx context.Context) (Data, error) {
	var (
		user     *User
		repos    []Repo
		userErr  error
		reposErr error
	)

	// Both calls degrade on their own, so the group never cancels.
	var g errgroup.Group
	g.Go(func() error {
		user, userErr = c.User(ctx)
		return nil
	})
	g.Go(func() error {
		repos, reposErr = c.Repos(ctx)
		return nil
	})
	_ = g.Wait()

	if userErr != nil {
		c.logger.Warn("github.user.failed", "owner", c.owner, "error", userErr)
	}
	if reposErr != nil {
		c.logger.Warn("github.repos.failed", "owner", c.owner, "error", reposErr)
	}
	if len(repos) == 0 {
		if reposErr != nil {
			return Data{}, fmt.Errorf("%w: %v", ErrNoRepositories, reposErr)
		}
		return Data{}, ErrNoRepositories
	}

	followers := fallbackFollowers
	if user != nil {
		followers = user.Followers
	}
	data := Aggregate(repos, followers)
	c.logger.Debug("github.data.fetched", "owner", c.owner, "repos", len(repos), "starred", len(data.Repositories))
	return data, nil
}
