// Package wolai is a client for the wolai notes API: token exchange,
// database rows, block children, and conversion of blocks to Markdown.
package wolai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zerx-lab/zerxsite/internal/cache"
	"github.com/zerx-lab/zerxsite/internal/httpx"
	"github.com/zerx-lab/zerxsite/internal/logging"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://openapi.wolai.com/v1"

// DefaultTokenTTL bounds how long an app token is reused.
const DefaultTokenTTL = 24 * time.Hour

const tokenKey = "app_token"

// Sentinel errors.
var (
	ErrMissingCredentials = errors.New("wolai app id and app secret are required")
	ErrMissingDatabase    = errors.New("wolai database id is required")
	ErrToken              = errors.New("wolai token request failed")
)

// APIError is returned when the API answers with a non-2xx status or an error_code.
type APIError struct {
	Message string `json:"message"`
	Code    int    `json:"error_code"`
	Status  int    `json:"status_code"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wolai api error: %s (code: %d, status: %d)", e.Message, e.Code, e.Status)
}

// Credentials identify the application.
type Credentials struct {
	AppID     string
	AppSecret string
}

// Client talks to the wolai API. It is safe for concurrent use.
type Client struct {
	baseURL string
	creds   Credentials
	http    *httpx.Client
	tokens  *cache.Cache[string]
	logger  logging.Logger
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

// WithHTTPClient sets the transport used for every call.
func WithHTTPClient(h *httpx.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTokenCache supplies the cache that holds the app token.
func WithTokenCache(tc *cache.Cache[string]) Option {
	return func(c *Client) {
		if tc != nil {
			c.tokens = tc
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		c.logger = logging.OrNoOp(l)
	}
}

// NewClient creates a client. Credentials are checked lazily on the first call.
func NewClient(creds Credentials, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		creds:   creds,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpx.New(httpx.WithLogger(c.logger))
	}
	if c.tokens == nil {
		c.tokens = cache.New[string](DefaultTokenTTL, cache.WithCapacity(1), cache.WithShards(1))
	}
	return c
}

// InvalidateToken drops the cached app token.
func (c *Client) InvalidateToken() {
	c.tokens.Invalidate(tokenKey)
}

// Token returns the cached app token, requesting one when absent.
func (c *Client) Token(ctx context.Context) (string, error) {
	if strings.TrimSpace(c.creds.AppID) == "" || strings.TrimSpace(c.creds.AppSecret) == "" {
		return "", ErrMissingCredentials
	}
	return c.tokens.GetOrFetch(ctx, tokenKey, c.fetchToken)
}

type tokenResponse struct {
	Data struct {
		AppID    string `json:"app_id"`
		AppToken string `json:"app_token"`
	} `json:"data"`
}

func (c *Client) fetchToken(ctx context.Context) (string, error) {
	resp, err := c.http.Do(ctx, httpx.Request{
		Method: http.MethodPost,
		URL:    c.baseURL + "/token",
		Body: map[string]string{
			"appId":     c.creds.AppID,
			"appSecret": c.creds.AppSecret,
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrToken, err)
	}
	if !resp.OK() {
		return "", fmt.Errorf("%w: status %d", ErrToken, resp.Status)
	}

	var tr tokenResponse
	if err := resp.Decode(&tr); err != nil {
		return "", fmt.Errorf("%w: %v", ErrToken, err)
	}
	if tr.Data.AppToken == "" {
		return "", fmt.Errorf("%w: empty app_token", ErrToken)
	}
	c.logger.Debug("wolai.token.issued", "app_id", tr.Data.AppID)
	return tr.Data.AppToken, nil
}

// get issues an authenticated GET and decodes the JSON body into out.
// An auth failure invalidates the token and retries once.
func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	for attempt := 0; ; attempt++ {
		token, err := c.Token(ctx)
		if err != nil {
			return err
		}

		resp, err := c.http.Do(ctx, httpx.Request{
			URL:    c.baseURL + endpoint,
			Header: http.Header{"Authorization": {token}},
		})
		if err != nil {
			return err
		}

		if (resp.Status == http.StatusUnauthorized || resp.Status == http.StatusForbidden) && attempt == 0 {
			c.logger.Info("wolai.token.rejected", "status", resp.Status, "endpoint", endpoint)
			c.InvalidateToken()
			continue
		}

		return decodeAPI(resp, out)
	}
}

func decodeAPI(resp *httpx.Response, out any) error {
	var apiErr APIError
	_ = resp.Decode(&apiErr)
	if !resp.OK() || apiErr.Code != 0 {
		if apiErr.Status == 0 {
			apiErr.Status = resp.Status
		}
		if apiErr.Message == "" {
			apiErr.Message = resp.Snippet()
		}
		return &apiErr
	}
	return resp.Decode(out)
}

// Database returns the rows of a database.
func (c *Client) Database(ctx context.Context, id string) (*Database, error) {
	var out struct {
		Data Database `json:"data"`
	}
	if err := c.get(ctx, "/databases/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// BlockChildren returns the direct children of a block. Only the first page is read.
func (c *Client) BlockChildren(ctx context.Context, id string) (*BlockList, error) {
	var out BlockList
	if err := c.get(ctx, "/blocks/"+url.PathEscape(id)+"/children", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Block returns a single block.
func (c *Client) Block(ctx context.Context, id string) (*Block, error) {
	var out struct {
		Data Block `json:"data"`
	}
	if err := c.get(ctx, "/blocks/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}
