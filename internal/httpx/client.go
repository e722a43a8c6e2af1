// Package httpx sends JSON requests with bounded retry.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zerx-lab/zerxsite/internal/logging"
)

// Defaults.
const (
	DefaultTimeout = 15 * time.Second
	DefaultRetries = 2
	DefaultBackoff = 500 * time.Millisecond
	MaxBodySize    = 10 << 20
)

// Sentinel errors.
var (
	ErrRequest      = errors.New("request failed")
	ErrBodyTooLarge = errors.New("response body too large")
)

// Request describes one JSON call. Body is marshalled once and resent on retry.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   any
}

// Response is a fully read HTTP response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Snippet returns a trimmed, bounded copy of the body for error messages.
func (r *Response) Snippet() string {
	const limit = 200
	s := strings.TrimSpace(string(r.Body))
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return s
}

// Client retries transport errors and 5xx responses with linear backoff.
type Client struct {
	http    *http.Client
	retries int
	backoff time.Duration
	logger  logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-attempt timeout.
// Panics if d <= 0.
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("httpx: timeout must be positive")
	}
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithRetries sets how many times a failed attempt is repeated.
// Panics if n < 0.
func WithRetries(n int) Option {
	if n < 0 {
		panic("httpx: retries must be non-negative")
	}
	return func(c *Client) {
		c.retries = n
	}
}

// WithBackoff sets the base delay; attempt k waits k*d.
// Panics if d < 0.
func WithBackoff(d time.Duration) Option {
	if d < 0 {
		panic("httpx: backoff must be non-negative")
	}
	return func(c *Client) {
		c.backoff = d
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		c.logger = logging.OrNoOp(l)
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: DefaultTimeout},
		retries: DefaultRetries,
		backoff: DefaultBackoff,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends req. A non-2xx response below 500 is returned without error so
// callers can map it to their own error types. A 5xx response is returned
// once retries are exhausted.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var payload []byte
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: encode body: %v", ErrRequest, err)
		}
		payload = b
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			if !waitOrCancel(ctx, time.Duration(attempt)*c.backoff) {
				return nil, ctx.Err()
			}
			c.logger.Debug("httpx.retry", "method", method, "url", req.URL, "attempt", attempt, "error", lastErr)
		}

		resp, err := c.send(ctx, method, req, payload)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.Is(err, ErrBodyTooLarge) {
				return nil, err
			}
			lastErr = err
			continue
		}
		if resp.Status >= 500 && attempt < c.retries {
			lastErr = fmt.Errorf("status %d", resp.Status)
			continue
		}
		return resp, nil
	}

	return nil, fmt.Errorf("%w: %s %s: %v", ErrRequest, method, req.URL, lastErr)
}

func (c *Client) send(ctx context.Context, method string, req Request, payload []byte) (*Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	hreq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			hreq.Header.Add(k, v)
		}
	}
	if payload != nil && hreq.Header.Get("Content-Type") == "" {
		hreq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(hreq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxBodySize {
		return nil, fmt.Errorf("%w: %s", ErrBodyTooLarge, req.URL)
	}

	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func waitOrCancel(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
