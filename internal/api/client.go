package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/platewise/internal/constants"
	"github.com/julianstephens/platewise/internal/logger"
)

// maxResponseBytes caps how much of a response body is read
const maxResponseBytes = 8 << 20

// TokenSource supplies the bearer token attached to every request
type TokenSource interface {
	AccessToken() string
}

// Client talks to the diet-tracking service. It is safe for concurrent use.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	onUnauthorized func()
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTokenSource sets where bearer tokens come from
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithUnauthorizedHandler registers fn to run whenever an authenticated request gets a 401
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// New creates a client for the service rooted at baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid API URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{Timeout: constants.DefaultRequestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized service URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// anonymous requests (login) do not trigger the unauthorized handler
	anonymous bool
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn("request failed", "method", r.method, "path", r.path, "request_id", reqID, "error", err)
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, r.method, r.path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}
	logger.Debug("request completed", "method", r.method, "path", r.path, "status", resp.StatusCode,
		"request_id", reqID, "elapsed", time.Since(start))

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode == http.StatusUnauthorized {
		logger.Warn("unauthorized response", "method", r.method, "path", r.path, "request_id", reqID)
		if !r.anonymous && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return &ResponseError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Message
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &ResponseError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return fmt.Errorf("decoding response from %s: %w", r.path, decodeErr)
	}
	if !env.Success {
		return &ResponseError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding %s data: %w", r.path, err)
	}
	return nil
}
