// Package client centralizes transport concerns for the Mingle API so the
// domain services stay declarative: base URL, JSON encoding, bearer token
// injection, typed error mapping, and the process-wide unauthorized hook.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTimeout = 15 * time.Second

// Client is an HTTP client bound to one API base URL. Auth mode is bearer
// token: the token read from the TokenStore is injected into every request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	log        *slog.Logger

	mu             sync.RWMutex
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenStore sets the token persistence backend.
func WithTokenStore(ts TokenStore) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the logger used for transport-level warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a Client for the given base URL, e.g. "http://localhost:8375/api/v1".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		tokens:     NewMemoryTokenStore(),
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnUnauthorized registers the single process-wide handler invoked whenever
// any request receives HTTP 401, before the error is returned to the caller.
// It must be wired before the first request that could 401 is issued.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

func (c *Client) fireUnauthorized() {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// SetToken stores the bearer token for subsequent requests.
func (c *Client) SetToken(token string) error {
	return c.tokens.Save(token)
}

// ClearToken removes the stored bearer token.
func (c *Client) ClearToken() error {
	return c.tokens.Clear()
}

// Token returns the currently stored bearer token, or "".
func (c *Client) Token() string {
	tok, err := c.tokens.Load()
	if err != nil {
		c.log.Warn("token load failed", "error", err)
		return ""
	}
	return tok
}

// Get issues a GET request. query may be nil.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST request with a JSON body. body and out may be nil.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.requestURL(path, query), reader)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if err := c.authorize(req); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, ErrNetwork, err)
	}
	defer resp.Body.Close()

	return c.handleResponse(method, path, resp, out)
}

// authorize injects the bearer token. A token that is already expired is
// treated like a server 401 without issuing the doomed request: the
// unauthorized hook fires and the caller gets ErrUnauthorized.
func (c *Client) authorize(req *http.Request) error {
	token := c.Token()
	if token == "" {
		return nil
	}
	if tokenExpired(token) {
		c.fireUnauthorized()
		return &APIError{Status: http.StatusUnauthorized, Message: "token expired"}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

func (c *Client) handleResponse(method, path string, resp *http.Response, out any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w: %w", method, path, ErrNetwork, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(data) == 0 || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if len(data) > 0 && json.Unmarshal(data, &body) == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Code = body.Code
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Session-expiry detection is a transport concern; session state is
		// the auth store's. The hook fires as a side effect and the original
		// error still propagates to the caller.
		c.fireUnauthorized()
	}

	return fmt.Errorf("%s %s: %w", method, path, apiErr)
}

func (c *Client) requestURL(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// tokenExpired checks the exp claim without verifying the signature; the
// server remains the authority, this only avoids requests that are certain
// to fail.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
