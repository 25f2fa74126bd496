package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultHTTPTimeout        = 15 * time.Second
	defaultHTTPConnectTimeout = 5 * time.Second
	defaultHTTPTLSTimeout     = 5 * time.Second
)

// TokenSource supplies the bearer token attached to authenticated
// requests.  The second return value reports whether a token is
// available at all; the transport never caches it, so a login or logout
// between two calls is picked up immediately.
type TokenSource interface {
	AccessToken() (string, bool)
}

// Client is a typed HTTP client for the reservation API.  It owns no
// state beyond the base URL and the injected token source; every method
// performs exactly one request and decodes exactly one response.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// Option customizes a Client at construction time.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client, e.g. to change
// timeouts or to route requests through a test server.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout adjusts the total per-request timeout of the default
// HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient returns a Client for the API at baseURL.  The token source
// may be nil for a client that only calls unauthenticated endpoints.
// The default HTTP client bounds connect and TLS handshake times
// separately from the overall request timeout.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	dialer := &net.Dialer{Timeout: defaultHTTPConnectTimeout}
	c := &Client{
		baseURL: baseURL,
		tokens:  tokens,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext:         dialer.DialContext,
				TLSHandshakeTimeout: defaultHTTPTLSTimeout,
			},
			Timeout: defaultHTTPTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs a single JSON request against the API.  body is encoded
// as the request body when non-nil; out, when non-nil, receives the
// decoded success response.  When authed is true the bearer token from
// the token source is attached, and ErrNoToken is returned without any
// network activity if none is available.  Non-2xx responses are mapped
// to *Error with the server's {"error": ...} text when present.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any, authed bool) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token, ok := "", false
		if c.tokens != nil {
			token, ok = c.tokens.AccessToken()
		}
		if !ok || token == "" {
			return ErrNoToken
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// The backend reports failures as {"error": "..."}; decode on a
		// best-effort basis and keep the status code either way.
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&payload)
		return &Error{Status: resp.StatusCode, Message: payload.Error}
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
