// Package gateway provides the single HTTP client through which every
// backend call flows. It attaches the bearer credential, enforces the
// request timeout, and applies the global session-expiry policy: any 401
// from any endpoint invalidates the session exactly once and is then
// propagated to the caller as an unauthorized error.
//
// The gateway never navigates and never retries. Navigation is the
// application's job (wired through OnSessionInvalidated) and retry policy
// belongs to the caller that owns the domain action.
package gateway

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

	"github.com/shopforge/storefront/internal/apperr"
	"github.com/shopforge/storefront/internal/logging"
	"github.com/shopforge/storefront/internal/metrics"
)

// DefaultTimeout bounds every request round-trip.
const DefaultTimeout = 10 * time.Second

const maxErrorBody = 64 << 10

// TokenSource yields the current bearer token, or empty when the client is
// unauthenticated. *session.Store satisfies this.
type TokenSource interface {
	Token() string
}

// Config configures a gateway client.
type Config struct {
	// BaseURL is the backend root; request paths are appended to it.
	BaseURL string
	// Timeout defaults to DefaultTimeout when zero.
	Timeout time.Duration
	// Tokens supplies the bearer credential. Optional; requests go out
	// unauthenticated without it.
	Tokens TokenSource
	// OnSessionInvalidated fires once per 401 response, before the error is
	// returned to the caller. Optional.
	OnSessionInvalidated func()
	// HTTPClient overrides the transport. Its timeout is set from Timeout
	// when unset.
	HTTPClient *http.Client
	Logger     *logging.Logger
	Metrics    *metrics.Metrics
}

// Client is the configured HTTP gateway.
type Client struct {
	baseURL              string
	httpClient           *http.Client
	tokens               TokenSource
	onSessionInvalidated func()
	log                  *logging.Logger
	metrics              *metrics.Metrics
}

// New creates a gateway client.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("gateway: BaseURL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("gateway: BaseURL must be a valid URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("gateway: BaseURL scheme must be http or https")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	if httpClient.Timeout == 0 {
		httpClient.Timeout = timeout
	}

	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}

	return &Client{
		baseURL:              baseURL,
		httpClient:           httpClient,
		tokens:               cfg.Tokens,
		onSessionInvalidated: cfg.OnSessionInvalidated,
		log:                  log,
		metrics:              cfg.Metrics,
	}, nil
}

// RequestOption mutates the outgoing request before dispatch.
type RequestOption func(*http.Request)

// WithHeader sets a header on the outgoing request.
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// Do executes one round-trip. body (when non-nil) is JSON-encoded; out (when
// non-nil) receives the decoded JSON response. Errors carry an apperr kind:
// Network for transport failures, Unauthorized for 401s, Domain for other
// HTTP error statuses.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}, opts ...RequestOption) error {
	start := time.Now()
	c.metrics.IncInFlight()
	defer c.metrics.DecInFlight()

	outcome, err := c.do(ctx, method, path, body, out, opts...)
	c.metrics.RecordRequest(method, outcome, time.Since(start))
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, opts ...RequestOption) (string, error) {
	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return "encode", fmt.Errorf("gateway: encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return "request", fmt.Errorf("gateway: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithContext(ctx).WithError(err).WithFields(map[string]interface{}{
			"method": method,
			"path":   path,
		}).Warn("backend request failed")
		// A timeout or connectivity failure says nothing about the session,
		// so it must not clear it.
		return "network", apperr.Network(fmt.Sprintf("gateway: %s %s", method, path), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp.Body)
		c.log.WithContext(ctx).WithFields(map[string]interface{}{
			"method": method,
			"path":   path,
		}).Warn("session rejected by backend")
		if c.onSessionInvalidated != nil {
			c.onSessionInvalidated()
		}
		return "unauthorized", apperr.Unauthorized("session expired or invalid")
	}

	if resp.StatusCode >= 400 {
		msg := readErrorMessage(resp.Body)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "domain", apperr.Domain(resp.StatusCode, msg)
	}

	if out == nil {
		drain(resp.Body)
		return "ok", nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return "decode", apperr.Network(fmt.Sprintf("gateway: decode %s %s response", method, path), err)
	}
	return "ok", nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, path, body, out, opts...)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// readErrorMessage extracts the backend's message field from an error body,
// falling back to the raw text.
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(data))
}

func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, maxErrorBody))
}
