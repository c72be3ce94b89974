// Package apiclient is the HTTP client for the estate backend REST API.
//
// Requests pass through a chain of RequestInterceptors (auth header, request id)
// before they are sent, and every completed exchange is reported to the
// ResponseInterceptors (logging, metrics). Non-2xx responses are returned as
// *APIError carrying the backend's message.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const maxErrorBody = 64 << 10

// RequestInterceptor may mutate an outgoing request. Returning an error aborts it.
type RequestInterceptor func(req *http.Request) error

// ResponseInterceptor observes a finished exchange. resp is nil when err is set.
type ResponseInterceptor func(req *http.Request, resp *http.Response, err error, elapsed time.Duration)

// TokenSource yields the bearer token for the current caller; "" means anonymous.
type TokenSource func(ctx context.Context) (string, error)

type Client struct {
	baseURL              string
	httpClient           *http.Client
	logger               *zap.Logger
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithRequestInterceptor(i RequestInterceptor) Option {
	return func(c *Client) { c.requestInterceptors = append(c.requestInterceptors, i) }
}

func WithResponseInterceptor(i ResponseInterceptor) Option {
	return func(c *Client) { c.responseInterceptors = append(c.responseInterceptors, i) }
}

// New builds a client for baseURL (e.g. "https://api.example.com/api").
// The default transport is instrumented with otelhttp.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithTokenSource returns a copy of the client that injects the bearer token
// from ts into every request. The underlying http.Client is shared.
func (c *Client) WithTokenSource(ts TokenSource) *Client {
	clone := *c
	clone.requestInterceptors = append(slices.Clone(c.requestInterceptors), BearerToken(ts))
	return &clone
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for _, intercept := range c.requestInterceptors {
		if err := intercept(req); err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	for _, observe := range c.responseInterceptors {
		observe(req, resp, err, elapsed)
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newAPIError(method, path, resp.StatusCode, raw)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
