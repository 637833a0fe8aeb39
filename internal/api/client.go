// Package api is the HTTP client layer for the hosted backend. It issues
// authenticated JSON requests to the vendor's endpoint groups and reports
// failures as status-carrying errors; all retry decisions belong to callers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"fanfeed/internal/observability"
)

// DefaultBaseURL points at the production vendor API.
const DefaultBaseURL = "https://api.fanfeed.app/v1"

const maxErrorBody = 2048

// TokenFunc supplies the current bearer token; empty means unauthenticated.
type TokenFunc func() string

// Client issues authenticated JSON requests against the vendor API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	token TokenFunc
	log   *observability.Logger
}

// NewClient creates a client with a fixed per-request timeout. The timeout
// is the only cancellation mechanism besides the caller's context.
func NewClient(baseURL string, timeout time.Duration, token TokenFunc) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		token:      token,
		log:        observability.Component("api"),
	}
}

// Get issues a GET to path with query params and decodes the JSON response
// into out. group labels the endpoint group for metrics.
func (c *Client) Get(ctx context.Context, group, path string, query url.Values, out interface{}) error {
	u := c.BaseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	return c.do(req, group, out)
}

// Post issues a POST with a JSON body and decodes the JSON response into
// out. out may be nil when the caller only needs success/failure.
func (c *Client) Post(ctx context.Context, group, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	u := c.BaseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, group, out)
}

func (c *Client) do(req *http.Request, group string, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		observability.APIRequests.WithLabelValues(group, "network_error").Inc()
		return fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		observability.APIRequests.WithLabelValues(group, "http_error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		httpErr := &HTTPError{
			Status:     resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
		c.log.Warn("api request failed",
			"path", req.URL.Path,
			"status", resp.StatusCode,
		)
		return httpErr
	}

	observability.APIRequests.WithLabelValues(group, "ok").Inc()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", req.URL.Path, err)
	}
	return nil
}
