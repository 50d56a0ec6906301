// Package httpclient is the shared REST transport for all backend
// connectors. It binds a base URL and API key, speaks JSON, and reports
// non-2xx responses as a typed error the normalization layer can
// classify by status.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds every request. The upstream app inherited its
// HTTP library's default; here the timeout is explicit and configurable.
const DefaultTimeout = 30 * time.Second

// HTTPError is returned for any response outside the 2xx range.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       []byte
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if len(e.Body) > 0 {
		return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, string(e.Body))
	}
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// HTTPStatus returns the response status code.
func (e *HTTPError) HTTPStatus() int { return e.StatusCode }

// ResponseBody returns the raw response body, if one was read.
func (e *HTTPError) ResponseBody() []byte { return e.Body }

// Config contains options for creating a new Client.
type Config struct {
	// BaseURL is the root of the backend API (e.g. "http://sonarr:8989").
	BaseURL string

	// APIKey is sent as the X-Api-Key header on every request.
	APIKey string

	// Timeout bounds each request (DefaultTimeout if zero).
	Timeout time.Duration

	// ServiceType labels outbound-request metrics.
	ServiceType string
}

// Client is an HTTP client bound to one backend service instance.
type Client struct {
	baseURL     string
	apiKey      string
	serviceType string
	httpClient  *http.Client
}

// New creates a client from the given configuration.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		serviceType: cfg.ServiceType,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the bound base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// APIKey returns the bound API key.
func (c *Client) APIKey() string { return c.apiKey }

// Get performs a GET request and decodes the JSON response into result.
func (c *Client) Get(ctx context.Context, path string, query url.Values, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, result)
}

// Post performs a POST request with a JSON body, decoding the response
// into result when result is non-nil.
func (c *Client) Post(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, result)
}

// Put performs a PUT request with a JSON body, decoding the response
// into result when result is non-nil.
func (c *Client) Put(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPut, path, nil, body, result)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, query url.Values) error {
	return c.do(ctx, http.MethodDelete, path, query, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observeRequest(c.serviceType, method, "error", time.Since(start))
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	observeRequest(c.serviceType, method, strconv.Itoa(resp.StatusCode), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, Body: data}
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
