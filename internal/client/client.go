package client

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

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	headerAPIKey   = "X-API-Key"
	headerTenantID = "X-Tenant-ID"

	maxResponseBytes = 1 << 20 // 1MiB
)

// Config holds the settings shared by the remote auth and RBAC clients.
type Config struct {
	// BaseURL is the service root, e.g. https://platform.example.com/api/v2/auth
	BaseURL string

	// APIKey is sent on every request in the X-API-Key header.
	APIKey string

	// TenantID is sent in the X-Tenant-ID header when set.
	TenantID string

	// Timeout bounds each request. Zero means no client side timeout, the call
	// runs as long as the context and transport allow.
	Timeout time.Duration

	// HTTPClient overrides the default traced client, mostly for tests.
	HTTPClient *http.Client
}

// DefaultConfig returns a client configuration pointing at a local service.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:5000/api/v2",
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base URL is required")
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL must be http or https: %q", c.BaseURL)
	}

	if u.Host == "" {
		return fmt.Errorf("base URL must include a host: %q", c.BaseURL)
	}

	return nil
}

// Client performs JSON requests against one remote service.
// It holds only immutable configuration and is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	tenantID   string
	httpClient *http.Client
}

// New creates a client from the given configuration.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		tenantID:   cfg.TenantID,
		httpClient: httpClient,
	}, nil
}

// Request describes a single call to the remote service.
type Request struct {
	Method string
	Path   string
	Body   any

	// BearerToken is sent as "Authorization: Bearer <token>" when set.
	BearerToken string
}

// Do sends the request and decodes a successful JSON response into out.
// A non-2xx status is returned as *APIError. out may be nil.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set(headerAPIKey, c.apiKey)
	}
	if c.tenantID != "" {
		httpReq.Header.Set(headerTenantID, c.tenantID)
	}
	if req.BearerToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.BearerToken)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) > maxResponseBytes {
		return fmt.Errorf("%s %s: %w", req.Method, req.Path, ErrResponseTooLarge)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, data)

		zerolog.Ctx(ctx).Debug().
			Str("method", req.Method).
			Str("path", req.Path).
			Int("status", resp.StatusCode).
			Str("message", apiErr.Message).
			Msg("remote call failed")

		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s %s: %w", req.Method, req.Path, err)
	}

	return nil
}
