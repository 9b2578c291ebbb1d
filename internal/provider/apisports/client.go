// Package apisports provides the HTTP client for the API-Sports football API.
//
// API-Sports authenticates with an x-apisports-key header and wraps every
// payload in an envelope whose "response" field carries the data. Each call
// is a single attempt; there is no retry or pagination.
package apisports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/albapepper/scoracle-collector/internal/provider"
)

// AuthHeader carries the API key on every request.
const AuthHeader = "x-apisports-key"

const defaultTimeout = 30 * time.Second

// Config controls how the client reaches the upstream API.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// RequestsPerMinute paces outgoing calls; 0 leaves them unpaced.
	RequestsPerMinute int
	HTTPClient        *http.Client
}

// Client is the HTTP client for API-Sports football endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates an API-Sports client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		limiter:    limiter,
		logger:     logger,
	}
}

// Envelope is the common API-Sports response wrapper.
type Envelope struct {
	Get      string          `json:"get"`
	Errors   json.RawMessage `json:"errors"`
	Results  int             `json:"results"`
	Response json.RawMessage `json:"response"`
}

// Get performs a GET request to an API-Sports endpoint and decodes the
// envelope. Every failure is returned as a *provider.RequestError.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) (*Envelope, error) {
	fail := func(status int, err error) error {
		return &provider.RequestError{Endpoint: endpoint, StatusCode: status, Err: err}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fail(0, fmt.Errorf("rate limit wait: %w", err))
		}
	}

	u := c.baseURL + "/" + strings.TrimPrefix(endpoint, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fail(0, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set(AuthHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Info("Fetching", "endpoint", endpoint, "params", params.Encode())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fail(0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fail(resp.StatusCode, fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fail(resp.StatusCode, fmt.Errorf("unexpected status: %s", truncate(body, 200)))
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fail(resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	if msg := apiErrors(env.Errors); msg != "" {
		return nil, fail(resp.StatusCode, errors.New(msg))
	}

	return &env, nil
}

// apiErrors flattens the envelope "errors" field. API-Sports sends [] or {}
// when the call succeeded and a keyed object, list or plain string of
// messages otherwise.
func apiErrors(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var keyed map[string]interface{}
	if err := json.Unmarshal(raw, &keyed); err == nil {
		if len(keyed) == 0 {
			return ""
		}
		keys := make([]string, 0, len(keyed))
		for k := range keyed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %v", k, keyed[k]))
		}
		return strings.Join(parts, "; ")
	}
	var list []interface{}
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return ""
		}
		parts := make([]string, 0, len(list))
		for _, item := range list {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, "; ")
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err == nil {
		return strings.TrimSpace(msg)
	}
	return ""
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
