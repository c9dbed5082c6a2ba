// Package anthropic implements the outbound client for the Anthropic Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mandalnilabja/genrelay/internal/types"
)

const (
	// DefaultBaseURL is the public Anthropic API endpoint.
	DefaultBaseURL = "https://api.anthropic.com"

	// MessagesPath is appended to the base URL for every call.
	MessagesPath = "/v1/messages"

	// APIVersion is sent as the anthropic-version header.
	APIVersion = "2023-06-01"
)

// Client sends Messages API requests over a single shared http.Client.
// It is safe for concurrent use; the API key is supplied per call.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL (DefaultBaseURL when empty).
// A zero timeout leaves the call bounded only by the request context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// URL returns the full Messages endpoint.
func (c *Client) URL() string {
	return c.baseURL + MessagesPath
}

// PrepareRequest applies the fixed Anthropic header set.
func (c *Client) PrepareRequest(req *http.Request, apiKey string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", APIVersion)
}

// CreateMessage performs one POST to the Messages endpoint.
//
// Failures are classified for the caller: transport problems wrap ErrUnavailable,
// non-2xx answers are returned as *StatusError, and undecodable bodies wrap
// ErrMalformedResponse. No retries are attempted.
func (c *Client) CreateMessage(ctx context.Context, apiKey string, msg *types.MessageRequest) (*types.MessageResponse, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.PrepareRequest(req, apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var out types.MessageResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return &out, nil
}
