package yggdrasil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/darmiel/mcauth/internal/audit"
)

const RequestIDHeader = "X-Request-ID"

// Client talks to a Yggdrasil authentication server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	provider   string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithProvider sets the provider name reported in the User-Agent.
func WithProvider(name string) Option {
	return func(c *Client) {
		c.provider = name
	}
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultServerURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		provider:   "mojang",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Authenticate(ctx context.Context, req AuthenticateRequest) (*Response, error) {
	var resp Response
	if err := c.post(ctx, AuthenticateRoute, req, &resp); err != nil {
		return nil, fmt.Errorf("authenticating: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("authenticating: %w: missing access token", ErrUnexpectedResponse)
	}
	return &resp, nil
}

func (c *Client) Refresh(ctx context.Context, req RefreshRequest) (*Response, error) {
	var resp Response
	if err := c.post(ctx, RefreshRoute, req, &resp); err != nil {
		return nil, fmt.Errorf("refreshing: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("refreshing: %w: missing access token", ErrUnexpectedResponse)
	}
	return &resp, nil
}

// Validate returns nil if the server accepts the access token.
func (c *Client) Validate(ctx context.Context, req TokenRequest) error {
	if err := c.post(ctx, ValidateRoute, req, nil); err != nil {
		return fmt.Errorf("validating: %w", err)
	}
	return nil
}

func (c *Client) Invalidate(ctx context.Context, req TokenRequest) error {
	if err := c.post(ctx, InvalidateRoute, req, nil); err != nil {
		return fmt.Errorf("invalidating: %w", err)
	}
	return nil
}

// Signout invalidates every access token of the user.
func (c *Client) Signout(ctx context.Context, req SignoutRequest) error {
	if err := c.post(ctx, SignoutRoute, req, nil); err != nil {
		return fmt.Errorf("signing out: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, route string, payload, result any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshalling payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+route, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, result)
}

func (c *Client) do(req *http.Request, result any) error {
	requestID := xid.New().String()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("User-Agent", audit.CreateUserAgent(requestID, c.provider))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	if resp.StatusCode >= 400 {
		return parseErrorResponse(resp, requestID)
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: decoding body: %v", ErrUnexpectedResponse, err)
	}
	return nil
}

func parseErrorResponse(resp *http.Response, requestID string) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("request failed with status %d and unreadable body: %w", resp.StatusCode, err)
	}
	var errResp ErrorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Type:       errResp.Error,
			Message:    errResp.ErrorMessage,
			Cause:      errResp.Cause,
			RequestID:  requestID,
		}
	}
	return fmt.Errorf("%w: status %d: '%s'", ErrUnexpectedResponse, resp.StatusCode, string(body))
}
