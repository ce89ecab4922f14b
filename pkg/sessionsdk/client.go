// Package sessionsdk is the shared surface between the session service and
// its in-house callers: the wire types, the error taxonomy and a small
// HTTP client for services that validate or mint sessions remotely.
package sessionsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the session service. The zero value is not usable;
// construct with NewClient.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a session service client with a sane request timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Issue mints a token pair for an authenticated user. The service binds
// the pair to the device details it observes on this request, so Issue
// must be called from the user's connection path, not from a backend hop,
// unless X-Forwarded-For and User-Agent are propagated.
func (c *Client) Issue(ctx context.Context, req IssueRequest) (*TokenPairResponse, error) {
	var out TokenPairResponse
	if err := c.postJSON(ctx, "/v1/session/issue", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Introspect reports whether an access token is currently valid and, when
// it is, the claims it carries.
func (c *Client) Introspect(ctx context.Context, accessToken string) (*IntrospectionResponse, error) {
	var out IntrospectionResponse
	if err := c.postJSON(ctx, "/v1/session/introspect", accessToken, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh exchanges a one-time refresh token for a fresh pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenPairResponse, error) {
	var out TokenPairResponse
	if err := c.postJSON(ctx, "/v1/session/refresh", refreshToken, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Revoke terminates the session behind an access token. Revoking an
// already dead token still succeeds.
func (c *Client) Revoke(ctx context.Context, accessToken string) error {
	return c.postJSON(ctx, "/v1/session/revoke", accessToken, nil, nil)
}

// postJSON performs a POST with an optional bearer token and optional JSON
// body, decoding either the success payload or the service error shape.
func (c *Client) postJSON(ctx context.Context, path, bearer string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("sessionsdk: encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("sessionsdk: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("sessionsdk: %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("sessionsdk: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("sessionsdk: decode response: %w", err)
		}
	}
	return nil
}
