// Package api provides a client for the auth and insights HTTP endpoints.
package api

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

	"github.com/theirongolddev/finsight/internal/insights"
)

const (
	// DefaultInsightsURL is used when no insights base URL is configured.
	DefaultInsightsURL = "http://localhost:8000"
	// DefaultAuthURL is used when no auth base URL is configured.
	DefaultAuthURL = "http://localhost:3000"

	defaultTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	userAgent      = "finsight/1.0"
)

var (
	// ErrUnauthorized means the current user could not be resolved.
	ErrUnauthorized = errors.New("api: authentication required")
	// ErrUnavailable means the insights service failed or returned a non-success status.
	ErrUnavailable = errors.New("api: insights service unavailable")
)

// StatusError carries the status code of a non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// Options configures a Client.
type Options struct {
	AuthURL     string
	InsightsURL string
	Token       string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Client talks to the auth endpoint and the insights service.
type Client struct {
	authURL     string
	insightsURL string
	token       string
	timeout     time.Duration
	http        *http.Client
}

// NewClient creates a client, filling unset options with defaults.
func NewClient(opts Options) *Client {
	c := &Client{
		authURL:     strings.TrimRight(opts.AuthURL, "/"),
		insightsURL: strings.TrimRight(opts.InsightsURL, "/"),
		token:       strings.TrimSpace(opts.Token),
		timeout:     opts.Timeout,
		http:        opts.HTTPClient,
	}
	if c.authURL == "" {
		c.authURL = DefaultAuthURL
	}
	if c.insightsURL == "" {
		c.insightsURL = DefaultInsightsURL
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	return c
}

// InsightsURL returns the insights base URL in use.
func (c *Client) InsightsURL() string { return c.insightsURL }

// FetchCurrentUser resolves the signed-in user. Every failure wraps ErrUnauthorized.
func (c *Client) FetchCurrentUser(ctx context.Context) (User, error) {
	body, err := c.do(ctx, http.MethodGet, c.authURL+"/api/auth/me", nil)
	if err != nil {
		return User{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	var raw currentUserResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return User{}, fmt.Errorf("%w: parsing current user: %w", ErrUnauthorized, err)
	}
	if raw.User == nil || strings.TrimSpace(raw.User.ID) == "" {
		return User{}, fmt.Errorf("%w: response has no user id", ErrUnauthorized)
	}
	return *raw.User, nil
}

// FetchInsights returns the analytics payload for userID. Every failure wraps ErrUnavailable.
func (c *Client) FetchInsights(ctx context.Context, userID string) (*insights.Payload, error) {
	body, err := c.do(ctx, http.MethodGet, c.insightsURL+"/insights/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	var p insights.Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: parsing insights: %w", ErrUnavailable, err)
	}
	return &p, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	reqBody, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return "", fmt.Errorf("api: encoding login: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, c.authURL+"/api/auth/login", reqBody)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && (se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden) {
			return "", fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return "", fmt.Errorf("api: login: %w", err)
	}

	var lr loginResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return "", fmt.Errorf("api: parsing login response: %w", err)
	}
	if lr.Token == "" {
		return "", errors.New("api: login response has no token")
	}
	return lr.Token, nil
}

// do performs one request and returns the response body of a 2xx response.
func (c *Client) do(ctx context.Context, method, target string, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}
