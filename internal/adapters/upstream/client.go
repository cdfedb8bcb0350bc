// Package upstream is the HTTP client for the affiliate backend the panel
// fronts. The backend mixes two response shapes: most endpoints wrap their
// payload in a {data, isSuccess, message, type} envelope, a handful return
// the payload bare. Each call site decodes the shape its endpoint actually
// uses instead of sniffing.
package upstream

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
	"sync"
	"time"

	"qube-panel/internal/config"
	"qube-panel/internal/pkg/token"
)

// tokenSlack is how long before its advertised expiry a cached service
// credential is refreshed
const tokenSlack = 60 * time.Second

// APIError is a non-2xx response from the backend
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Message)
}

// RejectionError is an isSuccess=false envelope: the request reached the
// backend but was turned away, usually with a human-readable reason such
// as "Invalid StartDate".
type RejectionError struct {
	Message string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("upstream rejected request: %s", e.Message)
}

// IsUnauthorized reports whether err is an upstream 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client talks to the affiliate backend. It is safe for concurrent use.
// Besides forwarding per-session user credentials, it can authenticate as
// the configured service account and caches that token until shortly before
// expiry.
type Client struct {
	baseURL string
	http    *http.Client

	serviceUsername string
	servicePassword string

	svcMu        sync.Mutex
	svcToken     string
	svcExpiresAt time.Time
}

// NewClient creates a new upstream client
func NewClient(cfg config.UpstreamConfig) *Client {
	return &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		http:            &http.Client{Timeout: cfg.Timeout},
		serviceUsername: cfg.ServiceUsername,
		servicePassword: cfg.ServicePassword,
	}
}

// envelope is the wrapped response shape
type envelope struct {
	Data      json.RawMessage `json:"data"`
	IsSuccess bool            `json:"isSuccess"`
	Message   *string         `json:"message"`
	Type      int             `json:"type"`
}

// errorDetail is the FastAPI-style error body
type errorDetail struct {
	Detail string `json:"detail"`
}

// do sends one request and unmarshals the raw response body into out.
// A non-empty bearerToken is forwarded as-is; the panel never mints tokens.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, bearerToken string, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read upstream response: %w", err)
	}

	if resp.StatusCode >= 400 {
		detail := errorDetail{}
		_ = json.Unmarshal(raw, &detail)
		if detail.Detail == "" {
			detail.Detail = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: detail.Detail}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode upstream response: %w", err)
		}
	}
	return nil
}

// doEnvelope sends one request to a wrapped endpoint and unmarshals the
// envelope's data field into out. An isSuccess=false envelope is an error
// carrying the upstream message even when the HTTP status is 200.
func (c *Client) doEnvelope(ctx context.Context, method, path string, query url.Values, bearerToken string, body, out any) error {
	env := envelope{}
	if err := c.do(ctx, method, path, query, bearerToken, body, &env); err != nil {
		return err
	}
	if !env.IsSuccess || env.Type != 0 {
		msg := "request was not successful"
		if env.Message != nil && *env.Message != "" {
			msg = *env.Message
		}
		return &RejectionError{Message: msg}
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode upstream payload: %w", err)
		}
	}
	return nil
}

// ServiceToken returns a valid token for the configured service account,
// logging in again when the cached one is within a minute of expiring.
func (c *Client) ServiceToken(ctx context.Context) (string, error) {
	c.svcMu.Lock()
	defer c.svcMu.Unlock()

	if c.svcToken != "" && time.Now().Add(tokenSlack).Before(c.svcExpiresAt) {
		return c.svcToken, nil
	}

	cred, err := c.Login(ctx, c.serviceUsername, c.servicePassword)
	if err != nil {
		return "", fmt.Errorf("service account login failed: %w", err)
	}

	expiresAt := token.ExpiresAt(cred.AccessToken)
	if cred.Expiration != "" {
		if t, err := time.Parse(time.RFC3339, cred.Expiration); err == nil {
			expiresAt = t
		}
	}
	if expiresAt.IsZero() {
		// no expiry information, assume a short-lived token
		expiresAt = time.Now().Add(15 * time.Minute)
	}

	c.svcToken = cred.AccessToken
	c.svcExpiresAt = expiresAt
	return c.svcToken, nil
}

// Ping verifies the backend answers and the service account resolves.
func (c *Client) Ping(ctx context.Context) error {
	tok, err := c.ServiceToken(ctx)
	if err != nil {
		return err
	}
	_, err = c.ResolveIdentity(ctx, tok)
	return err
}
