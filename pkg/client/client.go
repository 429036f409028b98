// Package client is a typed client for the Job/Application REST API.
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
	"strconv"
	"strings"
	"time"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

const (
	defaultTimeout    = 15 * time.Second
	defaultRetryAfter = 30 * time.Second
	maxErrorBody      = 64 << 10
)

// Config defines client settings
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	// Actor is sent in the identity headers of every request
	Actor domain.Actor
}

// Client calls the REST API on behalf of one actor
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	actor      domain.Actor
}

// New instantiates a Client
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("client: base url is required")
	}
	u, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}
	if cfg.Actor.UserID == "" || cfg.Actor.TenantID == "" {
		return nil, fmt.Errorf("client: actor user and tenant are required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: u, httpClient: httpClient, actor: cfg.Actor}, nil
}

// Actor returns the identity the client sends
func (c *Client) Actor() domain.Actor {
	return c.actor
}

type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

// do sends a request and decodes a 2xx JSON response into out, if non-nil
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	raw, err := c.doRaw(ctx, method, path, query, in)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("client: decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) doRaw(ctx context.Context, method, path string, query url.Values, in any) ([]byte, error) {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("client: encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User-ID", c.actor.UserID)
	req.Header.Set("X-User-Name", c.actor.Name)
	req.Header.Set("X-User-Role", c.actor.Role)
	req.Header.Set("X-Tenant-ID", c.actor.TenantID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrNetwork, method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, decodeError(resp, raw)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrNetwork, err)
	}
	return raw, nil
}

// decodeError maps an error response back onto the domain taxonomy
func decodeError(resp *http.Response, raw []byte) error {
	var body errorBody
	_ = json.Unmarshal(raw, &body)
	msg := body.Message
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	if msg == "" {
		msg = resp.Status
	}

	switch {
	case body.Error == "validation_error" || (body.Error == "" && resp.StatusCode == http.StatusBadRequest):
		verr := domain.NewValidationError()
		for k, v := range body.Fields {
			verr.Add(k, v)
		}
		if len(verr.Fields) == 0 {
			verr.Add("request", msg)
		}
		return verr
	case body.Error == "upload_error" || resp.StatusCode == http.StatusUnprocessableEntity:
		return &domain.UploadError{Reason: msg}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &domain.RateLimitError{RetryAfter: retryAfter(resp.Header.Get("Retry-After"))}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrForbidden, msg)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrDuplicateApplication, msg)
	default:
		return fmt.Errorf("%w: server returned %d: %s", domain.ErrNetwork, resp.StatusCode, msg)
	}
}

func retryAfter(v string) time.Duration {
	if v == "" {
		return defaultRetryAfter
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return defaultRetryAfter
}

// IsRetryable reports whether err is transient: network trouble or a 429
func IsRetryable(err error) bool {
	return errors.Is(err, domain.ErrNetwork) || errors.Is(err, domain.ErrRateLimited)
}
