// Package gateway is the typed HTTP client for the storefront backend. It
// owns request building (JSON and multipart), bearer authentication, and
// error normalization; payloads are returned decoded into the canonical
// types without further reshaping.
package gateway

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

	"github.com/google/uuid"
)

const apiPrefix = "/api"

// placeholderImage is served for products and avatars without an image.
const placeholderImage = "https://via.placeholder.com/200"

// Client performs all backend calls. It is a leaf component: it holds no
// application state and receives the bearer token per call.
type Client struct {
	baseURL string
	http    *http.Client
}

// New constructs a Client for the backend at baseURL (scheme and host,
// without the /api prefix).
func New(baseURL string, timeout time.Duration) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("gateway: base URL is required")
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("gateway: invalid base URL: %w", err)
	}

	return &Client{
		baseURL: trimmed,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// ImageURL resolves an image path from a backend payload into a full URL.
// Empty paths resolve to a placeholder image.
func (c *Client) ImageURL(path string) string {
	if path == "" {
		return placeholderImage
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return nil, fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// doJSON sends a request with an optional JSON body and decodes the
// response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("gateway: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

// doMultipart sends a multipart form built by build and decodes the
// response into out when out is non-nil.
func (c *Client) doMultipart(ctx context.Context, method, path, token string, build func(*formWriter) error, out any) error {
	var buf bytes.Buffer
	fw := newFormWriter(&buf)
	if err := build(fw); err != nil {
		return err
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("gateway: close form: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, token, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", fw.ContentType())
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("gateway: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newRequestError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("gateway: decode response: %w", err)
	}
	return nil
}

const maxResponseBytes = 8 << 20
