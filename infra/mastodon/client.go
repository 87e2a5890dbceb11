package mastodon

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/bcgodev/tootdeck/domain"
	"github.com/bcgodev/tootdeck/infra/auth"
)

// Mastodon allows 300 requests per 5 minutes per account; stay well under
// that so a busy session never trips the server-side limiter.
const (
	requestsPerSecond = 1
	requestBurst      = 5
)

// Client is a thin HTTP wrapper for the Mastodon API. It handles base URL
// construction, bearer token injection and client-side rate limiting.
type Client struct {
	baseURL       string
	tokenProvider auth.TokenProvider
	http          *http.Client
	limiter       *rate.Limiter
}

// NewClient creates a Mastodon API client.
func NewClient(baseURL string, tp auth.TokenProvider) *Client {
	return &Client{
		baseURL:       baseURL,
		tokenProvider: tp,
		http:          &http.Client{},
		limiter:       rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
	}
}

// Get performs an authenticated GET request.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	data, code, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return data, checkStatus(http.MethodGet, path, code, data)
}

// GetRaw performs an authenticated GET and returns the status code without
// treating non-2xx as an error. Used where the code itself carries meaning
// (media processing returns 206 until the upload is ready).
func (c *Client) GetRaw(ctx context.Context, path string) ([]byte, int, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post performs an authenticated POST request.
func (c *Client) Post(ctx context.Context, path string, body io.Reader) ([]byte, error) {
	data, code, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	return data, checkStatus(http.MethodPost, path, code, data)
}

// PostMultipart performs an authenticated POST with a multipart body and
// returns the raw status code (media uploads use 202 for "accepted but
// still processing").
func (c *Client) PostMultipart(ctx context.Context, path, contentType string, body io.Reader) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limit wait: %w", err)
	}

	token, err := c.tokenProvider.AccessToken()
	if err != nil {
		return nil, 0, fmt.Errorf("auth: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request to %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("reading response: %w", err)
	}
	return data, resp.StatusCode, nil
}

// Put performs an authenticated PUT request.
func (c *Client) Put(ctx context.Context, path string, body io.Reader) ([]byte, error) {
	data, code, err := c.do(ctx, http.MethodPut, path, body)
	if err != nil {
		return nil, err
	}
	return data, checkStatus(http.MethodPut, path, code, data)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limit wait: %w", err)
	}

	token, err := c.tokenProvider.AccessToken()
	if err != nil {
		return nil, 0, fmt.Errorf("auth: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request to %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("reading response: %w", err)
	}

	return data, resp.StatusCode, nil
}

func checkStatus(method, path string, code int, data []byte) error {
	if code >= 200 && code < 300 {
		return nil
	}
	return &domain.APIError{
		StatusCode: code,
		Method:     method,
		Path:       path,
		Body:       string(data),
	}
}
