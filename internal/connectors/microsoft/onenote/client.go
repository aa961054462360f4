package onenote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/onenote-cli/internal/connectors/microsoft"
	"github.com/custodia-labs/onenote-cli/internal/core/ports/driven"
	"github.com/custodia-labs/onenote-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.NotesAPI = (*Client)(nil)

// Client wraps Graph HTTP verbs with authentication, decoding and error surfacing.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	tokenProvider driven.TokenProvider
	rateLimiter   *microsoft.RateLimiter
}

// New creates a Graph client. A nil cfg selects DefaultConfig.
func New(cfg *Config, tokenProvider driven.TokenProvider) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    httpClient,
		tokenProvider: tokenProvider,
		rateLimiter:   microsoft.NewRateLimiterWithConfig(microsoft.ServiceOneNote, cfg.RateLimit),
	}
}

// GetJSON performs a GET and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, url, nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !microsoft.IsSuccess(resp.StatusCode) {
		return microsoft.NewHTTPError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// GetText performs a GET and returns the raw response body.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, url, nil, http.Header{"Accept": {"text/html"}})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if !microsoft.IsSuccess(resp.StatusCode) {
		return "", microsoft.NewHTTPError(resp)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(body), nil
}

// Post sends payload with the given headers.
// Returns the raw JSON response, or nil when the response body is empty.
func (c *Client) Post(ctx context.Context, url string, payload []byte, headers http.Header) (json.RawMessage, error) {
	resp, err := c.do(ctx, http.MethodPost, url, payload, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !microsoft.IsSuccess(resp.StatusCode) {
		return nil, microsoft.NewHTTPError(resp)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	return json.RawMessage(body), nil
}

// Delete performs a DELETE.
func (c *Client) Delete(ctx context.Context, url string) error {
	resp, err := c.do(ctx, http.MethodDelete, url, nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !microsoft.IsSuccess(resp.StatusCode) {
		return microsoft.NewHTTPError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// resolve joins a relative path to the base URL. Absolute URLs such as
// @odata.nextLink values pass through unchanged.
func (c *Client) resolve(url string) string {
	if strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "http://") {
		return url
	}
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return c.baseURL + url
}

// do performs an HTTP request with a bearer token fetched for this call.
func (c *Client) do(
	ctx context.Context, method, url string, body []byte, headers http.Header,
) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	token, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}
	target := c.resolve(url)
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	for k, vs := range headers {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	requestID := uuid.NewString()
	req.Header.Set("client-request-id", requestID)

	logger.Debug("onenote: %s %s (client-request-id %s)", method, target, requestID)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", strings.ToLower(method), err)
	}

	if microsoft.IsRateLimited(resp.StatusCode) {
		retryAfter := microsoft.RetryAfterSeconds(resp.Header.Get("Retry-After"))
		c.rateLimiter.RecordRateLimitError(retryAfter)
		logger.Warn("onenote: %s requests throttled (retry after %ds)", c.rateLimiter.Service(), retryAfter)
	}
	logger.Debug("onenote: %s %s -> %d", method, target, resp.StatusCode)
	return resp, nil
}
