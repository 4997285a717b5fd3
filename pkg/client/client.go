// Package client is the Go SDK for the LexBridge-Intelligence HTTP
// API: jurisdiction detection, legal analysis runs, document storage,
// and analysis search. The zero-dependency surface mirrors the API's
// envelope; transient failures retry with jittered backoff.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Version is stamped into the User-Agent header.
const Version = "0.1.0"

// Logger is the SDK's optional logging hook.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}
func (noopLogger) Infof(string, ...interface{})  {}
func (noopLogger) Errorf(string, ...interface{}) {}

// Client is the LexBridge-Intelligence SDK client.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	apiKey       string
	userAgent    string
	logger       Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration

	analyses      *AnalysesClient
	analysesOnce  sync.Once
	documents     *DocumentsClient
	documentsOnce sync.Once
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lexbridge: %s (HTTP %d): %s [request_id=%s]", e.Code, e.StatusCode, e.Message, e.RequestID)
}

// IsNotFound reports a 404 answer.
func (e *APIError) IsNotFound() bool { return e.StatusCode == http.StatusNotFound }

// IsRateLimited reports a 429 answer.
func (e *APIError) IsRateLimited() bool { return e.StatusCode == http.StatusTooManyRequests }

// IsServerError reports a 5xx answer.
func (e *APIError) IsServerError() bool { return e.StatusCode >= 500 && e.StatusCode < 600 }

// Page is the pagination block of a list answer.
type Page struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total,omitempty"`
}

// envelope mirrors the API's response wrapper.
type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data,omitempty"`
	Error      *errorDetail    `json:"error,omitempty"`
	Pagination *Page           `json:"pagination,omitempty"`
	RequestID  string          `json:"request_id,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewClient builds an SDK client against baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("lexbridge: baseURL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("lexbridge: invalid baseURL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("lexbridge: baseURL scheme must be http or https")
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		userAgent:    fmt.Sprintf("lexbridge-go-sdk/%s", Version),
		logger:       noopLogger{},
		retryMax:     3,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Analyses returns the analysis sub-client.
func (c *Client) Analyses() *AnalysesClient {
	c.analysesOnce.Do(func() {
		c.analyses = &AnalysesClient{client: c}
	})
	return c.analyses
}

// Documents returns the document sub-client.
func (c *Client) Documents() *DocumentsClient {
	c.documentsOnce.Do(func() {
		c.documents = &DocumentsClient{client: c}
	})
	return c.documents
}

// do performs one API call with retries, decoding the envelope's data
// block into result. It returns the pagination block when present.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, result interface{}) (*Page, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	fullURL := c.baseURL + path

	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("lexbridge: failed to marshal request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			backoff := c.backoff(attempt)
			c.logger.Debugf("retry attempt %d after %v", attempt, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		var bodyReader io.Reader
		if bodyBytes != nil {
			bodyReader = bytes.NewReader(bodyBytes)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("lexbridge: failed to create request: %w", err)
		}

		requestID := uuid.NewString()
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("X-Request-ID", requestID)

		started := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Errorf("request failed: %v", err)
			lastErr = err
			continue
		}
		c.logger.Debugf("%s %s %d (%v)", method, path, resp.StatusCode, time.Since(started))

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("lexbridge: failed to read response body: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && attempt < c.retryMax {
				select {
				case <-time.After(time.Duration(seconds) * time.Second):
					continue
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
		}

		if resp.StatusCode >= 400 {
			apiErr := &APIError{StatusCode: resp.StatusCode, RequestID: requestID}
			var env envelope
			if json.Unmarshal(respBody, &env) == nil && env.Error != nil {
				apiErr.Code = env.Error.Code
				apiErr.Message = env.Error.Message
				if env.RequestID != "" {
					apiErr.RequestID = env.RequestID
				}
			} else {
				apiErr.Message = string(respBody)
			}
			lastErr = apiErr
			if resp.StatusCode >= 500 {
				continue
			}
			return nil, apiErr
		}

		var env envelope
		if err := json.Unmarshal(respBody, &env); err != nil {
			return nil, fmt.Errorf("lexbridge: failed to decode response: %w", err)
		}
		if result != nil && len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, result); err != nil {
				return nil, fmt.Errorf("lexbridge: failed to decode response data: %w", err)
			}
		}
		return env.Pagination, nil
	}
	return nil, lastErr
}

// doRaw performs one non-enveloped call (plain-text endpoints).
func (c *Client) doRaw(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("lexbridge: failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("lexbridge: failed to read response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(body)}
		var env envelope
		if json.Unmarshal(body, &env) == nil && env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return nil, apiErr
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, path string, result interface{}) (*Page, error) {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result interface{}) (*Page, error) {
	return c.do(ctx, http.MethodPost, path, body, result)
}

func (c *Client) backoff(attempt int) time.Duration {
	backoff := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if backoff > c.retryWaitMax {
		backoff = c.retryWaitMax
	}
	jitter := time.Duration(rand.Int63n(int64(backoff/4) + 1))
	return backoff + jitter
}
