// Package transport is the HTTP layer underneath the postgrest builders:
// a base URL, shared default headers, optional exponential-backoff retry,
// request tagging and metrics. It reports transport-level failures only;
// non-2xx responses are returned to the caller for normalization.
package transport

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

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edgeflare/pgrst/pkg/metrics"
)

// RequestIDHeader tags outgoing requests when Config.RequestID is set.
const RequestIDHeader = "X-Request-Id"

// RetryConfig controls retry of failed exchanges. Only network errors
// and 5xx responses are retried; data mutations are not generally
// idempotent, so retry is off unless enabled explicitly.
type RetryConfig struct {
	Enabled        bool
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns the retry parameters used when retry is
// enabled without further tuning.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Enabled:        true,
		MaxRetries:     3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
	}
}

// Config holds construction parameters for a Client.
type Config struct {
	BaseURL    string
	Headers    http.Header   // default headers sent with every request
	Timeout    time.Duration // per-attempt timeout, default 30s
	Retry      RetryConfig
	Logger     *zap.Logger // nil disables logging
	RequestID  bool        // tag each request with a uuid X-Request-Id
	Metrics    bool        // record into pkg/metrics collectors
	HTTPClient *http.Client
}

// Client performs HTTP exchanges against a single base URL. Safe for
// concurrent use once constructed; SetHeader is not synchronized and
// belongs in the setup phase.
type Client struct {
	baseURL    string
	headers    http.Header
	httpClient *http.Client
	retry      RetryConfig
	logger     *zap.Logger
	requestID  bool
	metrics    bool
}

// Response is a completed HTTP exchange with the body drained.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	headers := make(http.Header)
	for k, vs := range cfg.Headers {
		for _, v := range vs {
			headers.Add(k, v)
		}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		headers:    headers,
		httpClient: httpClient,
		retry:      cfg.Retry,
		logger:     cfg.Logger,
		requestID:  cfg.RequestID,
		metrics:    cfg.Metrics,
	}
}

// SetHeader sets a default header sent with every request.
func (c *Client) SetHeader(key, value string) { c.headers.Set(key, value) }

// DelHeader removes a default header.
func (c *Client) DelHeader(key string) { c.headers.Del(key) }

// Header reports the current default header value.
func (c *Client) Header(key string) string { return c.headers.Get(key) }

// BaseURL reports the configured base URL, trailing slash stripped.
func (c *Client) BaseURL() string { return c.baseURL }

// retryableStatus carries a 5xx response through backoff so the final
// response is still surfaced to the caller after retries are exhausted.
type retryableStatus struct {
	resp *Response
}

func (e *retryableStatus) Error() string {
	return fmt.Sprintf("server returned status %d", e.resp.StatusCode)
}

// Request performs one HTTP exchange. Per-request headers override the
// client defaults; params are encoded onto the URL. A []byte or string
// payload is sent as-is, anything else non-nil is JSON-marshalled.
// The returned error covers transport failures only.
func (c *Client) Request(ctx context.Context, method, path string, params url.Values, headers http.Header, payload any) (*Response, error) {
	body, err := encodePayload(payload)
	if err != nil {
		return nil, err
	}

	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var resp *Response
	start := time.Now()

	operation := func() error {
		var reqBody io.Reader
		if body != nil {
			reqBody = bytes.NewReader(body)
		}
		req, reqErr := http.NewRequestWithContext(ctx, method, u, reqBody)
		if reqErr != nil {
			return backoff.Permanent(reqErr)
		}
		c.setHeaders(req, headers, body != nil)

		r, doErr := c.httpClient.Do(req)
		if doErr != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(doErr)
			}
			c.logWarn("request attempt failed", zap.String("method", method), zap.String("url", u), zap.Error(doErr))
			return fmt.Errorf("request failed: %w", doErr)
		}
		defer r.Body.Close()

		respBody, readErr := io.ReadAll(r.Body)
		if readErr != nil {
			return fmt.Errorf("failed to read response body: %w", readErr)
		}
		resp = &Response{StatusCode: r.StatusCode, Body: respBody, Headers: r.Header}

		if c.retry.Enabled && r.StatusCode >= 500 {
			c.logWarn("retrying on server error", zap.String("method", method), zap.String("url", u), zap.Int("status", r.StatusCode))
			return &retryableStatus{resp: resp}
		}
		return nil
	}

	if c.retry.Enabled {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = c.retry.InitialBackoff
		b.MaxInterval = c.retry.MaxBackoff
		b.MaxElapsedTime = time.Duration(c.retry.MaxRetries) * c.retry.MaxBackoff
		err = backoff.Retry(operation, backoff.WithContext(b, ctx))
	} else {
		err = operation()
	}

	if err != nil {
		var rs *retryableStatus
		if errors.As(err, &rs) {
			// Retries exhausted on a 5xx: hand the response back for
			// normal error normalization.
			c.observe(method, rs.resp.StatusCode, start)
			return rs.resp, nil
		}
		if c.metrics {
			metrics.RequestErrors.WithLabelValues("transport").Inc()
		}
		return nil, err
	}

	c.observe(method, resp.StatusCode, start)
	return resp, nil
}

func (c *Client) setHeaders(req *http.Request, headers http.Header, hasBody bool) {
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for k, vs := range headers {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if hasBody && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.requestID && req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.New().String())
	}
}

func (c *Client) observe(method string, status int, start time.Time) {
	if !c.metrics {
		return
	}
	metrics.RequestsTotal.WithLabelValues(method, fmt.Sprintf("%d", status)).Inc()
	metrics.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

func (c *Client) logWarn(msg string, fields ...zap.Field) {
	if c.logger != nil {
		c.logger.Warn(msg, fields...)
	}
}

func encodePayload(payload any) ([]byte, error) {
	if payload == nil {
		return nil, nil
	}
	switch v := payload.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		return b, nil
	}
}
