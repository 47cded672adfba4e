package clients

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

	"github.com/sirupsen/logrus"
)

// Response is a settled 2xx reply from the remote API.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// HTTPError is returned for any non-2xx reply. The body is kept for inspection.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s returned status %d", e.Method, e.Path, e.StatusCode)
}

// StatusCodeOf extracts the HTTP status from err when the failure was an HTTP one.
func StatusCodeOf(err error) (int, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode, true
	}
	return 0, false
}

// ResponseBodyOf returns the response body carried by an HTTP failure, if any.
func ResponseBodyOf(err error) []byte {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Body
	}
	return nil
}

type APIClient interface {
	Get(ctx context.Context, path string) (*Response, error)
	Post(ctx context.Context, path string, body interface{}) (*Response, error)
}

type apiHTTPClient struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger
}

type Option func(*apiHTTPClient)

// WithTimeout sets a whole-request timeout. Zero keeps the default of none.
func WithTimeout(timeout time.Duration) Option {
	return func(c *apiHTTPClient) {
		c.client.Timeout = timeout
	}
}

// WithTransport replaces the underlying round tripper, mostly for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *apiHTTPClient) {
		c.client.Transport = rt
	}
}

func NewAPIClient(baseURL string, logger *logrus.Logger, opts ...Option) (APIClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q", baseURL)
	}
	c := &apiHTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		log:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *apiHTTPClient) Get(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *apiHTTPClient) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		c.log.Errorf("APIClient: Failed to marshal POST %s payload: %v", path, err)
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	c.log.WithField("payload", string(payload)).Debugf("APIClient: POST %s payload", path)
	return c.do(ctx, http.MethodPost, path, payload)
}

func (c *apiHTTPClient) do(ctx context.Context, method, path string, payload []byte) (*Response, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	target := c.baseURL + path

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		c.log.Errorf("APIClient: Failed to create %s request for %s: %v", method, target, err)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("APIClient: Failed to execute %s %s: %v", method, path, err)
		return nil, fmt.Errorf("failed to communicate with API (%s %s): %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Errorf("APIClient: Failed to read %s %s response body: %v", method, path, err)
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"status": resp.StatusCode,
	}).Debugf("APIClient: %s %s -> %d", method, path, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warnf("APIClient: %s %s failed with status %d. Response body: %s", method, path, resp.StatusCode, string(respBody))
		return nil, &HTTPError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       respBody,
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}
