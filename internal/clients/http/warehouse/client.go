// Package warehouse is the outbound HTTP client for the external warehouse service.
package warehouse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
)

// maxBodyBytes caps how much of a warehouse payload is buffered.
const maxBodyBytes = 1 << 20

// ErrUnavailable wraps every failure to obtain a payload: transport errors, cancellations and
// non-success statuses alike.
var ErrUnavailable = errors.New("warehouse service unavailable")

// StatusError reports a non-2xx answer from the warehouse.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("warehouse API unexpected status: %s", e.Status)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnavailable
}

// Response is the raw warehouse payload for one product.
type Response struct {
	ProductID   int64
	Body        []byte
	ContentType string
}

// Client calls GET {base}/api/products/{productId}.
type Client struct {
	server     string
	httpClient *http.Client
	metrics    *Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithMetrics records request outcomes on m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient instantiates the warehouse client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("warehouse base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse warehouse base URL: %w", err)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	c := &Client{server: baseURL, httpClient: httpClient}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// FetchProductInfo retrieves the warehouse payload for productID. The call honours ctx cancellation
// and performs no retries.
func (c *Client) FetchProductInfo(ctx context.Context, productID int64) (*Response, error) {
	if c == nil || c.httpClient == nil {
		return nil, fmt.Errorf("%w: client not configured", ErrUnavailable)
	}
	req, err := c.newFetchRequest(ctx, productID)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(outcomeTransport, time.Since(started))
		return nil, fmt.Errorf("%w: call warehouse API: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		c.metrics.observe(outcomeStatus, time.Since(started))
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.metrics.observe(outcomeTransport, time.Since(started))
		return nil, fmt.Errorf("%w: read warehouse body: %w", ErrUnavailable, err)
	}
	c.metrics.observe(outcomeSuccess, time.Since(started))
	return &Response{
		ProductID:   productID,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

func (c *Client) newFetchRequest(ctx context.Context, productID int64) (*http.Request, error) {
	pathParam, err := runtime.StyleParamWithLocation("simple", false, "productId", runtime.ParamLocationPath, productID)
	if err != nil {
		return nil, err
	}
	serverURL, err := url.Parse(c.server)
	if err != nil {
		return nil, err
	}
	operationPath := fmt.Sprintf("./api/products/%s", pathParam)
	queryURL, err := serverURL.Parse(operationPath)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, text/plain;q=0.9, */*;q=0.8")
	return req, nil
}
