// Package azure is the thin HTTP layer shared by the Translator and
// Computer Vision calls: it attaches the subscription headers, sends the
// request and hands back the raw response.
package azure

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	HeaderSubscriptionKey    = "Ocp-Apim-Subscription-Key"
	HeaderSubscriptionRegion = "Ocp-Apim-Subscription-Region"
	HeaderOperationLocation  = "Operation-Location"

	// maxBodyBytes caps how much of a response body is read into memory.
	maxBodyBytes = 10 << 20
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

type Client struct {
	key        string
	region     string
	httpClient *http.Client
}

type Option func(c *Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRegion sets the value of the Ocp-Apim-Subscription-Region header.
// Only the Translator resource needs it.
func WithRegion(region string) Option {
	return func(c *Client) {
		c.region = region
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

func NewClient(key string, options ...Option) *Client {
	c := &Client{
		key:        key,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Do sends a request with the subscription headers attached. A non-2xx
// status is not an error here; callers branch on StatusCode.
func (c *Client) Do(ctx context.Context, method, url, contentType string, body []byte) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(HeaderSubscriptionKey, c.key)
	if c.region != "" {
		req.Header.Set(HeaderSubscriptionRegion, c.region)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, url, "", nil)
}

func (c *Client) Post(ctx context.Context, url, contentType string, body []byte) (*Response, error) {
	return c.Do(ctx, http.MethodPost, url, contentType, body)
}
