// Package http builds the retrying HTTP client used by the wallet provider
// and the Giphy resolver.
package http

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-retryablehttp"
)

// Option mutates the client before NewClient returns it.
type Option func(*retryablehttp.Client)

// NewClient returns a retryablehttp.Client with a 10s attempt timeout and two
// retries spaced 500ms to 3s apart, then applies opts in order. Without
// WithLogger the client is silent.
func NewClient(opts ...Option) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.Logger = nil
	c.HTTPClient.Timeout = 10 * time.Second
	c.RetryWaitMin = 500 * time.Millisecond
	c.RetryWaitMax = 3 * time.Second
	c.RetryMax = 2

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithTimeout bounds a single attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *retryablehttp.Client) { c.HTTPClient.Timeout = d }
}

// WithRetryWaitMin sets the shortest backoff.
func WithRetryWaitMin(d time.Duration) Option {
	return func(c *retryablehttp.Client) { c.RetryWaitMin = d }
}

// WithRetryWaitMax sets the longest backoff.
func WithRetryWaitMax(d time.Duration) Option {
	return func(c *retryablehttp.Client) { c.RetryWaitMax = d }
}

// WithRetryMax sets the number of retries after the first attempt. Zero
// sends every request once.
func WithRetryMax(n int) Option {
	return func(c *retryablehttp.Client) { c.RetryMax = n }
}

// WithLogger reports retried attempts and failing status codes to l at debug
// level. Only the host and path are logged: Giphy URLs carry the API key in
// the query.
func WithLogger(l *log.Logger) Option {
	return func(c *retryablehttp.Client) {
		if l == nil {
			return
		}
		c.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
			if attempt == 0 {
				return
			}
			l.Debug("retrying request", "method", req.Method, "url", redact(req), "attempt", attempt)
		}
		c.ResponseLogHook = func(_ retryablehttp.Logger, resp *http.Response) {
			if resp.StatusCode < http.StatusBadRequest {
				return
			}
			l.Debug("request failed", "method", resp.Request.Method, "url", redact(resp.Request), "status", resp.StatusCode)
		}
	}
}

func redact(req *http.Request) string {
	return req.URL.Host + req.URL.Path
}
