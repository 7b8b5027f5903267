// Package gif resolves a keyword to an animated image URL using the Giphy
// search API. Any failure resolves to Placeholder.
package gif

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	transporthttp "krypt-tui/transport/http"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	// Placeholder is returned whenever a lookup fails.
	Placeholder = "https://i.pinimg.com/originals/73/d3/a1/73d3a14d212314ab1f7268b71d639c15.gif"

	// DefaultBaseURL is the Giphy API root.
	DefaultBaseURL = "https://api.giphy.com"

	searchPath = "/v1/gifs/search"
)

var (
	// ErrNoAPIKey is returned by Lookup when the resolver has no API key.
	ErrNoAPIKey = errors.New("giphy api key not configured")

	// ErrNoResults is returned by Lookup when the search finds nothing usable.
	ErrNoResults = errors.New("giphy search returned no results")

	errEmptyQuery = errors.New("empty query")
)

type searchResponse struct {
	Data []struct {
		Images struct {
			DownsizedMedium struct {
				URL string `json:"url"`
			} `json:"downsized_medium"`
		} `json:"images"`
	} `json:"data"`
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithBaseURL points the resolver at another API root.
func WithBaseURL(u string) Option {
	return func(r *Resolver) { r.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *retryablehttp.Client) Option {
	return func(r *Resolver) { r.client = c }
}

// WithLogger sets the logger failures are reported to.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// Resolver looks up keywords. It keeps no state between calls.
type Resolver struct {
	apiKey  string
	baseURL string
	client  *retryablehttp.Client
	logger  *log.Logger
}

// New returns a Resolver using apiKey.
func New(apiKey string, opts ...Option) *Resolver {
	r := &Resolver{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.client == nil {
		r.client = transporthttp.NewClient(
			transporthttp.WithTimeout(5*time.Second),
			transporthttp.WithLogger(r.logger),
		)
	}
	return r
}

// Query turns a keyword into the search term sent to the API.
func Query(keyword string) string {
	return strings.ReplaceAll(keyword, " ", "")
}

// Resolve returns the URL for keyword. An empty keyword returns "" without
// a request. Every failure returns Placeholder.
func (r *Resolver) Resolve(ctx context.Context, keyword string) string {
	if keyword == "" {
		return ""
	}

	u, err := r.Lookup(ctx, keyword)
	if err != nil {
		r.logger.Debug("gif lookup failed", "keyword", keyword, "err", err)
		return Placeholder
	}
	return u
}

// Lookup performs the search and reports why it failed.
func (r *Resolver) Lookup(ctx context.Context, keyword string) (string, error) {
	if r.apiKey == "" {
		return "", ErrNoAPIKey
	}
	q := Query(keyword)
	if q == "" {
		return "", errEmptyQuery
	}

	params := url.Values{}
	params.Set("api_key", r.apiKey)
	params.Set("q", q)
	params.Set("limit", "1")

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+searchPath+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("giphy search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("giphy search: unexpected status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode giphy response: %w", err)
	}

	if len(body.Data) == 0 || body.Data[0].Images.DownsizedMedium.URL == "" {
		return "", ErrNoResults
	}
	return body.Data[0].Images.DownsizedMedium.URL, nil
}
