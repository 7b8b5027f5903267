// Package jsonrpc is a minimal JSON-RPC 2.0 client over HTTP used to talk to
// wallet providers. Unlike ethclient it does not assume a full node on the
// other side: only the handful of account and signing methods a wallet exposes.
package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	transporthttp "krypt-tui/transport/http"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

// Well-known error codes returned by providers.
const (
	CodeMethodNotFound = -32601
	CodeUserRejected   = 4001 // EIP-1193
)

// ErrProviderReturnedError is wrapped by every *Error.
var ErrProviderReturnedError = errors.New("provider error")

// Error is a JSON-RPC error object returned by the provider.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: [%d] - %s", ErrProviderReturnedError, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return ErrProviderReturnedError
}

// IsCode reports whether err carries a provider error with the given code.
func IsCode(err error, code int) bool {
	var rpcErr *Error
	return errors.As(err, &rpcErr) && rpcErr.Code == code
}

type response struct {
	JsonRPC string          `json:"jsonrpc"`
	Error   *Error          `json:"error"`
	Result  json.RawMessage `json:"result"`
}

func (r response) Err() error {
	if r.Error == nil {
		return nil
	}
	return r.Error
}

// Client sends JSON-RPC requests to a single endpoint.
type Client struct {
	endpoint   string
	httpClient *retryablehttp.Client
}

// NewClient returns a Client for endpoint. opts tune the underlying
// retrying HTTP client.
func NewClient(endpoint string, opts ...transporthttp.Option) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: transporthttp.NewClient(opts...),
	}
}

// Endpoint returns the provider URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Fetch sends method with params and returns the raw result. Request ids are
// random UUID strings.
func (c *Client) Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}

	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      uuid.NewString(),
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var data response
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode %s response (status %d): %w", method, res.StatusCode, err)
	}

	if err := data.Err(); err != nil {
		return nil, err
	}
	return data.Result, nil
}

// Call is Fetch followed by decoding the result into out. A null result
// leaves out untouched.
func (c *Client) Call(ctx context.Context, out any, method string, params ...any) error {
	raw, err := c.Fetch(ctx, method, params...)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, out)
}
