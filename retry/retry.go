// Package retry runs an operation until it succeeds, the attempt budget is
// spent or the context is done. It wraps avast/retry-go with exponential
// backoff and is used to poll for transaction receipts.
package retry

import (
	"context"
	"time"

	retry "github.com/avast/retry-go/v4"
)

// Retry executes operations with retry logic.
type Retry interface {
	// Execute runs operation until it returns nil, returns an error wrapped
	// with Unrecoverable, the attempts are exhausted or ctx is done.
	Execute(ctx context.Context, operation func() error) error
}

type config struct {
	attempts    uint
	delay       time.Duration
	maxDelay    time.Duration
	lastErrOnly bool
}

// Option configures a Retry.
type Option func(*config)

type retrier struct {
	cfg config
}

var _ Retry = (*retrier)(nil)

// New returns a Retry. Defaults: 3 attempts, 1s base delay, 5s max delay,
// only the last error is returned.
func New(opts ...Option) Retry {
	cfg := config{
		attempts:    3,
		delay:       1 * time.Second,
		maxDelay:    5 * time.Second,
		lastErrOnly: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &retrier{cfg: cfg}
}

func (r *retrier) Execute(ctx context.Context, operation func() error) error {
	return retry.Do(operation,
		retry.Attempts(r.cfg.attempts),
		retry.Delay(r.cfg.delay),
		retry.MaxDelay(r.cfg.maxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(r.cfg.lastErrOnly),
		retry.Context(ctx),
	)
}

// Unrecoverable marks err so Execute stops immediately and returns it.
func Unrecoverable(err error) error {
	return retry.Unrecoverable(err)
}

// WithAttempts sets the total number of attempts. Zero retries forever,
// bounded only by the context.
func WithAttempts(n uint) Option {
	return func(c *config) {
		c.attempts = n
	}
}

// WithDelay sets the base delay between attempts.
func WithDelay(d time.Duration) Option {
	return func(c *config) {
		c.delay = d
	}
}

// WithMaxDelay caps the backoff delay.
func WithMaxDelay(d time.Duration) Option {
	return func(c *config) {
		c.maxDelay = d
	}
}

// WithLastErrorOnly selects between returning the last error (true) or all
// errors joined (false).
func WithLastErrorOnly(b bool) Option {
	return func(c *config) {
		c.lastErrOnly = b
	}
}
