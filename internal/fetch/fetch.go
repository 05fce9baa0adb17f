// Package fetch provides the HTTP GET capability shared by the source
// adapters: a hard per-request timeout, a small bounded retry and a
// politeness delay between consecutive requests to the same provider.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	UserAgent = "aom-harvest/1.0 (+https://github.com/aomarket/aom-harvest)"

	// Timeout is the hard per-request limit. A stuck call completes or
	// times out on its own; the orchestrator's soft budget never preempts
	// it mid-flight.
	Timeout = 12 * time.Second

	// MaxRetries bounds retransmissions per request. Kept minimal so a
	// dead provider fails fast instead of making the run flaky-slow.
	MaxRetries = 1

	retryWait       = 500 * time.Millisecond
	politenessDelay = 750 * time.Millisecond
)

// Client wraps an http.Client with the harvester's request conventions.
type Client struct {
	http  *http.Client
	delay time.Duration
	sleep func(time.Duration)
}

// Option configures a Client.
type Option func(*Client)

// WithDelay overrides the politeness delay. Tests pass zero.
func WithDelay(d time.Duration) Option {
	return func(c *Client) { c.delay = d }
}

// WithSleeper overrides the sleep function used for delays and retries.
func WithSleeper(fn func(time.Duration)) Option {
	return func(c *Client) { c.sleep = fn }
}

// New creates a Client with the default timeout and politeness delay.
func New(opts ...Option) *Client {
	c := &Client{
		http:  &http.Client{Timeout: Timeout},
		delay: politenessDelay,
		sleep: time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HTTPClient exposes the underlying http.Client for request libraries
// that manage their own plumbing.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// Get performs a GET request and returns the response status and body.
// Transport errors are retried up to MaxRetries times with a short fixed
// backoff; a non-2xx status is not an error here, callers decide what it
// means for their source.
func (c *Client) Get(ctx context.Context, url string) (int, []byte, error) {
	var status int
	var body []byte

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("User-Agent", UserAgent)
		req.Header.Set("Accept", "*/*")

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", url, err)
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading body: %w", err)
		}

		status = resp.StatusCode
		body = b
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(retryWait), MaxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return 0, nil, err
	}
	return status, body, nil
}

// Pause sleeps for the politeness delay. Adapters call it between
// consecutive requests to the same provider.
func (c *Client) Pause() {
	if c.delay > 0 {
		c.sleep(c.delay)
	}
}
