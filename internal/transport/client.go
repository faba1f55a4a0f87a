// Package transport is the outbound HTTP layer for the movie catalog:
// credential handling, request pacing and response decoding.
package transport

import (
	"context"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/agentstation/cinemap/pkg/errors"
)

// Client sends authenticated, paced requests. It performs exactly one
// attempt per call and never retries.
type Client struct {
	http       *http.Client
	auth       Authenticator
	credential string
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. The default has no
// timeout; callers bound requests through their context.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRateLimit paces requests to rps per second with the given burst.
// A non-positive rps disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// New creates a client that applies credential with auth.
func New(auth Authenticator, credential string, opts ...Option) *Client {
	if auth == nil {
		auth = NoAuth{}
	}
	c := &Client{
		http:       &http.Client{},
		auth:       auth,
		credential: credential,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do waits for a pacing slot, applies the credential and sends req.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if c.credential != "" {
		c.auth.Apply(req, c.credential)
	}
	req.Header.Set("Accept", "application/json")
	return c.http.Do(req.WithContext(ctx))
}

// Get issues a GET for url.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+url, err)
	}
	return c.Do(ctx, req)
}
