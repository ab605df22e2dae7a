// Package dexscreener is a REST client for the DexScreener pair aggregator.
// Requests are rate limited and wrapped in a circuit breaker; callers above
// this layer translate any returned error into "zero pairs".
package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"cascreener/internal/domain"
)

// Default configuration values. DexScreener allows 300 requests per minute on
// the public endpoints.
const (
	DefaultBaseURL           = "https://api.dexscreener.com"
	DefaultTimeout           = 10 * time.Second
	DefaultMaxRetries        = 2
	DefaultRetryDelay        = 500 * time.Millisecond
	DefaultRequestsPerMinute = 300
)

// Client talks to the DexScreener REST API.
type Client struct {
	baseURL    string
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]domain.DexPair]
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithMaxRetries sets maximum retry attempts for retryable failures.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets the base delay between retries.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithRequestsPerMinute adjusts the client-side rate limit.
func WithRequestsPerMinute(n int) Option {
	return func(c *Client) {
		c.limiter = newLimiter(n)
	}
}

func newLimiter(requestsPerMinute int) *rate.Limiter {
	rps := float64(requestsPerMinute) / 60.0
	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// NewClient creates a DexScreener client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		client:     &http.Client{Timeout: DefaultTimeout},
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		limiter:    newLimiter(DefaultRequestsPerMinute),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]domain.DexPair](gobreaker.Settings{
		Name:    "dexscreener",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return c
}

// TokenPairs returns every pair that includes the given token address on the
// given chain.
func (c *Client) TokenPairs(ctx context.Context, chainID, tokenAddress string) ([]domain.DexPair, error) {
	endpoint := fmt.Sprintf("%s/token-pairs/v1/%s/%s",
		c.baseURL, url.PathEscape(chainID), url.PathEscape(tokenAddress))
	return c.breaker.Execute(func() ([]domain.DexPair, error) {
		var pairs []pairData
		if err := c.getJSON(ctx, endpoint, &pairs); err != nil {
			return nil, fmt.Errorf("token pairs %s: %w", tokenAddress, err)
		}
		return toDomainPairs(pairs), nil
	})
}

// Search returns pairs matching a free-text query (ticker, token name, or
// address).
func (c *Client) Search(ctx context.Context, query string) ([]domain.DexPair, error) {
	endpoint := fmt.Sprintf("%s/latest/dex/search?q=%s", c.baseURL, url.QueryEscape(query))
	return c.breaker.Execute(func() ([]domain.DexPair, error) {
		var resp searchResponse
		if err := c.getJSON(ctx, endpoint, &resp); err != nil {
			return nil, fmt.Errorf("search %q: %w", query, err)
		}
		return toDomainPairs(resp.Pairs), nil
	})
}

// getJSON performs a GET with rate limiting and bounded retries. Server-side
// errors and 429s retry; any 4xx other than 429 fails immediately.
func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay * time.Duration(attempt)):
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		retryable, err := c.doOnce(ctx, endpoint, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
	}
	return fmt.Errorf("after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *Client) doOnce(ctx context.Context, endpoint string, out interface{}) (retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return true, fmt.Errorf("status %d", resp.StatusCode)
	default:
		io.Copy(io.Discard, resp.Body)
		return false, fmt.Errorf("status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return false, nil
}
