package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/guttosm/salespulse/internal/logger"
)

const (
	defaultBackoffBase = 500 * time.Millisecond
	maxFeedBodyBytes   = 32 << 20
)

// FeedClient fetches the product-transaction feed over HTTP.
//
// Requests go through a token-bucket limiter and are retried with
// exponential backoff on network errors, 429 and 5xx answers. Other non-2xx
// answers fail immediately.
type FeedClient struct {
	url         string
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxRetries  int
	backoffBase time.Duration

	// sleep waits for d or until ctx is done; swapped in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// FeedOptions tunes a FeedClient. Zero values fall back to defaults.
type FeedOptions struct {
	Timeout     time.Duration
	MaxRetries  int
	RatePerSec  float64
	BackoffBase time.Duration
}

// NewFeedClient builds a client for url.
func NewFeedClient(url string, opts FeedOptions) *FeedClient {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 2
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = defaultBackoffBase
	}
	return &FeedClient{
		url:         url,
		httpClient:  &http.Client{Timeout: opts.Timeout},
		limiter:     rate.NewLimiter(rate.Limit(opts.RatePerSec), 1),
		maxRetries:  opts.MaxRetries,
		backoffBase: opts.BackoffBase,
		sleep:       sleepCtx,
	}
}

// URL returns the configured feed endpoint.
func (c *FeedClient) URL() string { return c.url }

// FetchRaw returns the feed body verbatim after checking it is valid JSON.
func (c *FeedClient) FetchRaw(ctx context.Context) (json.RawMessage, error) {
	body, err := c.get(ctx)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("feed returned invalid JSON")
	}
	return json.RawMessage(body), nil
}

// FetchItems fetches and decodes the feed into raw items.
func (c *FeedClient) FetchItems(ctx context.Context) ([]FeedItem, error) {
	body, err := c.get(ctx)
	if err != nil {
		return nil, err
	}
	var items []FeedItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return items, nil
}

func (c *FeedClient) get(ctx context.Context) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := addJitter(c.backoffBase * time.Duration(1<<(attempt-1)))
			var re *retryableError
			if errors.As(lastErr, &re) && re.retryAfter > 0 {
				delay = re.retryAfter
			}
			logger.Component("feed").Warn().Int("attempt", attempt).Dur("delay", delay).Err(lastErr).Msg("retrying feed fetch")
			if err := c.sleep(ctx, delay); err != nil {
				return nil, fmt.Errorf("feed fetch canceled: %w", err)
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		body, err := c.do(ctx)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var re *retryableError
		if !errors.As(err, &re) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("feed fetch canceled: %w", ctx.Err())
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *FeedClient) do(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &retryableError{message: fmt.Sprintf("network error: %v", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBodyBytes))
	if err != nil {
		return nil, &retryableError{message: fmt.Sprintf("read feed body: %v", err)}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		re := &retryableError{message: "rate limited (429)"}
		if s, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && s > 0 {
			re.retryAfter = time.Duration(s) * time.Second
		}
		return nil, re
	case resp.StatusCode >= 500:
		return nil, &retryableError{message: fmt.Sprintf("feed server error (%d)", resp.StatusCode)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}
	return body, nil
}

// retryableError marks a failure worth another attempt.
type retryableError struct {
	message    string
	retryAfter time.Duration
}

func (e *retryableError) Error() string { return e.message }

// addJitter returns a duration between 50% and 150% of d.
func addJitter(d time.Duration) time.Duration {
	return time.Duration(float64(d) * (0.5 + rand.Float64()))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
