// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/platepick/platepick/internal/metrics"
)

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics, preventing unbounded allocation on large error responses.
const maxErrorBodySize = 64 * 1024

// maxResponseBodySize caps successful response bodies. Provider payloads stay
// well under this; anything larger is rejected rather than truncated into a
// confusing decode error.
const maxResponseBodySize = 1 << 20

// rateLimitMaxRetries bounds retries on HTTP 429 responses.
const rateLimitMaxRetries = 5

// Client is the resilient HTTP layer shared by the provider clients. Each
// request flows through an outbound rate limiter, a circuit breaker, and
// exponential backoff on HTTP 429 (1s, 2s, 4s, 8s, 16s).
//
// Safe for concurrent use; each call builds its own request.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

// NewClient creates a provider HTTP client. name labels the circuit breaker
// in logs and metrics; ratePerSecond paces outbound calls.
func NewClient(name string, timeout time.Duration, ratePerSecond float64) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(ratePerSecond), int(ratePerSecond)+1),
		breaker:    NewBreaker(name),
	}
}

// GetJSON performs a GET against u and decodes the JSON response into out.
// Failures are returned as stage-tagged upstream errors.
func (c *Client) GetJSON(ctx context.Context, stage Stage, u string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return Errorf(stage, "rate limiter wait: %w", err)
	}

	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.get(ctx, u)
	})
	c.observe(stage, start, err)
	if err != nil {
		return Errorf(stage, "%w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return Errorf(stage, "decode response: %w", err)
	}
	return nil
}

// get executes the GET with 429 backoff and returns the response body.
func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	backoff := time.Second

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("execute request: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < rateLimitMaxRetries {
			_ = resp.Body.Close()
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
			continue
		}

		// Read one byte past the cap so an oversized body is detected
		// instead of silently truncated.
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize+1))
		_ = resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if len(body) > maxErrorBodySize {
				body = body[:maxErrorBodySize]
			}
			return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
		}
		if readErr != nil {
			return nil, fmt.Errorf("read response: %w", readErr)
		}
		if len(body) > maxResponseBodySize {
			return nil, fmt.Errorf("response too large: exceeds %d bytes", maxResponseBodySize)
		}
		return body, nil
	}
}

// observe records an upstream request metric.
func (c *Client) observe(stage Stage, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.UpstreamRequestDuration.WithLabelValues(string(stage), status).Observe(time.Since(start).Seconds())
}
