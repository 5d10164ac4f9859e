package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultRatePerSec = 5
	defaultTimeout    = 10 * time.Second

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// client es el HTTP client del feed con rate limiting y retries.
type client struct {
	http      *http.Client
	limiter   *rate.Limiter
	retryWait time.Duration
	apiKey    string
}

func newClient(ratePerSec float64, timeout, retryWait time.Duration, apiKey string) *client {
	if ratePerSec <= 0 {
		ratePerSec = defaultRatePerSec
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if retryWait <= 0 {
		retryWait = baseRetryWait
	}
	return &client{
		http:      &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Limit(ratePerSec), 1),
		retryWait: retryWait,
		apiKey:    apiKey,
	}
}

// get hace un GET con rate limiting y retries.
func (c *client) get(ctx context.Context, url string, out any) error {
	return c.doWithRetry(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		return c.http.Do(req)
	}, out)
}

// doWithRetry ejecuta la función con backoff exponencial, respetando el contexto.
func (c *client) doWithRetry(ctx context.Context, fn func() (*http.Response, error), out any) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		resp, err := fn()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if attempt == maxRetries {
				return fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			slog.Warn("rate limited by inventory feed", "attempt", attempt+1)
			if attempt == maxRetries {
				return fmt.Errorf("rate limited after %d retries", maxRetries)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("server error %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			resp.Body.Close()
			return fmt.Errorf("client error %d: %s", resp.StatusCode, string(body))
		}

		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("exhausted %d retries", maxRetries)
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * c.retryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
