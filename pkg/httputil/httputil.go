// Package httputil provides HTTP utilities for fetching remote assets.
//
// # Overview
//
// The export pipeline embeds remote assets (the lesson logo) into
// self-contained artifacts. This package provides the infrastructure for
// those fetches:
//
//   - [Retry]: Automatic retry with exponential backoff
//   - [GetBytes]: A GET helper that classifies transient failures as retryable
//
// # Retry
//
// [Retry] only retries errors wrapped with [RetryableError]. [GetBytes]
// wraps network errors, 5xx responses and 429 responses this way, so a
// typical fetch is:
//
//	var body []byte
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    var err error
//	    body, _, err = httputil.GetBytes(ctx, client, url)
//	    return err
//	})
package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/formulalab/masterclass/pkg/observability"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 5xx responses) with this type
// so that [Retry] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps an error as a RetryableError. Returns nil for nil input.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Retry executes fn up to attempts times with exponential backoff.
// It only retries errors wrapped with [RetryableError]; other errors are
// returned immediately. The delay doubles after each failed attempt.
// Returns the last error if all attempts fail, or ctx.Err() if cancelled.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// RetryWithBackoff is a convenience wrapper around [Retry] with sensible
// defaults: 3 attempts with 1 second initial delay (doubling each retry).
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// maxAssetSize caps fetched asset bodies. Logos are small; anything larger
// is a misconfigured URL, not a logo.
const maxAssetSize = 10 << 20 // 10 MiB

// GetBytes performs a GET request and returns the response body and
// Content-Type. Network errors, 429 and 5xx responses are wrapped with
// [RetryableError]; other non-2xx statuses fail permanently.
func GetBytes(ctx context.Context, client *http.Client, url string) ([]byte, string, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}

	observability.HTTP().OnRequest(ctx, http.MethodGet, req.URL.Host, req.URL.Path)
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, req.URL.Host, req.URL.Path, err)
		return nil, "", Retryable(fmt.Errorf("get %s: %w", url, err))
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, http.MethodGet, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, "", Retryable(fmt.Errorf("get %s: status %d", url, resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, "", fmt.Errorf("get %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize))
	if err != nil {
		return nil, "", Retryable(fmt.Errorf("read %s: %w", url, err))
	}
	return body, resp.Header.Get("Content-Type"), nil
}
