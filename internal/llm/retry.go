package llm

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// RetryableError indicates a transient failure (rate limit or server error).
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, Truncate(e.Message, 200))
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

type retrying struct {
	Generator
	retries int
	backoff func(int) time.Duration
}

// WithRetry retries retryable failures up to n extra times. n <= 0 returns
// g unchanged.
func WithRetry(g Generator, n int) Generator {
	if n <= 0 || g == nil {
		return g
	}
	return &retrying{Generator: g, retries: n, backoff: Backoff}
}

func (r *retrying) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(r.backoff(attempt - 1)):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
		out, err := r.Generator.Generate(ctx, prompt)
		if err == nil || !IsRetryable(err) {
			return out, err
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", r.retries, lastErr)
}

// Close forwards to the wrapped generator.
func (r *retrying) Close() { Close(r.Generator) }
