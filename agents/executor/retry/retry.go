/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package retry

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"chainguard.dev/blogcrew/agents/failure"
	"github.com/chainguard-dev/clog"
)

// RetryConfig configures backoff for model calls and for whole workflow runs.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts (default: 3).
	// 0 means do not retry at all.
	MaxRetries int
	// BaseBackoff is the initial backoff duration (default: 1s)
	BaseBackoff time.Duration
	// MaxBackoff is the maximum backoff duration (default: 30s)
	MaxBackoff time.Duration
	// MaxJitter is the maximum random jitter added to backoff (default: 500ms)
	MaxJitter time.Duration
}

// Validate checks that the retry configuration has valid values.
func (c RetryConfig) Validate() error {
	if c.MaxRetries < 0 {
		return errors.New("max retries cannot be negative")
	}
	if c.BaseBackoff < 0 {
		return errors.New("base backoff cannot be negative")
	}
	if c.MaxBackoff < 0 {
		return errors.New("max backoff cannot be negative")
	}
	if c.MaxJitter < 0 {
		return errors.New("max jitter cannot be negative")
	}
	return nil
}

// DefaultRetryConfig returns a retry configuration suited to provider rate limits.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:  3,
		BaseBackoff: 1 * time.Second,
		MaxBackoff:  30 * time.Second,
		MaxJitter:   500 * time.Millisecond,
	}
}

// IsRetryable reports whether err carries the failure.Retryable classification.
func IsRetryable(err error) bool {
	return failure.Is(err, failure.Retryable)
}

// Do runs fn with exponential backoff, retrying only failure.Retryable errors.
func Do[T any](ctx context.Context, cfg RetryConfig, operation string, fn func(context.Context) (T, error)) (T, error) {
	return RetryWithBackoff(ctx, cfg, operation, IsRetryable, func() (T, error) {
		return fn(ctx)
	})
}

// RetryWithBackoff executes fn with exponential backoff. Only errors for
// which isRetryable returns true are retried. When retries are exhausted
// the last error is wrapped so its classification survives.
func RetryWithBackoff[T any](ctx context.Context, cfg RetryConfig, operation string, isRetryable func(error) bool, fn func() (T, error)) (T, error) {
	var result T
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		result, lastErr = fn()
		if lastErr == nil {
			return result, nil
		}

		if !isRetryable(lastErr) {
			return result, lastErr
		}

		if attempt >= cfg.MaxRetries {
			break
		}

		wait := backoff(cfg, attempt)
		clog.FromContext(ctx).With("operation", operation).
			With("attempt", attempt+1).
			With("max_retries", cfg.MaxRetries).
			With("backoff", wait).
			With("error", lastErr.Error()).
			Warn("Retryable failure, backing off")

		select {
		case <-ctx.Done():
			return result, failure.NewOrchestration(operation, ctx.Err())
		case <-time.After(wait):
		}
	}

	return result, fmt.Errorf("%s failed after %d retries: %w", operation, cfg.MaxRetries, lastErr)
}

// backoff is BaseBackoff * 2^attempt capped at MaxBackoff, plus jitter.
func backoff(cfg RetryConfig, attempt int) time.Duration {
	d := cfg.MaxBackoff
	if attempt < 63 {
		// A shift that loses bits has overflowed and stays at MaxBackoff.
		if shifted := cfg.BaseBackoff << attempt; shifted >= 0 && shifted>>attempt == cfg.BaseBackoff {
			d = min(shifted, d)
		}
	}
	if cfg.MaxJitter > 0 {
		if n, err := rand.Int(rand.Reader, big.NewInt(int64(cfg.MaxJitter))); err == nil {
			d += time.Duration(n.Int64())
		}
	}
	return d
}
