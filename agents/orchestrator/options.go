/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import (
	"time"

	"chainguard.dev/blogcrew/agents/executor/retry"
	"chainguard.dev/blogcrew/agents/failure"
	"chainguard.dev/blogcrew/agents/metrics"
	"chainguard.dev/blogcrew/agents/progress"
)

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithMaxIterations bounds the number of critique rounds. A run performs
// at most n-1 revisions.
func WithMaxIterations(n int) Option {
	return func(o *Orchestrator) error {
		if n < 1 {
			return failure.Validationf("max_iterations", "max iterations must be at least 1, got %d", n)
		}
		o.maxIterations = n
		return nil
	}
}

// WithQualityThreshold sets the score, between 0 and 10, at which a draft
// is accepted.
func WithQualityThreshold(t float64) Option {
	return func(o *Orchestrator) error {
		if t < 0 || t > 10 {
			return failure.Validationf("quality_threshold", "quality threshold must be between 0 and 10, got %v", t)
		}
		o.threshold = t
		return nil
	}
}

// WithProgress sends workflow events to sink.
func WithProgress(sink progress.Sink) Option {
	return func(o *Orchestrator) error {
		o.sink = sink
		return nil
	}
}

// WithMetrics records run outcomes in w.
func WithMetrics(w *metrics.Workflow) Option {
	return func(o *Orchestrator) error {
		o.workflow = w
		return nil
	}
}

// WithClock replaces time.Now for processing time measurement.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) error {
		if now == nil {
			return failure.Validationf("clock", "clock cannot be nil")
		}
		o.now = now
		return nil
	}
}

// WithRetryConfig tunes the backoff used by GenerateWithRetry.
func WithRetryConfig(cfg retry.RetryConfig) Option {
	return func(o *Orchestrator) error {
		if err := cfg.Validate(); err != nil {
			return failure.Validationf("retry_config", "%w", err)
		}
		o.retryConfig = cfg
		return nil
	}
}
