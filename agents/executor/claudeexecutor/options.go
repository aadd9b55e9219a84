/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudeexecutor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"chainguard.dev/blogcrew/agents/executor/retry"
	"chainguard.dev/blogcrew/agents/metrics"
	"chainguard.dev/blogcrew/agents/promptbuilder"
)

// Option is a functional option for configuring the executor
type Option[Request promptbuilder.Bindable, Response any] func(*executor[Request, Response]) error

// WithMaxTokens sets the maximum tokens for responses
func WithMaxTokens[Request promptbuilder.Bindable, Response any](tokens int64) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		if tokens > 32000 {
			return fmt.Errorf("max tokens %d exceeds maximum of 32000", tokens)
		}
		e.maxTokens = tokens
		return nil
	}
}

// WithTemperature sets the sampling temperature, between 0.0 and 1.0.
func WithTemperature[Request promptbuilder.Bindable, Response any](temp float64) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if temp < 0.0 || temp > 1.0 {
			return fmt.Errorf("temperature must be between 0.0 and 1.0, got %f", temp)
		}
		e.temperature = temp
		return nil
	}
}

// WithSystemInstructions sets custom system instructions
func WithSystemInstructions[Request promptbuilder.Bindable, Response any](prompt *promptbuilder.Prompt) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if prompt == nil {
			return errors.New("system instructions prompt cannot be nil")
		}
		e.systemInstructions = prompt
		return nil
	}
}

// WithModel allows overriding the model name
func WithModel[Request promptbuilder.Bindable, Response any](model string) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if !strings.HasPrefix(model, "claude-") {
			return fmt.Errorf("model %q does not appear to be a Claude model (expected claude-* format)", model)
		}
		e.modelName = model
		return nil
	}
}

// WithTimeout bounds each individual API call. An expired call surfaces
// as a retryable failure.
func WithTimeout[Request promptbuilder.Bindable, Response any](d time.Duration) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", d)
		}
		e.timeout = d
		return nil
	}
}

// WithAgent labels metrics and spans with the agent this executor serves.
func WithAgent[Request promptbuilder.Bindable, Response any](agent metrics.Agent) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		e.agent = agent
		return nil
	}
}

// WithAttributeEnricher sets a custom attribute enricher for metrics.
func WithAttributeEnricher[Request promptbuilder.Bindable, Response any](enricher metrics.AttributeEnricher) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		e.genaiMetrics.SetAttributeEnricher(enricher)
		return nil
	}
}

// WithRetryConfig sets the retry configuration for retryable API errors
// (429, 408, 503, 504 and 529) and per-call timeouts.
func WithRetryConfig[Request promptbuilder.Bindable, Response any](cfg retry.RetryConfig) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		e.retryConfig = cfg
		return nil
	}
}
