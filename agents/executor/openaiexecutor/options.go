/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaiexecutor

import (
	"errors"
	"fmt"
	"time"

	"chainguard.dev/blogcrew/agents/executor/retry"
	"chainguard.dev/blogcrew/agents/metrics"
	"chainguard.dev/blogcrew/agents/promptbuilder"
)

// Option is a functional option for configuring the executor
type Option[Request promptbuilder.Bindable, Response any] func(*executor[Request, Response]) error

// WithModel overrides the chat model (defaults to gpt-4o-mini).
func WithModel[Request promptbuilder.Bindable, Response any](model string) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if model == "" {
			return errors.New("model cannot be empty")
		}
		e.model = model
		return nil
	}
}

// WithMaxTokens caps completion tokens.
func WithMaxTokens[Request promptbuilder.Bindable, Response any](tokens int64) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		e.maxTokens = tokens
		return nil
	}
}

// WithTemperature sets the sampling temperature, between 0.0 and 2.0.
func WithTemperature[Request promptbuilder.Bindable, Response any](temp float64) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if temp < 0.0 || temp > 2.0 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", temp)
		}
		e.temperature = temp
		return nil
	}
}

// WithSystemInstructions sets the system message.
func WithSystemInstructions[Request promptbuilder.Bindable, Response any](prompt *promptbuilder.Prompt) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if prompt == nil {
			return errors.New("system instructions prompt cannot be nil")
		}
		e.systemInstructions = prompt
		return nil
	}
}

// WithTimeout bounds each individual API call.
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

// WithRetryConfig sets backoff for retryable failures.
func WithRetryConfig[Request promptbuilder.Bindable, Response any](cfg retry.RetryConfig) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		e.retryConfig = cfg
		return nil
	}
}
