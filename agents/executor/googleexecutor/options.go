/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleexecutor

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"strings"
	"time"

	"chainguard.dev/blogcrew/agents/executor/retry"
	"chainguard.dev/blogcrew/agents/metrics"
	"chainguard.dev/blogcrew/agents/promptbuilder"
)

// Option is a functional option for configuring an executor
type Option[Request promptbuilder.Bindable, Response any] func(*executor[Request, Response]) error

// WithModel sets the model to use for generation
func WithModel[Request promptbuilder.Bindable, Response any](model string) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if !strings.HasPrefix(model, "gemini-") {
			return fmt.Errorf("model %q does not appear to be a Gemini model (expected gemini-* format)", model)
		}
		e.model = model
		return nil
	}
}

// WithTemperature sets the temperature for generation.
// Gemini models support temperature values from 0.0 to 2.0.
func WithTemperature[Request promptbuilder.Bindable, Response any](temperature float32) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if temperature < 0.0 || temperature > 2.0 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", temperature)
		}
		e.temperature = temperature
		return nil
	}
}

// WithMaxOutputTokens sets the maximum output tokens for generation
func WithMaxOutputTokens[Request promptbuilder.Bindable, Response any](tokens int32) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if tokens <= 0 {
			return fmt.Errorf("max output tokens must be positive, got %d", tokens)
		}
		if tokens > 32768 {
			return fmt.Errorf("max output tokens %d exceeds maximum of 32768", tokens)
		}
		e.maxOutputTokens = tokens
		return nil
	}
}

// WithSystemInstructions sets the system instructions for the model
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

// WithThinking enables thinking mode with the specified token budget.
// Special value -1 enables dynamic thinking.
// See https://ai.google.dev/gemini-api/docs/thinking
func WithThinking[Request promptbuilder.Bindable, Response any](budgetTokens int32) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if budgetTokens == -1 {
			e.thinkingBudget = &budgetTokens
			return nil
		}
		if budgetTokens <= 0 {
			return fmt.Errorf("thinking budget must be positive (or -1 for dynamic), got %d", budgetTokens)
		}
		// Thoughts and output count against the same limit.
		if budgetTokens >= e.maxOutputTokens {
			return fmt.Errorf("thinking budget (%d) must be less than max_output_tokens (%d)", budgetTokens, e.maxOutputTokens)
		}
		e.thinkingBudget = &budgetTokens
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

// WithRetryConfig sets the retry configuration for 429 RESOURCE_EXHAUSTED
// and other transient errors.
func WithRetryConfig[Request promptbuilder.Bindable, Response any](cfg retry.RetryConfig) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		e.retryConfig = cfg
		return nil
	}
}

// WithResourceLabels sets labels sent with each Vertex AI request.
// service_name defaults to K_SERVICE and app to "blogcrew"; labels passed
// here override them.
func WithResourceLabels[Request promptbuilder.Bindable, Response any](labels map[string]string) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		serviceName := os.Getenv("K_SERVICE")
		if serviceName == "" {
			serviceName = "unknown"
		}
		e.resourceLabels = map[string]string{
			"service_name": serviceName,
			"app":          "blogcrew",
		}
		maps.Copy(e.resourceLabels, labels)
		return nil
	}
}
