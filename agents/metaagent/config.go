/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metaagent

import (
	"time"

	"chainguard.dev/blogcrew/agents/executor/retry"
	"chainguard.dev/blogcrew/agents/metrics"
	"chainguard.dev/blogcrew/agents/promptbuilder"
)

// Config defines the configuration for a meta-agent instance.
type Config struct {
	// SystemInstructions is the system prompt that defines the agent's role and behavior.
	SystemInstructions *promptbuilder.Prompt

	// UserPrompt is the template for formatting the user's request.
	// The Req type is bound to this template via its Bind method.
	UserPrompt *promptbuilder.Prompt

	// Agent labels metrics and spans.
	Agent metrics.Agent

	// Timeout bounds each model call. Zero keeps the executor default.
	Timeout time.Duration

	// MaxTokens bounds the response. Zero keeps the executor default.
	MaxTokens int64

	// Retry overrides the executor's backoff for retryable failures.
	Retry *retry.RetryConfig

	// Enricher adds attributes to token and call metrics.
	Enricher metrics.AttributeEnricher
}
