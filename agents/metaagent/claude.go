/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metaagent

import (
	"chainguard.dev/blogcrew/agents/executor/claudeexecutor"
	"chainguard.dev/blogcrew/agents/promptbuilder"
	"github.com/anthropics/anthropic-sdk-go"
)

func newClaudeAgent[Req promptbuilder.Bindable, Resp any](
	client anthropic.Client,
	model string,
	config Config,
) (Agent[Req, Resp], error) {
	executorOpts := []claudeexecutor.Option[Req, Resp]{
		claudeexecutor.WithModel[Req, Resp](model),
		claudeexecutor.WithAgent[Req, Resp](config.Agent),
	}
	if config.SystemInstructions != nil {
		executorOpts = append(executorOpts, claudeexecutor.WithSystemInstructions[Req, Resp](config.SystemInstructions))
	}
	if config.Timeout > 0 {
		executorOpts = append(executorOpts, claudeexecutor.WithTimeout[Req, Resp](config.Timeout))
	}
	if config.MaxTokens > 0 {
		executorOpts = append(executorOpts, claudeexecutor.WithMaxTokens[Req, Resp](config.MaxTokens))
	}
	if config.Retry != nil {
		executorOpts = append(executorOpts, claudeexecutor.WithRetryConfig[Req, Resp](*config.Retry))
	}
	if config.Enricher != nil {
		executorOpts = append(executorOpts, claudeexecutor.WithAttributeEnricher[Req, Resp](config.Enricher))
	}

	executor, err := claudeexecutor.New[Req, Resp](client, config.UserPrompt, executorOpts...)
	if err != nil {
		return nil, wrapErr(Claude, err)
	}
	return executor, nil
}
