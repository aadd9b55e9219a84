/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metaagent

import (
	"chainguard.dev/blogcrew/agents/executor/openaiexecutor"
	"chainguard.dev/blogcrew/agents/promptbuilder"
	"github.com/openai/openai-go"
)

func newOpenAIAgent[Req promptbuilder.Bindable, Resp any](
	client openai.Client,
	model string,
	config Config,
) (Agent[Req, Resp], error) {
	executorOpts := []openaiexecutor.Option[Req, Resp]{
		openaiexecutor.WithModel[Req, Resp](model),
		openaiexecutor.WithAgent[Req, Resp](config.Agent),
	}
	if config.SystemInstructions != nil {
		executorOpts = append(executorOpts, openaiexecutor.WithSystemInstructions[Req, Resp](config.SystemInstructions))
	}
	if config.Timeout > 0 {
		executorOpts = append(executorOpts, openaiexecutor.WithTimeout[Req, Resp](config.Timeout))
	}
	if config.MaxTokens > 0 {
		executorOpts = append(executorOpts, openaiexecutor.WithMaxTokens[Req, Resp](config.MaxTokens))
	}
	if config.Retry != nil {
		executorOpts = append(executorOpts, openaiexecutor.WithRetryConfig[Req, Resp](*config.Retry))
	}
	if config.Enricher != nil {
		executorOpts = append(executorOpts, openaiexecutor.WithAttributeEnricher[Req, Resp](config.Enricher))
	}

	executor, err := openaiexecutor.New[Req, Resp](client, config.UserPrompt, executorOpts...)
	if err != nil {
		return nil, wrapErr(OpenAI, err)
	}
	return executor, nil
}
