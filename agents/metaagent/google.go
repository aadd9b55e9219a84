/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metaagent

import (
	"math"

	"chainguard.dev/blogcrew/agents/executor/googleexecutor"
	"chainguard.dev/blogcrew/agents/promptbuilder"
	"google.golang.org/genai"
)

func newGoogleAgent[Req promptbuilder.Bindable, Resp any](
	client *genai.Client,
	model string,
	config Config,
) (Agent[Req, Resp], error) {
	executorOpts := []googleexecutor.Option[Req, Resp]{
		googleexecutor.WithModel[Req, Resp](model),
		googleexecutor.WithAgent[Req, Resp](config.Agent),
		googleexecutor.WithResourceLabels[Req, Resp](map[string]string{"agent": string(config.Agent)}),
	}
	if config.SystemInstructions != nil {
		executorOpts = append(executorOpts, googleexecutor.WithSystemInstructions[Req, Resp](config.SystemInstructions))
	}
	if config.Timeout > 0 {
		executorOpts = append(executorOpts, googleexecutor.WithTimeout[Req, Resp](config.Timeout))
	}
	if config.MaxTokens > 0 {
		executorOpts = append(executorOpts, googleexecutor.WithMaxOutputTokens[Req, Resp](int32(min(config.MaxTokens, math.MaxInt32))))
	}
	if config.Retry != nil {
		executorOpts = append(executorOpts, googleexecutor.WithRetryConfig[Req, Resp](*config.Retry))
	}
	if config.Enricher != nil {
		executorOpts = append(executorOpts, googleexecutor.WithAttributeEnricher[Req, Resp](config.Enricher))
	}

	executor, err := googleexecutor.New[Req, Resp](client, config.UserPrompt, executorOpts...)
	if err != nil {
		return nil, wrapErr(Gemini, err)
	}
	return executor, nil
}
