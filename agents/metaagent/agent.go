/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metaagent

import (
	"context"
	"fmt"
	"strings"

	"chainguard.dev/blogcrew/agents/failure"
	"chainguard.dev/blogcrew/agents/promptbuilder"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
	"google.golang.org/genai"
)

// Agent is the interface for a configured meta-agent.
//   - Req must implement promptbuilder.Bindable.
//   - Resp is the structured response type.
type Agent[Req promptbuilder.Bindable, Resp any] interface {
	// Execute renders the request into the prompt and returns the model's
	// structured answer. Errors carry a failure.Kind.
	Execute(ctx context.Context, request Req) (Resp, error)
}

// Provider is a model vendor.
type Provider string

const (
	Claude Provider = "claude"
	Gemini Provider = "gemini"
	OpenAI Provider = "openai"
)

// DefaultModel is the model used for p when none is configured.
func DefaultModel(p Provider) string {
	switch p {
	case Claude:
		return "claude-sonnet-4@20250514"
	case Gemini:
		return "gemini-2.5-flash"
	case OpenAI:
		return "gpt-4o-mini"
	default:
		return ""
	}
}

// ProviderFor reports which provider serves model.
func ProviderFor(model string) (Provider, error) {
	m := strings.ToLower(model)
	switch {
	case strings.HasPrefix(m, "gemini-"):
		return Gemini, nil
	case strings.HasPrefix(m, "claude-"):
		return Claude, nil
	case strings.HasPrefix(m, "gpt-"), strings.HasPrefix(m, "o1"), strings.HasPrefix(m, "o3"), strings.HasPrefix(m, "o4"):
		return OpenAI, nil
	default:
		return "", failure.Validationf("model", "unsupported model: %s (expected gemini-*, claude-* or gpt-*)", model)
	}
}

// Clients holds the provider clients agents are built on. Only the
// clients of providers in use need to be set.
type Clients struct {
	Anthropic *anthropic.Client
	OpenAI    *openai.Client
	Gemini    *genai.Client
}

// New creates a new meta-agent with the given configuration.
// The model parameter determines which provider implementation is used:
//   - Models starting with "gemini-" use Google's Generative AI SDK
//   - Models starting with "claude-" use Anthropic's SDK
//   - Models starting with "gpt-" or "o1", "o3", "o4" use OpenAI's SDK
func New[Req promptbuilder.Bindable, Resp any](
	clients Clients,
	model string,
	config Config,
) (Agent[Req, Resp], error) {
	if config.UserPrompt == nil {
		return nil, failure.Validationf("user_prompt", "user prompt is required")
	}
	provider, err := ProviderFor(model)
	if err != nil {
		return nil, err
	}

	switch provider {
	case Gemini:
		if clients.Gemini == nil {
			return nil, missingClient(provider, model)
		}
		return newGoogleAgent[Req, Resp](clients.Gemini, model, config)
	case Claude:
		if clients.Anthropic == nil {
			return nil, missingClient(provider, model)
		}
		return newClaudeAgent[Req, Resp](*clients.Anthropic, model, config)
	default:
		if clients.OpenAI == nil {
			return nil, missingClient(provider, model)
		}
		return newOpenAIAgent[Req, Resp](*clients.OpenAI, model, config)
	}
}

func missingClient(p Provider, model string) error {
	return failure.Validationf("clients", "model %s needs a %s client", model, p)
}

func wrapErr(p Provider, err error) error {
	return fmt.Errorf("creating %s executor: %w", p, err)
}
