/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metaagent

import (
	"context"
	"fmt"

	"chainguard.dev/blogcrew/agents/failure"
	"github.com/anthropics/anthropic-sdk-go"
	aoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/vertex"
	"github.com/openai/openai-go"
	ooption "github.com/openai/openai-go/option"
	"google.golang.org/genai"
)

// ClientConfig selects credentials for NewClients. Claude and Gemini use
// Vertex AI in ProjectID/Region unless an API key is given; OpenAI always
// needs an API key.
type ClientConfig struct {
	ProjectID string
	Region    string

	AnthropicAPIKey string
	GeminiAPIKey    string
	OpenAIAPIKey    string
	// OpenAIBaseURL points the OpenAI client at a compatible endpoint.
	OpenAIBaseURL string
}

// NewClients creates the client for provider.
func NewClients(ctx context.Context, provider Provider, cfg ClientConfig) (Clients, error) {
	var clients Clients
	switch provider {
	case Claude:
		var c anthropic.Client
		if cfg.AnthropicAPIKey != "" {
			c = anthropic.NewClient(aoption.WithAPIKey(cfg.AnthropicAPIKey))
		} else {
			if err := cfg.requireVertex(); err != nil {
				return clients, err
			}
			c = anthropic.NewClient(vertex.WithGoogleAuth(ctx, cfg.Region, cfg.ProjectID))
		}
		clients.Anthropic = &c

	case Gemini:
		gc := &genai.ClientConfig{APIKey: cfg.GeminiAPIKey, Backend: genai.BackendGeminiAPI}
		if cfg.GeminiAPIKey == "" {
			if err := cfg.requireVertex(); err != nil {
				return clients, err
			}
			gc = &genai.ClientConfig{
				Project:  cfg.ProjectID,
				Location: cfg.Region,
				Backend:  genai.BackendVertexAI,
			}
		}
		c, err := genai.NewClient(ctx, gc)
		if err != nil {
			return clients, fmt.Errorf("creating Google AI client: %w", err)
		}
		clients.Gemini = c

	case OpenAI:
		if cfg.OpenAIAPIKey == "" {
			return clients, failure.Validationf("openai_api_key", "OpenAI requires an API key")
		}
		opts := []ooption.RequestOption{ooption.WithAPIKey(cfg.OpenAIAPIKey)}
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, ooption.WithBaseURL(cfg.OpenAIBaseURL))
		}
		c := openai.NewClient(opts...)
		clients.OpenAI = &c

	default:
		return clients, failure.Validationf("provider", "unknown provider %q", provider)
	}
	return clients, nil
}

func (cfg ClientConfig) requireVertex() error {
	if cfg.ProjectID == "" || cfg.Region == "" {
		return failure.Validationf("project_id", "Vertex AI needs a project and region, or set an API key")
	}
	return nil
}
