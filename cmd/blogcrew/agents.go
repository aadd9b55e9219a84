/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"

	"chainguard.dev/blogcrew/agents/blog"
	"chainguard.dev/blogcrew/agents/critique"
	"chainguard.dev/blogcrew/agents/metaagent"
	"chainguard.dev/blogcrew/agents/metrics"
	"chainguard.dev/blogcrew/agents/promptbuilder"
	"chainguard.dev/blogcrew/agents/research"
	"chainguard.dev/blogcrew/agents/writing"
)

type crew struct {
	research *research.Agent
	writing  *writing.Agent
	critique *critique.Agent
}

// newCrew builds the three agents on model.
func newCrew(clients metaagent.Clients, cfg *config) (*crew, error) {
	base := metaagent.Config{
		Timeout:  cfg.CallTimeout,
		Enricher: metrics.RunIDEnricher,
	}
	with := func(agent metrics.Agent, system, user *promptbuilder.Prompt) metaagent.Config {
		c := base
		c.Agent, c.SystemInstructions, c.UserPrompt = agent, system, user
		return c
	}

	var searchOpts []research.DuckDuckGoOption
	if cfg.SearchURL != "" {
		searchOpts = append(searchOpts, research.WithBaseURL(cfg.SearchURL))
	}
	var researchOpts []research.Option
	if cfg.Synthesize {
		synth, err := metaagent.New[*research.SynthesisRequest, *blog.ResearchResult](clients, cfg.Model,
			with(metrics.AgentResearch, research.SystemPrompt, research.SynthesisPrompt))
		if err != nil {
			return nil, fmt.Errorf("creating research synthesizer: %w", err)
		}
		researchOpts = append(researchOpts, research.WithSynthesizer(synth))
	}
	researchAgent, err := research.New(research.NewDuckDuckGo(searchOpts...), researchOpts...)
	if err != nil {
		return nil, err
	}

	drafter, err := metaagent.New[*writing.DraftRequest, *blog.Draft](clients, cfg.Model,
		with(metrics.AgentWriting, writing.SystemPrompt, writing.DraftPrompt))
	if err != nil {
		return nil, fmt.Errorf("creating drafter: %w", err)
	}
	reviser, err := metaagent.New[*writing.RevisionRequest, *blog.Draft](clients, cfg.Model,
		with(metrics.AgentWriting, writing.SystemPrompt, writing.RevisionPrompt))
	if err != nil {
		return nil, fmt.Errorf("creating reviser: %w", err)
	}
	writingAgent, err := writing.New(drafter, reviser)
	if err != nil {
		return nil, err
	}

	reviewer, err := metaagent.New[*critique.Request, *blog.Critique](clients, cfg.Model,
		with(metrics.AgentCritique, critique.SystemPrompt, critique.CritiquePrompt))
	if err != nil {
		return nil, fmt.Errorf("creating reviewer: %w", err)
	}
	critiqueAgent, err := critique.New(reviewer)
	if err != nil {
		return nil, err
	}

	return &crew{research: researchAgent, writing: writingAgent, critique: critiqueAgent}, nil
}
