/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package critique

import (
	"context"

	"chainguard.dev/blogcrew/agents/blog"
	"chainguard.dev/blogcrew/agents/failure"
	"chainguard.dev/blogcrew/agents/promptbuilder"
	"github.com/chainguard-dev/clog"
)

// SystemPrompt is the system instruction for the critique executor.
var SystemPrompt = promptbuilder.MustNewPrompt(`You are a professional editor evaluating blog posts for clarity, factual
accuracy, structure and overall quality. Give constructive, actionable feedback
with a severity for each item: major for problems that must be fixed, moderate
for important improvements and minor for polish.`)

// CritiquePrompt is the user prompt for the critique executor.
var CritiquePrompt = promptbuilder.MustNewPrompt(`Critique this blog post about {{topic}}.

Draft:
{{draft}}

Research it was based on ({{finding_count}} findings, confidence {{confidence}}):
{{findings}}

Automated editorial checks:
{{analysis}}

Score overall quality from 0 to 10. Approve the post only if it is ready to
publish and its quality is at least {{threshold}}.`)

// Request is the input of the critique executor.
type Request struct {
	Topic     string
	Draft     *blog.Draft
	Research  *blog.ResearchResult
	Threshold float64
	Analysis  *Analysis
}

// Bind implements promptbuilder.Bindable.
func (r *Request) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	p, err := p.BindText("topic", r.Topic)
	if err != nil {
		return nil, err
	}
	if p, err = p.BindJSON("draft", r.Draft); err != nil {
		return nil, err
	}
	for _, b := range []struct {
		name string
		data any
	}{
		{"finding_count", len(r.Research.Findings)},
		{"confidence", r.Research.ConfidenceLevel},
		{"threshold", r.Threshold},
	} {
		if p, err = p.BindJSON(b.name, b.data); err != nil {
			return nil, err
		}
	}
	if p, err = p.BindYAML("findings", r.Research.Findings); err != nil {
		return nil, err
	}
	return p.BindJSON("analysis", r.Analysis)
}

// Reviewer scores a draft. The executor packages'
// Interface[*Request, *blog.Critique] satisfy it.
type Reviewer interface {
	Execute(ctx context.Context, req *Request) (*blog.Critique, error)
}

// Agent is the critique collaborator.
type Agent struct {
	reviewer Reviewer
}

// New returns a critique Agent.
func New(reviewer Reviewer) (*Agent, error) {
	if reviewer == nil {
		return nil, failure.Validationf("reviewer", "reviewer is required")
	}
	return &Agent{reviewer: reviewer}, nil
}

// Critique evaluates draft against research and returns a repaired
// critique.
func (a *Agent) Critique(ctx context.Context, draft *blog.Draft, research *blog.ResearchResult, threshold float64) (*blog.Critique, error) {
	if draft == nil {
		return nil, failure.Validationf("draft", "draft is required")
	}
	if threshold < 0 || threshold > 10 {
		return nil, failure.Validationf("threshold", "quality threshold must be within [0, 10], got %v", threshold)
	}
	topic := draft.Title
	if research != nil && research.Topic != "" {
		topic = research.Topic
	}
	if research == nil {
		research = &blog.ResearchResult{Topic: topic, Findings: []blog.ResearchFinding{}}
	}

	c, err := a.reviewer.Execute(ctx, &Request{
		Topic:     topic,
		Draft:     draft,
		Research:  research,
		Threshold: threshold,
		Analysis:  Analyze(draft, research),
	})
	if err != nil {
		return nil, err
	}
	c = blog.RepairCritique(c)
	counts := c.CountBySeverity()
	clog.FromContext(ctx).With("agent", "critique").
		With("quality", c.OverallQuality).
		With("approval", c.ApprovalStatus).
		With("major", counts.Major).
		With("moderate", counts.Moderate).
		With("minor", counts.Minor).
		Info("Critique completed")
	return c, nil
}
