/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package writing

import (
	"context"

	"chainguard.dev/blogcrew/agents/blog"
	"chainguard.dev/blogcrew/agents/failure"
	"chainguard.dev/blogcrew/agents/promptbuilder"
	"github.com/chainguard-dev/clog"
)

// SystemPrompt is the system instruction for both writing executors.
var SystemPrompt = promptbuilder.MustNewPrompt(`You are a professional content writer who turns research into engaging,
well-structured blog posts. Write clear prose that flows naturally, with an
introduction, body sections and a conclusion. Weave research findings into the
narrative with smooth transitions and a compelling title.`)

// DraftPrompt is the user prompt for the draft executor.
var DraftPrompt = promptbuilder.MustNewPrompt(`Create a comprehensive blog post about {{topic}}.

The research has {{finding_count}} findings with a confidence level of {{confidence}}.
Research summary: {{summary}}

Suggested structure organized from the research:
{{outline}}

Write an engaging post of approximately 800-1200 words. Each body section should
be a complete section with its own heading line followed by paragraphs.`)

// RevisionPrompt is the user prompt for the revision executor.
var RevisionPrompt = promptbuilder.MustNewPrompt(`Revise the following blog post about {{topic}} based on the feedback.

Current draft:
{{draft}}

Feedback to address:
{{feedback}}

Research findings you may draw on:
{{findings}}

Keep the overall structure while addressing every critical and important issue.`)

// DraftRequest is the input of the draft executor.
type DraftRequest struct {
	Topic    string
	Research *blog.ResearchResult
	Outline  *Outline
}

// Bind implements promptbuilder.Bindable.
func (r *DraftRequest) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	p, err := p.BindText("topic", r.Topic)
	if err != nil {
		return nil, err
	}
	for _, b := range []struct {
		name string
		data any
	}{
		{"finding_count", len(r.Research.Findings)},
		{"confidence", r.Research.ConfidenceLevel},
		{"summary", r.Research.Summary},
	} {
		if p, err = p.BindJSON(b.name, b.data); err != nil {
			return nil, err
		}
	}
	return p.BindYAML("outline", r.Outline)
}

// RevisionRequest is the input of the revision executor.
type RevisionRequest struct {
	Topic    string
	Draft    *blog.Draft
	Feedback string
	Research *blog.ResearchResult
}

// Bind implements promptbuilder.Bindable.
func (r *RevisionRequest) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	p, err := p.BindText("topic", r.Topic)
	if err != nil {
		return nil, err
	}
	if p, err = p.BindJSON("draft", r.Draft); err != nil {
		return nil, err
	}
	if p, err = p.BindText("feedback", r.Feedback); err != nil {
		return nil, err
	}
	return p.BindYAML("findings", r.Research.Findings)
}

// Drafter produces a first draft. The executor packages'
// Interface[*DraftRequest, *blog.Draft] satisfy it.
type Drafter interface {
	Execute(ctx context.Context, req *DraftRequest) (*blog.Draft, error)
}

// Reviser rewrites a draft from feedback. The executor packages'
// Interface[*RevisionRequest, *blog.Draft] satisfy it.
type Reviser interface {
	Execute(ctx context.Context, req *RevisionRequest) (*blog.Draft, error)
}

// Agent is the writing collaborator.
type Agent struct {
	drafter Drafter
	reviser Reviser
}

// New returns a writing Agent.
func New(drafter Drafter, reviser Reviser) (*Agent, error) {
	if drafter == nil {
		return nil, failure.Validationf("drafter", "drafter is required")
	}
	if reviser == nil {
		return nil, failure.Validationf("reviser", "reviser is required")
	}
	return &Agent{drafter: drafter, reviser: reviser}, nil
}

// Write produces a repaired first draft for topic.
func (a *Agent) Write(ctx context.Context, research *blog.ResearchResult, topic string) (*blog.Draft, error) {
	if err := blog.ValidateTopic(topic); err != nil {
		return nil, err
	}
	research = orEmpty(research, topic)
	d, err := a.drafter.Execute(ctx, &DraftRequest{
		Topic:    topic,
		Research: research,
		Outline:  BuildOutline(topic, research.Findings),
	})
	if err != nil {
		return nil, err
	}
	d = blog.RepairDraft(d, topic)
	clog.FromContext(ctx).With("agent", "writing").
		With("words", d.WordCount).
		With("readability", ReadabilityScore(d.Text())).
		Info("Draft written")
	return d, nil
}

// Revise produces a repaired revision of draft that addresses feedback.
func (a *Agent) Revise(ctx context.Context, draft *blog.Draft, feedback string, research *blog.ResearchResult) (*blog.Draft, error) {
	if draft == nil {
		return nil, failure.Validationf("draft", "draft is required")
	}
	topic := draft.Title
	if research != nil && research.Topic != "" {
		topic = research.Topic
	}
	research = orEmpty(research, topic)
	d, err := a.reviser.Execute(ctx, &RevisionRequest{
		Topic:    topic,
		Draft:    draft,
		Feedback: feedback,
		Research: research,
	})
	if err != nil {
		return nil, err
	}
	d = blog.RepairDraft(d, topic)
	clog.FromContext(ctx).With("agent", "writing").
		With("words", d.WordCount).
		With("previous_words", draft.WordCount).
		Info("Draft revised")
	return d, nil
}

func orEmpty(r *blog.ResearchResult, topic string) *blog.ResearchResult {
	if r == nil {
		return &blog.ResearchResult{Topic: topic, Findings: []blog.ResearchFinding{}}
	}
	return r
}
