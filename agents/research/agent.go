/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package research

import (
	"context"
	"errors"

	"chainguard.dev/blogcrew/agents/blog"
	"chainguard.dev/blogcrew/agents/failure"
	"chainguard.dev/blogcrew/agents/promptbuilder"
	"github.com/chainguard-dev/clog"
)

// SystemPrompt is the system instruction for synthesis executors.
var SystemPrompt = promptbuilder.MustNewPrompt(`You are a research specialist gathering factual information for a blog post.
Favor credible sources, diverse perspectives and accurate attribution. Never invent sources:
every finding must cite one of the URLs you were given.`)

// SynthesisPrompt is the user prompt for synthesis executors.
var SynthesisPrompt = promptbuilder.MustNewPrompt(`Research the topic {{topic}}.

Candidate findings extracted from web search:
{{findings}}

Search results they came from:
{{sources}}

Select and rewrite the most relevant findings as standalone facts, keep each
source_url, assign a category, score relevance between 0 and 1, write a short
summary of the key insights and estimate your overall confidence.`)

// SynthesisRequest is the input of a Synthesizer.
type SynthesisRequest struct {
	Topic    string
	Findings []blog.ResearchFinding
	Sources  []SearchResult
}

// Bind implements promptbuilder.Bindable.
func (r *SynthesisRequest) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	p, err := p.BindText("topic", r.Topic)
	if err != nil {
		return nil, err
	}
	if p, err = p.BindJSON("findings", r.Findings); err != nil {
		return nil, err
	}
	return p.BindYAML("sources", r.Sources)
}

// Synthesizer refines heuristic findings with a model. The executor
// packages' Interface[*SynthesisRequest, *blog.ResearchResult] satisfy it.
type Synthesizer interface {
	Execute(ctx context.Context, req *SynthesisRequest) (*blog.ResearchResult, error)
}

// Agent is the research collaborator.
type Agent struct {
	searcher Searcher
	synth    Synthesizer
}

// Option configures an Agent.
type Option func(*Agent) error

// WithSynthesizer enables model synthesis of the heuristic findings.
func WithSynthesizer(s Synthesizer) Option {
	return func(a *Agent) error {
		if s == nil {
			return errors.New("synthesizer cannot be nil")
		}
		a.synth = s
		return nil
	}
}

// New returns a research Agent that searches with searcher.
func New(searcher Searcher, opts ...Option) (*Agent, error) {
	if searcher == nil {
		return nil, failure.Validationf("searcher", "searcher is required")
	}
	a := &Agent{searcher: searcher}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Research gathers findings for topic. Search failures other than rate
// limits yield an empty, low-confidence result rather than an error.
func (a *Agent) Research(ctx context.Context, topic string) (*blog.ResearchResult, error) {
	if err := blog.ValidateTopic(topic); err != nil {
		return nil, err
	}
	log := clog.FromContext(ctx).With("agent", "research", "topic", topic)

	results, err := a.searcher.Search(ctx, topic)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if failure.Is(err, failure.Retryable) {
			return nil, err
		}
		log.With("error", err).Warn("Search failed, continuing without results")
		results = nil
	}

	findings := ExtractFindings(results, topic)
	if findings == nil {
		findings = []blog.ResearchFinding{}
	}
	out := &blog.ResearchResult{
		Topic:           topic,
		Findings:        findings,
		Summary:         Summarize(topic, findings),
		ConfidenceLevel: Confidence(findings),
	}

	if a.synth != nil && len(findings) > 0 {
		synthesized, err := a.synth.Execute(ctx, &SynthesisRequest{Topic: topic, Findings: findings, Sources: results})
		switch {
		case err == nil && synthesized != nil:
			if len(synthesized.Findings) == 0 {
				synthesized.Findings = findings
			}
			out = synthesized
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case failure.Is(err, failure.Retryable):
			return nil, err
		default:
			log.With("error", err).Warn("Synthesis failed, using heuristic findings")
		}
	}

	out = blog.RepairResearch(out, topic)
	log.With("findings", len(out.Findings)).With("confidence", out.ConfidenceLevel).Info("Research completed")
	return out, nil
}
