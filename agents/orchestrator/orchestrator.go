/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"chainguard.dev/blogcrew/agents/blog"
	"chainguard.dev/blogcrew/agents/executor/retry"
	"chainguard.dev/blogcrew/agents/failure"
	"chainguard.dev/blogcrew/agents/metrics"
	"chainguard.dev/blogcrew/agents/progress"
	"chainguard.dev/blogcrew/agents/revision"
	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("chainguard.dev/blogcrew/agents/orchestrator")

var errNoResult = errors.New("agent returned no result")

const (
	// DefaultMaxIterations is the default number of critique rounds.
	DefaultMaxIterations = 3
	// DefaultQualityThreshold is the default acceptance score.
	DefaultQualityThreshold = 7.0
)

// Researcher gathers findings on a topic.
type Researcher interface {
	Research(ctx context.Context, topic string) (*blog.ResearchResult, error)
}

// Writer drafts and revises blog posts.
type Writer interface {
	Write(ctx context.Context, research *blog.ResearchResult, topic string) (*blog.Draft, error)
	Revise(ctx context.Context, draft *blog.Draft, feedback string, research *blog.ResearchResult) (*blog.Draft, error)
}

// Critic reviews drafts.
type Critic interface {
	Critique(ctx context.Context, draft *blog.Draft, research *blog.ResearchResult, threshold float64) (*blog.Critique, error)
}

// Orchestrator runs the research, write, critique and revise workflow.
// It holds no per-run state and is safe for concurrent use.
type Orchestrator struct {
	research Researcher
	writing  Writer
	critique Critic

	maxIterations int
	threshold     float64
	sink          progress.Sink
	workflow      *metrics.Workflow
	now           func() time.Time
	retryConfig   retry.RetryConfig
}

// New returns an Orchestrator that delegates to the given collaborators.
func New(research Researcher, writing Writer, critique Critic, opts ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		research:      research,
		writing:       writing,
		critique:      critique,
		maxIterations: DefaultMaxIterations,
		threshold:     DefaultQualityThreshold,
		now:           time.Now,
		retryConfig:   retry.DefaultRetryConfig(),
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *Orchestrator) validate() error {
	if o == nil || isNil(o.research) || isNil(o.writing) || isNil(o.critique) {
		return failure.Validationf("agents", "all agents must be provided")
	}
	if o.maxIterations < 1 {
		return failure.Validationf("max_iterations", "max iterations must be at least 1, got %d", o.maxIterations)
	}
	return nil
}

// isNil reports whether v is nil or an interface holding a nil pointer,
// map, slice, func or channel.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Generate produces a blog post on topic.
//
// Collaborator failures are absorbed by substituting degraded results.
// Retryable failures are returned as is, and validation failures raised
// by a collaborator are returned as Orchestration failures. When ctx is
// done the best partial result is returned with Interrupted set, along
// with an Orchestration failure wrapping ctx.Err().
func (o *Orchestrator) Generate(ctx context.Context, topic string) (*blog.WorkflowResult, error) {
	if err := blog.ValidateTopic(topic); err != nil {
		return nil, err
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	ctx = metrics.WithRunID(ctx, id)
	ctx, span := tracer.Start(ctx, "blogcrew.generate", trace.WithAttributes(
		attribute.String("run_id", id),
		attribute.String("topic", topic),
		attribute.Int("max_iterations", o.maxIterations),
		attribute.Float64("quality_threshold", o.threshold),
	))
	defer span.End()
	ctx = clog.WithLogger(ctx, clog.FromContext(ctx).With("run_id", id, "topic", topic))

	r := &run{
		o:       o,
		id:      id,
		topic:   topic,
		start:   o.now(),
		tracker: progress.NewTracker(o.sink, id, o.maxIterations-1, o.now),
	}
	res, err := r.execute(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if res != nil {
		span.SetAttributes(
			attribute.Float64("quality_score", res.QualityScore),
			attribute.Int("revision_count", res.RevisionCount),
		)
	}
	return res, err
}

// GenerateWithRetry calls Generate, re-running the whole workflow with
// backoff while it fails with a Retryable error.
func (o *Orchestrator) GenerateWithRetry(ctx context.Context, topic string) (*blog.WorkflowResult, error) {
	return retry.Do(ctx, o.retryConfig, "generate", func(ctx context.Context) (*blog.WorkflowResult, error) {
		return o.Generate(ctx, topic)
	})
}

// TopicResult is the outcome of one topic in GenerateAll.
type TopicResult struct {
	Topic  string
	Result *blog.WorkflowResult
	Err    error
}

// GenerateAll runs GenerateWithRetry for every topic, at most parallelism
// at a time. Results are returned in the order of topics. A failed topic
// does not stop the others.
func (o *Orchestrator) GenerateAll(ctx context.Context, topics []string, parallelism int) []TopicResult {
	results := make([]TopicResult, len(topics))
	var g errgroup.Group
	g.SetLimit(max(parallelism, 1))
	for i, topic := range topics {
		g.Go(func() error {
			res, err := o.GenerateWithRetry(ctx, topic)
			results[i] = TopicResult{Topic: topic, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// run is the state of a single Generate call.
type run struct {
	o       *Orchestrator
	id      string
	topic   string
	start   time.Time
	tracker *progress.Tracker

	usage      metrics.Usage
	research   *blog.ResearchResult
	draft      *blog.Draft
	critique   *blog.Critique
	revisions  int
	stopReason string
}

func (r *run) execute(ctx context.Context) (*blog.WorkflowResult, error) {
	log := clog.FromContext(ctx)
	r.tracker.Stage(ctx, progress.StageInitializing, "Starting blog generation workflow")

	r.tracker.Stage(ctx, progress.StageResearching, fmt.Sprintf("Researching %q", r.topic))
	research, err := runStep(ctx, r, step[*blog.ResearchResult]{
		stage: progress.StageResearching,
		agent: metrics.AgentResearch,
		task:  "Gathering research",
		call: func(ctx context.Context) (*blog.ResearchResult, error) {
			return r.o.research.Research(ctx, r.topic)
		},
		repair: func(res *blog.ResearchResult) *blog.ResearchResult {
			return blog.RepairResearch(res, r.topic)
		},
		degrade: func(cause error) *blog.ResearchResult {
			return blog.MinimalResearch(r.topic, cause)
		},
		tokens: func(res *blog.ResearchResult) int {
			return metrics.EstimateTokens(res.Summary)
		},
	})
	if err != nil {
		return r.fail(ctx, progress.StageResearching, metrics.AgentResearch, err)
	}
	r.research = research

	r.tracker.Stage(ctx, progress.StageWritingInitial, "Writing initial draft")
	draft, err := runStep(ctx, r, step[*blog.Draft]{
		stage: progress.StageWritingInitial,
		agent: metrics.AgentWriting,
		task:  "Writing initial draft",
		call: func(ctx context.Context) (*blog.Draft, error) {
			return r.o.writing.Write(ctx, r.research, r.topic)
		},
		repair:  r.repairDraft,
		degrade: r.minimalDraft,
		tokens:  draftTokens,
	})
	if err != nil {
		return r.fail(ctx, progress.StageWritingInitial, metrics.AgentWriting, err)
	}
	r.draft = draft

	for iteration := 1; ; iteration++ {
		r.tracker.Stage(ctx, progress.StageCritiquing, fmt.Sprintf("Critiquing draft (iteration %d/%d)", iteration, r.o.maxIterations))
		critique, err := runStep(ctx, r, step[*blog.Critique]{
			stage: progress.StageCritiquing,
			agent: metrics.AgentCritique,
			task:  fmt.Sprintf("Reviewing draft %d", iteration),
			call: func(ctx context.Context) (*blog.Critique, error) {
				return r.o.critique.Critique(ctx, r.draft, r.research, r.o.threshold)
			},
			repair:  blog.RepairCritique,
			degrade: blog.MinimalCritique,
			tokens:  critiqueTokens,
		})
		if err != nil {
			return r.fail(ctx, progress.StageCritiquing, metrics.AgentCritique, err)
		}
		r.critique = critique

		decision := revision.Decide(critique, iteration, r.o.maxIterations, r.o.threshold)
		log.With(
			"iteration", iteration,
			"quality", critique.OverallQuality,
			"rule", decision.Rule.String(),
			"revise", decision.ShouldRevise,
		).Info(decision.Reasoning)
		if !decision.ShouldRevise {
			r.stopReason = decision.Reasoning
			break
		}

		feedback := revision.FormatFeedback(critique)
		r.tracker.Stage(ctx, progress.StageRevising, fmt.Sprintf("Revising draft (revision %d)", r.revisions+1))
		current := r.draft
		revised, err := runStep(ctx, r, step[*blog.Draft]{
			stage: progress.StageRevising,
			agent: metrics.AgentWriting,
			task:  fmt.Sprintf("Applying feedback (revision %d)", r.revisions+1),
			call: func(ctx context.Context) (*blog.Draft, error) {
				return r.o.writing.Revise(ctx, current, feedback, r.research)
			},
			repair:  r.repairDraft,
			degrade: r.minimalDraft,
			tokens:  draftTokens,
		})
		if err != nil {
			return r.fail(ctx, progress.StageRevising, metrics.AgentWriting, err)
		}
		r.draft = revised
		r.revisions++
		r.usage.RecordRevision()
		r.o.workflow.Revised()
		r.tracker.Revisions(ctx, r.revisions)
	}

	r.tracker.Stage(ctx, progress.StageFinalizing, "Assembling final result")
	r.tracker.Stage(ctx, progress.StageCompleted, fmt.Sprintf("Blog post completed with quality score %.1f", r.quality()))
	res := r.result()
	r.o.workflow.Finished(metrics.OutcomeCompleted, &res.Metrics)
	log.With(
		"quality", res.QualityScore,
		"revisions", res.RevisionCount,
		"api_calls", res.Usage.APICalls,
	).Info("Blog generation completed")
	return res, nil
}

// fail ends the run after err escaped stage. A done ctx turns into an
// interrupted partial result. Error events go out on ctx, so sinks that
// stop on cancellation drop them.
func (r *run) fail(ctx context.Context, stage progress.Stage, agent metrics.Agent, err error) (*blog.WorkflowResult, error) {
	log := clog.FromContext(ctx).With("stage", stage, "agent", agent)

	if cause := ctx.Err(); cause != nil {
		err = failure.NewOrchestration(string(stage), cause)
		log.With("error", cause).Warn("Blog generation interrupted")
		r.tracker.Error(ctx, agent, "interrupted")
		if r.draft == nil {
			r.o.workflow.Finished(metrics.OutcomeInterrupted, nil)
			return nil, err
		}
		res := r.result()
		res.Interrupted = true
		res.StopReason = fmt.Sprintf("Interrupted during %s.", stage)
		r.o.workflow.Finished(metrics.OutcomeInterrupted, &res.Metrics)
		return res, err
	}

	outcome := metrics.OutcomeFailed
	if failure.Is(err, failure.Retryable) {
		outcome = metrics.OutcomeRetryable
	}
	log.With("error", err).Error("Blog generation failed")
	r.tracker.Error(ctx, agent, err.Error())
	r.o.workflow.Finished(outcome, nil)
	return nil, err
}

func (r *run) quality() float64 {
	if r.critique == nil {
		return 0
	}
	return r.critique.OverallQuality
}

func (r *run) result() *blog.WorkflowResult {
	elapsed := r.o.now().Sub(r.start).Seconds()
	quality := r.quality()
	met := r.critique != nil && (quality >= r.o.threshold || r.critique.IsApproved())
	summary := r.tracker.Summary()
	return &blog.WorkflowResult{
		RunID:               r.id,
		FinalPost:           r.draft,
		ResearchData:        r.research,
		RevisionCount:       r.revisions,
		TotalProcessingTime: elapsed,
		QualityScore:        quality,
		QualityMet:          met,
		StopReason:          r.stopReason,
		Usage:               r.usage,
		Metrics:             metrics.NewFinal(quality, r.revisions, elapsed),
		Progress:            &summary,
	}
}

func (r *run) repairDraft(d *blog.Draft) *blog.Draft {
	return blog.RepairDraft(d, r.topic)
}

func (r *run) minimalDraft(cause error) *blog.Draft {
	return blog.MinimalDraft(r.topic, cause)
}

func draftTokens(d *blog.Draft) int {
	return metrics.EstimateTokens(d.Text())
}

func critiqueTokens(c *blog.Critique) int {
	n := 0
	for _, item := range c.FeedbackItems {
		n += metrics.EstimateTokens(item.Issue, item.Suggestion)
	}
	return n
}

// step is one collaborator call, how to normalize its output and how to
// absorb its failure.
type step[T any] struct {
	stage   progress.Stage
	agent   metrics.Agent
	task    string
	call    func(context.Context) (T, error)
	repair  func(T) T
	degrade func(cause error) T
	tokens  func(T) int
}

// runStep performs s, substituting a degraded result for collaborator
// failures. A nil result without an error counts as a collaborator
// failure, and every other result is repaired before use. Retryable
// errors and ctx errors are returned unchanged, and validation errors
// come back as Orchestration failures for s.stage.
func runStep[T any](ctx context.Context, r *run, s step[T]) (out T, err error) {
	if err := ctx.Err(); err != nil {
		return out, err
	}
	ctx, span := tracer.Start(ctx, "blogcrew."+string(s.agent), trace.WithAttributes(
		attribute.String("stage", string(s.stage)),
		attribute.String("agent", string(s.agent)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	r.usage.RecordCall(s.agent)
	r.tracker.Agent(ctx, s.agent, progress.StatusWorking, s.task, 0)
	out, err = s.call(ctx)
	if err == nil && isNil(out) {
		err = failure.NewCollaborator(string(s.agent), errNoResult)
	}
	if err == nil {
		out = s.repair(out)
		r.usage.AddTokens(s.tokens(out))
		r.tracker.Agent(ctx, s.agent, progress.StatusCompleted, s.task, 100)
		return out, nil
	}
	if cause := ctx.Err(); cause != nil {
		return out, cause
	}

	switch failure.KindOf(err) {
	case failure.Retryable:
		return out, err
	case failure.Validation:
		return out, &failure.Error{
			Kind:  failure.Orchestration,
			Stage: string(s.stage),
			Op:    string(s.agent),
			Err:   err,
		}
	}

	clog.FromContext(ctx).With("agent", s.agent, "error", err).Warn("Agent failed, continuing with degraded result")
	span.AddEvent("degraded", trace.WithAttributes(attribute.String("cause", failure.Truncate(err, 200))))
	r.o.workflow.Degraded(s.agent)
	r.tracker.Agent(ctx, s.agent, progress.StatusError, "Degraded: "+failure.Truncate(err, 100), 0)
	return s.degrade(err), nil
}
