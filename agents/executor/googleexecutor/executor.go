/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleexecutor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chainguard.dev/blogcrew/agents/executor/retry"
	"chainguard.dev/blogcrew/agents/failure"
	"chainguard.dev/blogcrew/agents/metrics"
	"chainguard.dev/blogcrew/agents/promptbuilder"
	"chainguard.dev/blogcrew/agents/result"
	"chainguard.dev/blogcrew/agents/schema"
	"github.com/chainguard-dev/clog"
	"github.com/invopop/jsonschema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

const op = "gemini"

var tracer = otel.Tracer("chainguard.dev/blogcrew/agents/executor/googleexecutor")

// Interface defines the contract for Google AI executors
type Interface[Request promptbuilder.Bindable, Response any] interface {
	// Execute renders the prompt for request and returns Gemini's JSON
	// answer decoded into Response. Errors carry a failure.Kind.
	Execute(ctx context.Context, request Request) (Response, error)
}

// executor is the private implementation of Interface
type executor[Request promptbuilder.Bindable, Response any] struct {
	client             *genai.Client
	prompt             *promptbuilder.Prompt
	model              string
	temperature        float32
	maxOutputTokens    int32
	timeout            time.Duration
	systemInstructions *promptbuilder.Prompt
	responseSchema     *jsonschema.Schema
	thinkingBudget     *int32 // nil = disabled, non-nil = enabled with budget
	resourceLabels     map[string]string
	agent              metrics.Agent
	genaiMetrics       *metrics.GenAI
	retryConfig        retry.RetryConfig
}

// New creates a new Google AI executor with the given configuration
func New[Request promptbuilder.Bindable, Response any](
	client *genai.Client,
	prompt *promptbuilder.Prompt,
	options ...Option[Request, Response],
) (Interface[Request, Response], error) {
	if client == nil {
		return nil, errors.New("client is required")
	}
	if prompt == nil {
		return nil, errors.New("prompt is required")
	}

	exec := &executor[Request, Response]{
		client:          client,
		prompt:          prompt,
		model:           "gemini-2.5-flash",
		temperature:     0.7,
		maxOutputTokens: 8192,
		timeout:         2 * time.Minute,
		responseSchema:  schema.ReflectType[Response](),
		genaiMetrics:    metrics.NewGenAI(context.Background(), metrics.MeterName),
		retryConfig:     retry.DefaultRetryConfig(),
	}

	for _, opt := range options {
		if err := opt(exec); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return exec, nil
}

// Execute implements the Interface
func (e *executor[Request, Response]) Execute(ctx context.Context, request Request) (resp Response, err error) {
	ctx, span := tracer.Start(ctx, "gemini.execute", trace.WithAttributes(
		attribute.String("gen_ai.request.model", e.model),
		attribute.String("agent", string(e.agent)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	log := clog.FromContext(ctx).With("model", e.model).With("agent", e.agent)

	contents, config, err := e.request(request)
	if err != nil {
		return resp, failure.NewCollaborator(op, err)
	}

	out, err := retry.RetryWithBackoff(ctx, e.retryConfig, "gemini.generate", retry.IsRetryable, func() (*genai.GenerateContentResponse, error) {
		e.genaiMetrics.RecordCall(ctx, e.model, e.agent)
		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()
		r, err := e.client.Models.GenerateContent(callCtx, e.model, contents, config)
		if err != nil {
			return nil, classify(ctx, err)
		}
		return r, nil
	})
	if err != nil {
		log.With("error", err).Warn("Gemini call failed")
		return resp, err
	}

	if out.UsageMetadata != nil {
		prompt, completion := int64(out.UsageMetadata.PromptTokenCount), int64(out.UsageMetadata.CandidatesTokenCount)
		e.genaiMetrics.RecordTokens(ctx, e.model, prompt, completion)
		span.SetAttributes(
			attribute.Int64("gen_ai.usage.input_tokens", prompt),
			attribute.Int64("gen_ai.usage.output_tokens", completion),
		)
	}

	text := out.Text()
	if text == "" {
		return resp, failure.NewCollaborator(op, errors.New("no text in Gemini response"))
	}
	resp, err = result.Decode[Response](text, e.responseSchema)
	if err != nil {
		log.With("error", err).Error("Failed to decode Gemini response")
		return resp, failure.NewCollaborator(op, err)
	}
	log.Info("Gemini call completed")
	return resp, nil
}

func (e *executor[Request, Response]) request(request Request) ([]*genai.Content, *genai.GenerateContentConfig, error) {
	boundPrompt, err := request.Bind(e.prompt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to bind request to prompt: %w", err)
	}
	prompt, err := boundPrompt.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature:      ptr(e.temperature),
		MaxOutputTokens:  e.maxOutputTokens,
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema.ToGenai(e.responseSchema),
	}
	if e.systemInstructions != nil {
		systemPrompt, err := e.systemInstructions.Build()
		if err != nil {
			return nil, nil, fmt.Errorf("building system prompt: %w", err)
		}
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}
	if e.thinkingBudget != nil {
		config.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: e.thinkingBudget}
	}
	// Labels are only accepted by the Vertex AI backend.
	if len(e.resourceLabels) > 0 && e.client.ClientConfig().Backend == genai.BackendVertexAI {
		config.Labels = e.resourceLabels
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}
	return contents, config, nil
}

// classify maps a genai error onto a failure.Kind.
func classify(ctx context.Context, err error) error {
	if c, ok := retry.ClassifyContext(ctx, op, err); ok {
		return c
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return retry.ClassifyStatus(op, apiErr.Code, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return retry.ClassifyStatus(op, apiErrPtr.Code, err)
	}
	return failure.NewCollaborator(op, err)
}

func ptr[T any](v T) *T {
	return &v
}
