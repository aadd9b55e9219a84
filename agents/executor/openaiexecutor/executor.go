/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaiexecutor

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
	"github.com/openai/openai-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const op = "openai"

var tracer = otel.Tracer("chainguard.dev/blogcrew/agents/executor/openaiexecutor")

// Interface is the public interface for OpenAI structured calls.
type Interface[Request promptbuilder.Bindable, Response any] interface {
	// Execute renders the prompt for request and returns the model's JSON
	// answer decoded into Response. Errors carry a failure.Kind.
	Execute(ctx context.Context, request Request) (Response, error)
}

type executor[Request promptbuilder.Bindable, Response any] struct {
	client             openai.Client
	model              string
	systemInstructions *promptbuilder.Prompt
	prompt             *promptbuilder.Prompt
	maxTokens          int64
	temperature        float64
	timeout            time.Duration
	agent              metrics.Agent
	genaiMetrics       *metrics.GenAI
	retryConfig        retry.RetryConfig
	responseSchema     *jsonschema.Schema
	responseFormat     openai.ChatCompletionNewParamsResponseFormatUnion
}

// New creates an executor that answers prompt with JSON matching the
// schema of Response.
func New[Request promptbuilder.Bindable, Response any](
	client openai.Client,
	prompt *promptbuilder.Prompt,
	opts ...Option[Request, Response],
) (Interface[Request, Response], error) {
	if prompt == nil {
		return nil, errors.New("prompt cannot be nil")
	}

	responseSchema := schema.ReflectType[Response]()
	payload, err := schema.ToMap(responseSchema)
	if err != nil {
		return nil, fmt.Errorf("deriving response schema: %w", err)
	}

	e := &executor[Request, Response]{
		client:         client,
		model:          "gpt-4o-mini",
		prompt:         prompt,
		maxTokens:      8192,
		temperature:    0.7,
		timeout:        2 * time.Minute,
		genaiMetrics:   metrics.NewGenAI(context.Background(), metrics.MeterName),
		retryConfig:    retry.DefaultRetryConfig(),
		responseSchema: responseSchema,
		responseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "result",
					Schema: payload,
					Strict: openai.Bool(false),
				},
			},
		},
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return e, nil
}

func (e *executor[Request, Response]) Execute(ctx context.Context, request Request) (response Response, err error) {
	ctx, span := tracer.Start(ctx, "openai.execute", trace.WithAttributes(
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

	params, err := e.params(request)
	if err != nil {
		return response, failure.NewCollaborator(op, err)
	}

	completion, err := retry.RetryWithBackoff(ctx, e.retryConfig, "openai.chat", retry.IsRetryable, func() (*openai.ChatCompletion, error) {
		e.genaiMetrics.RecordCall(ctx, e.model, e.agent)
		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()
		c, err := e.client.Chat.Completions.New(callCtx, params)
		if err != nil {
			return nil, classify(ctx, err)
		}
		return c, nil
	})
	if err != nil {
		log.With("error", err).Warn("OpenAI call failed")
		return response, err
	}

	e.genaiMetrics.RecordTokens(ctx, e.model, completion.Usage.PromptTokens, completion.Usage.CompletionTokens)
	span.SetAttributes(
		attribute.Int64("gen_ai.usage.input_tokens", completion.Usage.PromptTokens),
		attribute.Int64("gen_ai.usage.output_tokens", completion.Usage.CompletionTokens),
	)

	if len(completion.Choices) == 0 {
		return response, failure.NewCollaborator(op, errors.New("openai: empty choices"))
	}
	response, err = result.Decode[Response](completion.Choices[0].Message.Content, e.responseSchema)
	if err != nil {
		log.With("error", err).Error("Failed to decode OpenAI response")
		return response, failure.NewCollaborator(op, err)
	}
	log.With("output_tokens", completion.Usage.CompletionTokens).Info("OpenAI call completed")
	return response, nil
}

func (e *executor[Request, Response]) params(request Request) (openai.ChatCompletionNewParams, error) {
	bound, err := request.Bind(e.prompt)
	if err != nil {
		return openai.ChatCompletionNewParams{}, fmt.Errorf("failed to bind request to prompt: %w", err)
	}
	prompt, err := bound.Build()
	if err != nil {
		return openai.ChatCompletionNewParams{}, fmt.Errorf("failed to build prompt: %w", err)
	}

	var msgs []openai.ChatCompletionMessageParamUnion
	if e.systemInstructions != nil {
		system, err := e.systemInstructions.Build()
		if err != nil {
			return openai.ChatCompletionNewParams{}, fmt.Errorf("building system prompt: %w", err)
		}
		msgs = append(msgs, openai.SystemMessage(system))
	}
	msgs = append(msgs, openai.UserMessage(prompt))

	return openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(e.model),
		Messages:            msgs,
		Temperature:         openai.Float(e.temperature),
		MaxCompletionTokens: openai.Int(e.maxTokens),
		ResponseFormat:      e.responseFormat,
	}, nil
}

// classify maps an OpenAI SDK error onto a failure.Kind.
func classify(ctx context.Context, err error) error {
	if c, ok := retry.ClassifyContext(ctx, op, err); ok {
		return c
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return retry.ClassifyStatus(op, apiErr.StatusCode, err)
	}
	return failure.NewCollaborator(op, err)
}
