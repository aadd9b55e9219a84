/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudeexecutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"chainguard.dev/blogcrew/agents/executor/retry"
	"chainguard.dev/blogcrew/agents/failure"
	"chainguard.dev/blogcrew/agents/metrics"
	"chainguard.dev/blogcrew/agents/promptbuilder"
	"chainguard.dev/blogcrew/agents/result"
	"chainguard.dev/blogcrew/agents/schema"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
	"github.com/chainguard-dev/clog"
	"github.com/invopop/jsonschema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SubmitToolName is the tool Claude is forced to call with its result.
const SubmitToolName = "submit_result"

const op = "claude"

var tracer = otel.Tracer("chainguard.dev/blogcrew/agents/executor/claudeexecutor")

// Interface is the public interface for Claude structured calls.
type Interface[Request promptbuilder.Bindable, Response any] interface {
	// Execute renders the prompt for request and returns Claude's structured
	// answer decoded into Response. Errors carry a failure.Kind.
	Execute(ctx context.Context, request Request) (Response, error)
}

type executor[Request promptbuilder.Bindable, Response any] struct {
	client             anthropic.Client
	modelName          string
	systemInstructions *promptbuilder.Prompt
	prompt             *promptbuilder.Prompt
	maxTokens          int64
	temperature        float64
	timeout            time.Duration
	agent              metrics.Agent
	genaiMetrics       *metrics.GenAI
	retryConfig        retry.RetryConfig
	responseSchema     *jsonschema.Schema
	submitTool         anthropic.ToolParam
}

// New creates an executor that answers prompt with a Response-shaped
// submit_result tool call.
func New[Request promptbuilder.Bindable, Response any](
	client anthropic.Client,
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
		modelName:      "claude-sonnet-4@20250514",
		prompt:         prompt,
		maxTokens:      8192,
		temperature:    0.7,
		timeout:        2 * time.Minute,
		genaiMetrics:   metrics.NewGenAI(context.Background(), metrics.MeterName),
		retryConfig:    retry.DefaultRetryConfig(),
		responseSchema: responseSchema,
		submitTool: anthropic.ToolParam{
			Name:        SubmitToolName,
			Description: anthropic.String("Submit the final result of this task."),
			InputSchema: anthropic.ToolInputSchemaParam{
				Type: constant.Object("object"),
				Properties: map[string]any{
					"reasoning": map[string]any{
						"type":        "string",
						"description": "Briefly explain how the result satisfies the task.",
					},
					"result": payload,
				},
				Required: []string{"reasoning", "result"},
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
	ctx, span := tracer.Start(ctx, "claude.execute", trace.WithAttributes(
		attribute.String("gen_ai.request.model", e.modelName),
		attribute.String("agent", string(e.agent)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	log := clog.FromContext(ctx).With("model", e.modelName).With("agent", e.agent)

	params, err := e.params(request)
	if err != nil {
		return response, failure.NewCollaborator(op, err)
	}

	message, err := retry.RetryWithBackoff(ctx, e.retryConfig, "claude.messages", retry.IsRetryable, func() (*anthropic.Message, error) {
		e.genaiMetrics.RecordCall(ctx, e.modelName, e.agent)
		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()
		m, err := e.client.Messages.New(callCtx, params)
		if err != nil {
			return nil, classify(ctx, err)
		}
		return m, nil
	})
	if err != nil {
		log.With("error", err).Warn("Claude call failed")
		return response, err
	}

	e.genaiMetrics.RecordTokens(ctx, e.modelName, message.Usage.InputTokens, message.Usage.OutputTokens)
	span.SetAttributes(
		attribute.Int64("gen_ai.usage.input_tokens", message.Usage.InputTokens),
		attribute.Int64("gen_ai.usage.output_tokens", message.Usage.OutputTokens),
	)

	response, err = e.decode(message)
	if err != nil {
		log.With("error", err).Error("Failed to decode Claude response")
		return response, failure.NewCollaborator(op, err)
	}
	log.With("output_tokens", message.Usage.OutputTokens).Info("Claude call completed")
	return response, nil
}

func (e *executor[Request, Response]) params(request Request) (anthropic.MessageNewParams, error) {
	bound, err := request.Bind(e.prompt)
	if err != nil {
		return anthropic.MessageNewParams{}, fmt.Errorf("failed to bind request to prompt: %w", err)
	}
	prompt, err := bound.Build()
	if err != nil {
		return anthropic.MessageNewParams{}, fmt.Errorf("failed to build prompt: %w", err)
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(e.modelName),
		MaxTokens:   e.maxTokens,
		Temperature: anthropic.Float(e.temperature),
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Tools:       []anthropic.ToolUnionParam{{OfTool: &e.submitTool}},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: SubmitToolName},
		},
	}
	if e.systemInstructions != nil {
		system, err := e.systemInstructions.Build()
		if err != nil {
			return anthropic.MessageNewParams{}, fmt.Errorf("building system prompt: %w", err)
		}
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	return params, nil
}

// decode prefers the submit_result tool input and falls back to JSON in
// a text block.
func (e *executor[Request, Response]) decode(message *anthropic.Message) (Response, error) {
	var response Response
	var text string
	for _, block := range message.Content {
		switch block.Type {
		case "tool_use":
			if block.Name != SubmitToolName {
				continue
			}
			var input struct {
				Reasoning string          `json:"reasoning"`
				Result    json.RawMessage `json:"result"`
			}
			if err := json.Unmarshal(block.Input, &input); err != nil {
				return response, fmt.Errorf("decoding %s input: %w", SubmitToolName, err)
			}
			if len(input.Result) == 0 {
				return response, fmt.Errorf("%s called without a result", SubmitToolName)
			}
			if err := schema.Validate(e.responseSchema, input.Result); err != nil {
				return response, err
			}
			if err := json.Unmarshal(input.Result, &response); err != nil {
				return response, fmt.Errorf("decoding result: %w", err)
			}
			return response, nil
		case "text":
			text += block.Text
		}
	}
	if text == "" {
		return response, errors.New("no content in Claude's response")
	}
	return result.Decode[Response](text, e.responseSchema)
}

// classify maps an Anthropic SDK error onto a failure.Kind.
func classify(ctx context.Context, err error) error {
	if c, ok := retry.ClassifyContext(ctx, op, err); ok {
		return c
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return retry.ClassifyStatus(op, apiErr.StatusCode, err)
	}
	return failure.NewCollaborator(op, err)
}
