/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"

	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// MeterName is the meter shared by every executor in this module.
const MeterName = "chainguard.blogcrew.agents"

// GenAI records OpenTelemetry counters for model calls: prompt and
// completion tokens, and calls per agent. Counters that fail to initialize
// degrade to no-ops.
type GenAI struct {
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
	modelCalls       metric.Int64Counter
	attrEnricher     AttributeEnricher
}

// NewGenAI creates a GenAI instance on the named meter. The model is a
// dimension on every recorded value, so one meter serves all providers.
func NewGenAI(ctx context.Context, meterName string) *GenAI {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))
	log := clog.FromContext(ctx).With("meter", meterName)

	counter := func(name, desc, unit string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			log.With("counter", name).With("error", err).Warn("Failed to create counter, metric disabled")
			return noop.Int64Counter{}
		}
		return c
	}

	return &GenAI{
		promptTokens:     counter("genai.token.prompt", "The number of prompt tokens used", "{tokens}"),
		completionTokens: counter("genai.token.completion", "The number of completion tokens used", "{tokens}"),
		modelCalls:       counter("genai.agent.calls", "The number of model calls made per agent", "{calls}"),
	}
}

// SetAttributeEnricher installs an enricher run before every recording.
func (m *GenAI) SetAttributeEnricher(enricher AttributeEnricher) {
	m.attrEnricher = enricher
}

func (m *GenAI) attrs(ctx context.Context, base []attribute.KeyValue, extra []attribute.KeyValue) metric.MeasurementOption {
	if m.attrEnricher != nil {
		base = m.attrEnricher(ctx, base)
	}
	return metric.WithAttributes(append(base, extra...)...)
}

// RecordTokens records prompt and completion token usage for model.
func (m *GenAI) RecordTokens(ctx context.Context, model string, promptTokens, completionTokens int64, attrs ...attribute.KeyValue) {
	opt := m.attrs(ctx, []attribute.KeyValue{attribute.String("model", model)}, attrs)
	m.promptTokens.Add(ctx, promptTokens, opt)
	m.completionTokens.Add(ctx, completionTokens, opt)
}

// RecordCall records one model call on behalf of agent.
func (m *GenAI) RecordCall(ctx context.Context, model string, agent Agent, attrs ...attribute.KeyValue) {
	m.modelCalls.Add(ctx, 1, m.attrs(ctx, []attribute.KeyValue{
		attribute.String("model", model),
		attribute.String("agent", string(agent)),
	}, attrs))
}
