/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// AttributeEnricher adds contextual attributes (run ID, topic) to the base
// attributes of a measurement.
type AttributeEnricher func(ctx context.Context, baseAttrs []attribute.KeyValue) []attribute.KeyValue

type runIDKey struct{}

// WithRunID tags ctx with the workflow run ID.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext returns the run ID stored by WithRunID, if any.
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// RunIDEnricher adds the run_id attribute when ctx carries one.
func RunIDEnricher(ctx context.Context, baseAttrs []attribute.KeyValue) []attribute.KeyValue {
	if id := RunIDFromContext(ctx); id != "" {
		return append(baseAttrs, attribute.String("run_id", id))
	}
	return baseAttrs
}
