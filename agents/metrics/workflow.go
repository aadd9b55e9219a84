/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Workflow exports Prometheus metrics for orchestration runs.
type Workflow struct {
	runs         *prometheus.CounterVec
	degradations *prometheus.CounterVec
	revisions    prometheus.Counter
	quality      prometheus.Gauge
	duration     prometheus.Histogram
}

// NewWorkflow registers the workflow metrics with reg. Passing
// prometheus.DefaultRegisterer exposes them through promhttp.Handler.
func NewWorkflow(reg prometheus.Registerer) *Workflow {
	f := promauto.With(reg)
	return &Workflow{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "blogcrew_workflow_runs_total",
			Help: "Total number of workflow runs by outcome",
		}, []string{"outcome"}),
		degradations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "blogcrew_stage_degradations_total",
			Help: "Total number of stages that fell back to a degraded result",
		}, []string{"agent"}),
		revisions: f.NewCounter(prometheus.CounterOpts{
			Name: "blogcrew_revisions_total",
			Help: "Total number of revise cycles across all runs",
		}),
		quality: f.NewGauge(prometheus.GaugeOpts{
			Name: "blogcrew_last_quality_score",
			Help: "Quality score of the most recently completed run (0-10)",
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "blogcrew_workflow_duration_seconds",
			Help:    "Wall-clock duration of workflow runs",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}

// Outcome labels how a run ended.
type Outcome string

const (
	OutcomeCompleted   Outcome = "completed"
	OutcomeRetryable   Outcome = "retryable"
	OutcomeFailed      Outcome = "failed"
	OutcomeInterrupted Outcome = "interrupted"
)

// Degraded counts a stage that substituted a degraded result. A nil
// Workflow is a no-op, as are the other methods.
func (w *Workflow) Degraded(agent Agent) {
	if w == nil {
		return
	}
	w.degradations.WithLabelValues(string(agent)).Inc()
}

// Revised counts one revise cycle.
func (w *Workflow) Revised() {
	if w == nil {
		return
	}
	w.revisions.Inc()
}

// Finished records the end of a run.
func (w *Workflow) Finished(outcome Outcome, final *Final) {
	if w == nil {
		return
	}
	w.runs.WithLabelValues(string(outcome)).Inc()
	if final != nil {
		w.quality.Set(final.QualityScore)
		w.duration.Observe(final.ProcessingTime)
	}
}
