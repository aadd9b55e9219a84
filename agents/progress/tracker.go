/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package progress

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"chainguard.dev/blogcrew/agents/metrics"
)

// recentUpdates is how many events a Summary carries.
const recentUpdates = 5

// AgentState is the last known state of one agent.
type AgentState struct {
	Agent    metrics.Agent `json:"agent"`
	Status   Status        `json:"status"`
	Task     string        `json:"task,omitempty"`
	Progress float64       `json:"progress"`
	Started  time.Time     `json:"started,omitempty"`
	Ended    time.Time     `json:"ended,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// Duration is how long the agent has been (or was) working.
func (a AgentState) Duration(now time.Time) time.Duration {
	if a.Started.IsZero() {
		return 0
	}
	if !a.Ended.IsZero() {
		return a.Ended.Sub(a.Started)
	}
	return now.Sub(a.Started)
}

// Summary is a snapshot of a run's progress.
type Summary struct {
	RunID         string        `json:"run_id"`
	Stage         Stage         `json:"current_stage"`
	Progress      float64       `json:"overall_progress"`
	Duration      time.Duration `json:"duration"`
	RevisionCount int           `json:"revision_count"`
	MaxRevisions  int           `json:"max_revisions"`
	Agents        []AgentState  `json:"agents"`
	Recent        []Event       `json:"recent_updates"`
}

// Tracker turns workflow transitions into events for a Sink and keeps a
// per-run summary. A Tracker belongs to one run.
type Tracker struct {
	sink         Sink
	runID        string
	now          func() time.Time
	maxRevisions int

	mu        sync.Mutex
	start     time.Time
	end       time.Time
	stage     Stage
	revisions int
	agents    map[metrics.Agent]*AgentState
	recent    []Event
}

// NewTracker returns a Tracker for runID. A nil sink discards events; a
// nil clock uses time.Now.
func NewTracker(sink Sink, runID string, maxRevisions int, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	t := &Tracker{
		sink:         sink,
		runID:        runID,
		now:          now,
		maxRevisions: maxRevisions,
		start:        now(),
		stage:        StageInitializing,
		agents:       make(map[metrics.Agent]*AgentState, len(metrics.Agents)),
	}
	for _, a := range metrics.Agents {
		t.agents[a] = &AgentState{Agent: a, Status: StatusIdle}
	}
	return t
}

// Stage moves the run to stage. An empty message defaults to
// "Workflow stage: <stage>".
func (t *Tracker) Stage(ctx context.Context, stage Stage, message string) {
	t.mu.Lock()
	t.stage = stage
	if stage == StageCompleted || stage == StageError {
		t.end = t.now()
	}
	if message == "" {
		message = "Workflow stage: " + string(stage)
	}
	e := Event{
		Kind:            KindStage,
		Stage:           stage,
		Message:         message,
		ProgressPercent: StagePercent(stage, t.revisions),
	}
	t.mu.Unlock()
	t.emit(ctx, e)
}

// Agent records a status change for agent.
func (t *Tracker) Agent(ctx context.Context, agent metrics.Agent, status Status, task string, progress float64) {
	t.mu.Lock()
	now := t.now()
	st, ok := t.agents[agent]
	if !ok {
		st = &AgentState{Agent: agent, Status: StatusIdle}
		t.agents[agent] = st
	}
	switch {
	case status == StatusWorking && st.Status != StatusWorking:
		st.Started, st.Ended = now, time.Time{}
	case (status == StatusCompleted || status == StatusError) && st.Status == StatusWorking:
		st.Ended = now
	}
	st.Status, st.Task, st.Progress = status, task, progress

	label := titleCase(string(agent)) + " Agent: "
	if task != "" {
		label += task
	} else {
		label += string(status)
	}
	e := Event{
		Kind:            KindAgent,
		Stage:           t.stage,
		Agent:           agent,
		Status:          status,
		Task:            task,
		Message:         label,
		ProgressPercent: t.overallLocked(),
	}
	t.mu.Unlock()
	t.emit(ctx, e)
}

// Revisions records the number of completed revision cycles.
func (t *Tracker) Revisions(ctx context.Context, n int) {
	t.mu.Lock()
	t.revisions = n
	e := Event{
		Kind:            KindStage,
		Stage:           t.stage,
		Message:         fmt.Sprintf("Revision cycle %d/%d", n, t.maxRevisions),
		ProgressPercent: t.overallLocked(),
	}
	t.mu.Unlock()
	t.emit(ctx, e)
}

// Error marks agent as failed and moves the run to the error stage.
func (t *Tracker) Error(ctx context.Context, agent metrics.Agent, message string) {
	t.mu.Lock()
	if st, ok := t.agents[agent]; ok {
		st.Status, st.Error, st.Ended = StatusError, message, t.now()
	}
	t.mu.Unlock()
	t.Stage(ctx, StageError, fmt.Sprintf("Error in %s: %s", agent, message))
}

// Summary returns a snapshot of the run.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	end := t.end
	if end.IsZero() {
		end = t.now()
	}
	s := Summary{
		RunID:         t.runID,
		Stage:         t.stage,
		Progress:      t.overallLocked(),
		Duration:      end.Sub(t.start),
		RevisionCount: t.revisions,
		MaxRevisions:  t.maxRevisions,
		Recent:        append([]Event(nil), t.recent...),
	}
	for _, a := range metrics.Agents {
		if st, ok := t.agents[a]; ok {
			s.Agents = append(s.Agents, *st)
		}
	}
	return s
}

// overallLocked adds up to 10 points for the average progress of working
// agents to the stage percent.
func (t *Tracker) overallLocked() float64 {
	base := StagePercent(t.stage, t.revisions)
	var sum float64
	var n int
	for _, st := range t.agents {
		if st.Status == StatusWorking {
			sum += st.Progress
			n++
		}
	}
	if n > 0 {
		base = min(base+sum/float64(n)/100*10, 100)
	}
	return base
}

func (t *Tracker) emit(ctx context.Context, e Event) {
	e.RunID = t.runID
	e.Time = t.now()
	t.mu.Lock()
	t.recent = append(t.recent, e)
	if len(t.recent) > recentUpdates {
		t.recent = t.recent[len(t.recent)-recentUpdates:]
	}
	t.mu.Unlock()
	if t.sink != nil {
		t.sink.Emit(ctx, e)
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
