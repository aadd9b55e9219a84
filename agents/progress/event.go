/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package progress

import (
	"time"

	"chainguard.dev/blogcrew/agents/metrics"
)

// Stage is a step of the blog generation workflow.
type Stage string

const (
	StageInitializing   Stage = "initializing"
	StageResearching    Stage = "researching"
	StageWritingInitial Stage = "writing_initial"
	StageCritiquing     Stage = "critiquing"
	StageRevising       Stage = "revising"
	StageFinalizing     Stage = "finalizing"
	StageCompleted      Stage = "completed"
	StageError          Stage = "error"
)

var stagePercent = map[Stage]float64{
	StageInitializing:   5,
	StageResearching:    20,
	StageWritingInitial: 40,
	StageCritiquing:     60,
	StageRevising:       80,
	StageFinalizing:     95,
	StageCompleted:      100,
	StageError:          0,
}

// StagePercent returns the overall progress for stage. Revising gains 10
// points per completed revision, up to 30, and never passes 95.
func StagePercent(stage Stage, revisions int) float64 {
	p := stagePercent[stage]
	if stage == StageRevising && revisions > 0 {
		p = min(p+float64(min(revisions*10, 30)), 95)
	}
	return p
}

// Status is the state of a single agent.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusWorking   Status = "working"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Kind distinguishes workflow-level events from agent-level events.
type Kind string

const (
	KindStage Kind = "stage"
	KindAgent Kind = "agent"
)

// Event is a single progress notification.
type Event struct {
	RunID           string        `json:"run_id"`
	Time            time.Time     `json:"time"`
	Kind            Kind          `json:"kind"`
	Stage           Stage         `json:"stage"`
	Agent           metrics.Agent `json:"agent,omitempty"`
	Status          Status        `json:"status,omitempty"`
	Message         string        `json:"message"`
	Task            string        `json:"task,omitempty"`
	ProgressPercent float64       `json:"progress_percent"`
}
