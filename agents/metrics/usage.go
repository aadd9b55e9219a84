/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import "strings"

// Agent names a workflow participant for usage accounting and metric labels.
type Agent string

const (
	AgentResearch     Agent = "research"
	AgentWriting      Agent = "writing"
	AgentCritique     Agent = "critique"
	AgentOrchestrator Agent = "orchestrator"
)

// Agents lists every participant in display order.
var Agents = []Agent{AgentResearch, AgentWriting, AgentCritique, AgentOrchestrator}

// Usage counts the work done during a single run. Each run owns its own
// Usage; it is not safe for concurrent use.
type Usage struct {
	ResearchCalls  int `json:"research_calls"`
	WritingCalls   int `json:"writing_calls"`
	CritiqueCalls  int `json:"critique_calls"`
	TotalTokens    int `json:"total_tokens"`
	APICalls       int `json:"api_calls"`
	RevisionCycles int `json:"revision_cycles"`
}

// RecordCall counts one attempted call to agent.
func (u *Usage) RecordCall(agent Agent) {
	switch agent {
	case AgentResearch:
		u.ResearchCalls++
	case AgentWriting:
		u.WritingCalls++
	case AgentCritique:
		u.CritiqueCalls++
	}
	u.APICalls++
}

// AddTokens adds an estimate of tokens consumed by a successful call.
func (u *Usage) AddTokens(n int) {
	if n > 0 {
		u.TotalTokens += n
	}
}

// RecordRevision counts one revise cycle.
func (u *Usage) RecordRevision() {
	u.RevisionCycles++
}

// EstimateTokens approximates the token cost of text as two tokens per
// whitespace-separated word.
func EstimateTokens(text ...string) int {
	n := 0
	for _, t := range text {
		n += len(strings.Fields(t))
	}
	return n * 2
}

// Final summarizes a completed run.
type Final struct {
	QualityScore    float64 `json:"quality_score"`
	RevisionCount   int     `json:"revision_count"`
	ProcessingTime  float64 `json:"processing_time"`
	EfficiencyScore float64 `json:"efficiency_score"`
}

// NewFinal computes final run metrics. Efficiency is quality per minute of
// processing, with runs shorter than a minute counted as one minute.
func NewFinal(quality float64, revisions int, seconds float64) Final {
	return Final{
		QualityScore:    quality,
		RevisionCount:   revisions,
		ProcessingTime:  seconds,
		EfficiencyScore: quality / max(seconds/60, 1),
	}
}
