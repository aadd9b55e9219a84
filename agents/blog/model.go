/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package blog

import (
	"strings"

	"chainguard.dev/blogcrew/agents/failure"
	"chainguard.dev/blogcrew/agents/metrics"
	"chainguard.dev/blogcrew/agents/progress"
)

// ValidateTopic rejects empty and whitespace-only topics.
func ValidateTopic(topic string) error {
	if strings.TrimSpace(topic) == "" {
		return failure.Validationf("topic", "topic cannot be empty")
	}
	return nil
}

// Category labels the kind of information a finding carries.
type Category string

const (
	CategoryStatistic     Category = "statistic"
	CategoryStudy         Category = "study"
	CategoryExpertOpinion Category = "expert_opinion"
	CategoryBenefit       Category = "benefit"
	CategoryRisk          Category = "risk"
	CategoryGeneralFact   Category = "general_fact"
)

// Categories lists every known category in presentation order.
var Categories = []Category{
	CategoryStudy,
	CategoryStatistic,
	CategoryBenefit,
	CategoryRisk,
	CategoryExpertOpinion,
	CategoryGeneralFact,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ResearchFinding is a single sourced fact.
type ResearchFinding struct {
	Fact           string   `json:"fact" jsonschema:"required" jsonschema_description:"The factual information found"`
	SourceURL      string   `json:"source_url" jsonschema:"required" jsonschema_description:"URL of the source"`
	RelevanceScore float64  `json:"relevance_score" jsonschema:"required,minimum=0,maximum=1" jsonschema_description:"Relevance to the topic"`
	Category       Category `json:"category" jsonschema:"required,enum=statistic,enum=study,enum=expert_opinion,enum=benefit,enum=risk,enum=general_fact"`
}

// ResearchResult is the output of the research stage. It is shared
// read-only by every later stage of a run.
type ResearchResult struct {
	Topic           string            `json:"topic" jsonschema:"required"`
	Findings        []ResearchFinding `json:"findings" jsonschema:"required"`
	Summary         string            `json:"summary" jsonschema:"required" jsonschema_description:"Brief summary of key insights"`
	ConfidenceLevel float64           `json:"confidence_level" jsonschema:"required,minimum=0,maximum=1"`
}

// Severity ranks a critique feedback item.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityMajor    Severity = "major"
)

// Rank orders severities: minor < moderate < major. Unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityMinor:
		return 1
	case SeverityModerate:
		return 2
	case SeverityMajor:
		return 3
	default:
		return 0
	}
}

// FeedbackItem is one actionable critique of a draft.
type FeedbackItem struct {
	Section    string   `json:"section" jsonschema:"required" jsonschema_description:"Which section the feedback applies to"`
	Issue      string   `json:"issue" jsonschema:"required"`
	Suggestion string   `json:"suggestion" jsonschema:"required"`
	Severity   Severity `json:"severity" jsonschema:"required,enum=minor,enum=moderate,enum=major"`
}

// ApprovalStatus is the critic's verdict on a draft.
type ApprovalStatus string

const (
	Approved      ApprovalStatus = "approved"
	NeedsRevision ApprovalStatus = "needs_revision"
)

// Critique is the output of the critique stage.
type Critique struct {
	OverallQuality  float64        `json:"overall_quality" jsonschema:"required,minimum=0,maximum=10"`
	FeedbackItems   []FeedbackItem `json:"feedback_items" jsonschema:"required"`
	ApprovalStatus  ApprovalStatus `json:"approval_status" jsonschema:"required,enum=approved,enum=needs_revision"`
	SummaryFeedback string         `json:"summary_feedback" jsonschema:"required"`
}

// SeverityCounts tallies feedback items per severity.
type SeverityCounts struct {
	Major, Moderate, Minor int
}

// CountBySeverity tallies the feedback items of c.
func (c *Critique) CountBySeverity() SeverityCounts {
	var sc SeverityCounts
	for _, item := range c.FeedbackItems {
		switch item.Severity {
		case SeverityMajor:
			sc.Major++
		case SeverityModerate:
			sc.Moderate++
		case SeverityMinor:
			sc.Minor++
		}
	}
	return sc
}

// IsApproved reports whether the critic approved the draft.
func (c *Critique) IsApproved() bool {
	return c.ApprovalStatus == Approved
}

// WorkflowResult is the final output of one orchestration run.
type WorkflowResult struct {
	RunID               string          `json:"run_id"`
	FinalPost           *Draft          `json:"final_post"`
	ResearchData        *ResearchResult `json:"research_data"`
	RevisionCount       int             `json:"revision_count"`
	TotalProcessingTime float64         `json:"total_processing_time"`
	QualityScore        float64         `json:"quality_score"`
	// QualityMet is true when the final critique approved the draft or
	// its score reached the threshold.
	QualityMet  bool          `json:"quality_met"`
	StopReason  string        `json:"stop_reason"`
	Interrupted bool          `json:"interrupted,omitempty"`
	Usage       metrics.Usage `json:"usage"`
	Metrics     metrics.Final `json:"metrics"`
	// Progress is the tracker's view of the run when it ended.
	Progress *progress.Summary `json:"progress,omitempty"`
}
