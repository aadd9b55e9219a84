/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package blog

import (
	"fmt"
	"strings"
)

// RepairResearch normalizes a research result produced by a model or a
// heuristic pass: it fills the topic, clamps scores into [0,1] and maps
// unknown categories to general_fact. It returns a fresh value.
func RepairResearch(r *ResearchResult, topic string) *ResearchResult {
	if r == nil {
		return &ResearchResult{Topic: topic, Findings: []ResearchFinding{}}
	}
	out := &ResearchResult{
		Topic:           r.Topic,
		Summary:         strings.TrimSpace(r.Summary),
		ConfidenceLevel: clamp(r.ConfidenceLevel, 0, 1),
		Findings:        make([]ResearchFinding, 0, len(r.Findings)),
	}
	if strings.TrimSpace(out.Topic) == "" {
		out.Topic = topic
	}
	for _, f := range r.Findings {
		if strings.TrimSpace(f.Fact) == "" {
			continue
		}
		if !f.Category.Valid() {
			f.Category = CategoryGeneralFact
		}
		f.RelevanceScore = clamp(f.RelevanceScore, 0, 1)
		out.Findings = append(out.Findings, f)
	}
	return out
}

// RepairDraft normalizes a draft produced by a model: empty sections are
// dropped, a missing title or conclusion is synthesized from the topic, and
// the word count is recomputed.
func RepairDraft(d *Draft, topic string) *Draft {
	if d == nil {
		return MinimalDraft(topic, nil)
	}
	sections := make([]string, 0, len(d.BodySections))
	for _, s := range d.BodySections {
		if s = strings.TrimSpace(s); s != "" {
			sections = append(sections, s)
		}
	}
	title := strings.TrimSpace(d.Title)
	if title == "" {
		title = fmt.Sprintf("Blog Post: %s", topic)
	}
	conclusion := strings.TrimSpace(d.Conclusion)
	if conclusion == "" {
		conclusion = fmt.Sprintf("In conclusion, %s is an important topic that requires further exploration.", topic)
	}
	return NewDraft(title, strings.TrimSpace(d.Introduction), sections, conclusion)
}

// RepairCritique normalizes a critique produced by a model: quality is
// clamped into [0,10], unknown severities become minor and an unknown
// approval status becomes needs_revision.
func RepairCritique(c *Critique) *Critique {
	if c == nil {
		return &Critique{FeedbackItems: []FeedbackItem{}, ApprovalStatus: NeedsRevision}
	}
	out := &Critique{
		OverallQuality:  clamp(c.OverallQuality, 0, 10),
		ApprovalStatus:  c.ApprovalStatus,
		SummaryFeedback: strings.TrimSpace(c.SummaryFeedback),
		FeedbackItems:   make([]FeedbackItem, 0, len(c.FeedbackItems)),
	}
	if out.ApprovalStatus != Approved {
		out.ApprovalStatus = NeedsRevision
	}
	for _, item := range c.FeedbackItems {
		if item.Severity.Rank() == 0 {
			item.Severity = SeverityMinor
		}
		out.FeedbackItems = append(out.FeedbackItems, item)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
