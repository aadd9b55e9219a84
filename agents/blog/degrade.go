/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package blog

import (
	"fmt"
	"strings"

	"chainguard.dev/blogcrew/agents/failure"
)

// causeLimit bounds how much of an error message leaks into degraded content.
const causeLimit = 100

// MinimalResearch stands in for research that failed with cause.
func MinimalResearch(topic string, cause error) *ResearchResult {
	return &ResearchResult{
		Topic:           topic,
		Findings:        []ResearchFinding{},
		Summary:         fmt.Sprintf("Limited research available for %s due to technical issues: %s", topic, failure.Truncate(cause, causeLimit)),
		ConfidenceLevel: 0.1,
	}
}

// MinimalDraft stands in for a draft that could not be written.
func MinimalDraft(topic string, cause error) *Draft {
	intro := fmt.Sprintf("This article explores %s.", topic)
	if cause != nil {
		intro += " " + failure.Truncate(cause, causeLimit)
	}
	return NewDraft(
		fmt.Sprintf("Blog Post: %s", topic),
		strings.TrimSpace(intro),
		[]string{fmt.Sprintf("Content about %s will be added here due to technical limitations.", topic)},
		fmt.Sprintf("In conclusion, %s is an important topic that requires further exploration.", topic),
	)
}

// MinimalCritique stands in for a critique that failed. It approves the
// draft so the loop terminates.
func MinimalCritique(cause error) *Critique {
	return &Critique{
		OverallQuality:  6.0,
		FeedbackItems:   []FeedbackItem{},
		ApprovalStatus:  Approved,
		SummaryFeedback: fmt.Sprintf("Unable to provide detailed critique due to technical issues: %s", failure.Truncate(cause, causeLimit)),
	}
}
