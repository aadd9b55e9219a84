/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package revision

import (
	"fmt"
	"strconv"
	"strings"

	"chainguard.dev/blogcrew/agents/blog"
)

// Rule identifies which rule of the policy produced a decision.
type Rule int

const (
	RuleMaxIterations Rule = iota + 1
	RuleApproved
	RuleThresholdMet
	RuleMajorIssues
	RuleModerateIssues
	RuleFarBelowThreshold
	RuleAcceptable
)

func (r Rule) String() string {
	switch r {
	case RuleMaxIterations:
		return "max_iterations"
	case RuleApproved:
		return "approved"
	case RuleThresholdMet:
		return "threshold_met"
	case RuleMajorIssues:
		return "major_issues"
	case RuleModerateIssues:
		return "moderate_issues"
	case RuleFarBelowThreshold:
		return "far_below_threshold"
	case RuleAcceptable:
		return "acceptable"
	default:
		return "unknown"
	}
}

// Decision is the outcome of Decide.
type Decision struct {
	ShouldRevise bool
	Reasoning    string
	Rule         Rule
}

// Decide determines whether the draft critiqued by c should be revised.
// currentIteration is 1-based. The first matching rule wins:
//
//  1. iteration cap reached: stop
//  2. critique approved: stop
//  3. quality meets threshold: stop
//  4. major issues and quality more than 1.0 below threshold: revise
//  5. moderate issues and quality below threshold: revise
//  6. quality more than 2.0 below threshold: revise
//  7. otherwise: stop
func Decide(c *blog.Critique, currentIteration, maxIterations int, threshold float64) Decision {
	q := c.OverallQuality
	if currentIteration >= maxIterations {
		return Decision{
			Rule:      RuleMaxIterations,
			Reasoning: fmt.Sprintf("Maximum iterations (%d) reached. Stopping revision cycle.", maxIterations),
		}
	}
	if c.IsApproved() {
		return Decision{
			Rule:      RuleApproved,
			Reasoning: "Draft approved by critique agent.",
		}
	}
	if q >= threshold {
		return Decision{
			Rule:      RuleThresholdMet,
			Reasoning: fmt.Sprintf("Quality score (%.1f) meets threshold (%s).", q, formatThreshold(threshold)),
		}
	}

	counts := c.CountBySeverity()
	switch {
	case counts.Major > 0 && q < threshold-1.0:
		return Decision{
			ShouldRevise: true,
			Rule:         RuleMajorIssues,
			Reasoning:    fmt.Sprintf("Major issues found (%d) and quality score (%.1f) significantly below threshold.", counts.Major, q),
		}
	case counts.Moderate > 0 && q < threshold:
		return Decision{
			ShouldRevise: true,
			Rule:         RuleModerateIssues,
			Reasoning:    fmt.Sprintf("Moderate issues found (%d) and quality score (%.1f) below threshold.", counts.Moderate, q),
		}
	case q < threshold-2.0:
		return Decision{
			ShouldRevise: true,
			Rule:         RuleFarBelowThreshold,
			Reasoning:    fmt.Sprintf("Quality score (%.1f) significantly below threshold (%s).", q, formatThreshold(threshold)),
		}
	default:
		return Decision{
			Rule:      RuleAcceptable,
			Reasoning: fmt.Sprintf("Quality acceptable (%.1f) despite minor issues.", q),
		}
	}
}

// formatThreshold prints whole numbers with one decimal ("7.0") and other
// values at their shortest exact form ("7.25").
func formatThreshold(t float64) string {
	s := strconv.FormatFloat(t, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// maxMinorItems bounds how many minor items are passed to the writer.
const maxMinorItems = 3

// FormatFeedback renders a critique into revision instructions for the
// writer: the summary followed by major, moderate and (at most three)
// minor items, each as "- <section>: <issue> -> <suggestion>".
func FormatFeedback(c *blog.Critique) string {
	var major, moderate, minor []blog.FeedbackItem
	for _, item := range c.FeedbackItems {
		switch item.Severity {
		case blog.SeverityMajor:
			major = append(major, item)
		case blog.SeverityModerate:
			moderate = append(moderate, item)
		case blog.SeverityMinor:
			minor = append(minor, item)
		}
	}
	if len(minor) > maxMinorItems {
		minor = minor[:maxMinorItems]
	}

	parts := []string{c.SummaryFeedback}
	for _, group := range []struct {
		heading string
		items   []blog.FeedbackItem
	}{
		{"\nCRITICAL ISSUES TO ADDRESS:", major},
		{"\nIMPORTANT IMPROVEMENTS:", moderate},
		{"\nMINOR ENHANCEMENTS:", minor},
	} {
		if len(group.items) == 0 {
			continue
		}
		parts = append(parts, group.heading)
		for _, item := range group.items {
			parts = append(parts, fmt.Sprintf("- %s: %s -> %s", item.Section, item.Issue, item.Suggestion))
		}
	}
	return strings.Join(parts, "\n")
}
