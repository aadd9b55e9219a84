/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package blog_test

import (
	"errors"
	"strings"
	"testing"

	"chainguard.dev/blogcrew/agents/blog"
	"chainguard.dev/blogcrew/agents/failure"
	"github.com/google/go-cmp/cmp"
)

func TestValidateTopic(t *testing.T) {
	t.Parallel()
	for _, topic := range []string{"", "   ", "\t\n"} {
		err := blog.ValidateTopic(topic)
		if !failure.Is(err, failure.Validation) {
			t.Errorf("ValidateTopic(%q) = %v, want validation error", topic, err)
		}
	}
	if err := blog.ValidateTopic("benefits of meditation"); err != nil {
		t.Errorf("ValidateTopic() = %v, want nil", err)
	}
}

func TestNewDraft_WordCount(t *testing.T) {
	t.Parallel()
	d := blog.NewDraft("Two words", "three words here", []string{"one", "  four  words\tin\nhere "}, "end")
	if got, want := d.WordCount, 2+3+1+4+1; got != want {
		t.Errorf("WordCount = %d, want %d", got, want)
	}
}

func TestDraft_RecountIdempotent(t *testing.T) {
	t.Parallel()
	d := &blog.Draft{
		Title:        "A title",
		Introduction: "An introduction paragraph.",
		BodySections: []string{"Section one body.", "Section two body text."},
		Conclusion:   "Wrap up.",
		WordCount:    9999,
	}
	once := d.Recount()
	twice := once.Recount()
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("Recount not idempotent (-once +twice):\n%s", diff)
	}
	if once.WordCount != 14 {
		t.Errorf("WordCount = %d, want 14", once.WordCount)
	}
	if d.WordCount != 9999 {
		t.Error("Recount mutated its receiver")
	}
}

func TestDraft_HTML(t *testing.T) {
	t.Parallel()
	d := blog.NewDraft("Sleep", "Why it matters.", []string{"## Science\n\nStudies show **benefits**."}, "Rest well.")
	html, err := d.HTML()
	if err != nil {
		t.Fatalf("HTML() = %v", err)
	}
	for _, want := range []string{"<h1>Sleep</h1>", "<h2>Science</h2>", "<strong>benefits</strong>", "<h2>Conclusion</h2>"} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML() missing %q:\n%s", want, html)
		}
	}
}

func TestCritique_CountBySeverity(t *testing.T) {
	t.Parallel()
	c := &blog.Critique{FeedbackItems: []blog.FeedbackItem{
		{Severity: blog.SeverityMajor},
		{Severity: blog.SeverityMinor},
		{Severity: blog.SeverityMinor},
		{Severity: blog.SeverityModerate},
	}}
	want := blog.SeverityCounts{Major: 1, Moderate: 1, Minor: 2}
	if diff := cmp.Diff(want, c.CountBySeverity()); diff != "" {
		t.Errorf("CountBySeverity() (-want +got):\n%s", diff)
	}
}

func TestMinimalResearch(t *testing.T) {
	t.Parallel()
	cause := errors.New(strings.Repeat("x", 250))
	r := blog.MinimalResearch("tides", cause)
	if r.ConfidenceLevel != 0.1 {
		t.Errorf("ConfidenceLevel = %v, want 0.1", r.ConfidenceLevel)
	}
	if len(r.Findings) != 0 {
		t.Errorf("Findings = %v, want empty", r.Findings)
	}
	want := "Limited research available for tides due to technical issues: " + strings.Repeat("x", 100)
	if r.Summary != want {
		t.Errorf("Summary = %q, want %q", r.Summary, want)
	}
}

func TestMinimalDraft(t *testing.T) {
	t.Parallel()
	d := blog.MinimalDraft("tides", errors.New("model unavailable"))
	if d.Title != "Blog Post: tides" {
		t.Errorf("Title = %q", d.Title)
	}
	if d.Introduction != "This article explores tides. model unavailable" {
		t.Errorf("Introduction = %q", d.Introduction)
	}
	if d.WordCount != d.Recount().WordCount {
		t.Errorf("WordCount = %d, not consistent with content", d.WordCount)
	}
}

func TestMinimalCritique(t *testing.T) {
	t.Parallel()
	c := blog.MinimalCritique(errors.New("timeout"))
	if c.OverallQuality != 6.0 || !c.IsApproved() || len(c.FeedbackItems) != 0 {
		t.Errorf("MinimalCritique() = %+v", c)
	}
}

func TestRepairDraft(t *testing.T) {
	t.Parallel()
	got := blog.RepairDraft(&blog.Draft{
		Introduction: " intro ",
		BodySections: []string{"body", "   ", ""},
		WordCount:    3,
	}, "tides")
	want := blog.NewDraft(
		"Blog Post: tides",
		"intro",
		[]string{"body"},
		"In conclusion, tides is an important topic that requires further exploration.",
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RepairDraft() (-want +got):\n%s", diff)
	}
}

func TestRepairCritique(t *testing.T) {
	t.Parallel()
	got := blog.RepairCritique(&blog.Critique{
		OverallQuality: 14,
		ApprovalStatus: "maybe",
		FeedbackItems: []blog.FeedbackItem{
			{Section: "intro", Severity: "critical"},
			{Section: "body", Severity: blog.SeverityMajor},
		},
	})
	want := &blog.Critique{
		OverallQuality: 10,
		ApprovalStatus: blog.NeedsRevision,
		FeedbackItems: []blog.FeedbackItem{
			{Section: "intro", Severity: blog.SeverityMinor},
			{Section: "body", Severity: blog.SeverityMajor},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RepairCritique() (-want +got):\n%s", diff)
	}
}

func TestRepairResearch(t *testing.T) {
	t.Parallel()
	got := blog.RepairResearch(&blog.ResearchResult{
		ConfidenceLevel: 1.7,
		Findings: []blog.ResearchFinding{
			{Fact: "a fact", RelevanceScore: -1, Category: "rumor"},
			{Fact: "  "},
		},
	}, "tides")
	want := &blog.ResearchResult{
		Topic:           "tides",
		ConfidenceLevel: 1,
		Findings: []blog.ResearchFinding{
			{Fact: "a fact", RelevanceScore: 0, Category: blog.CategoryGeneralFact},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RepairResearch() (-want +got):\n%s", diff)
	}
}
