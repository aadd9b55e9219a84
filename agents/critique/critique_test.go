/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package critique_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"chainguard.dev/blogcrew/agents/blog"
	"chainguard.dev/blogcrew/agents/critique"
	"chainguard.dev/blogcrew/agents/failure"
	"github.com/google/go-cmp/cmp"
)

var research = &blog.ResearchResult{
	Topic: "urban gardening",
	Findings: []blog.ResearchFinding{
		{Fact: "Community gardens reduce neighborhood temperatures", SourceURL: "https://a", RelevanceScore: 0.8, Category: blog.CategoryBenefit},
		{Fact: "About 35% of households grow food", SourceURL: "https://b", RelevanceScore: 0.7, Category: blog.CategoryStatistic},
		{Fact: "Volcanic soils are unrelated entirely", SourceURL: "https://c", RelevanceScore: 0.4, Category: blog.CategoryGeneralFact},
	},
}

func TestAnalyze(t *testing.T) {
	t.Parallel()
	draft := blog.NewDraft(
		"The Complete Guide to Urban Gardening",
		"Did you know cities can feed themselves? This article will explore how.",
		[]string{
			"Community gardens cool streets in summer.",
			"About 35% of households grow some food at home.",
			"Studies show rooftop bees double yields everywhere.",
		},
		"In conclusion, start small and try herbs first.",
	)
	a := critique.Analyze(draft, research)

	if a.Title.Score != 1 || a.Title.Issues != nil {
		t.Errorf("Title = %+v", a.Title)
	}
	wantIntro := []string{"Contains engaging hook", "Previews article content"}
	if diff := cmp.Diff(wantIntro, a.Introduction.Strengths); diff != "" {
		t.Errorf("Introduction.Strengths (-want +got):\n%s", diff)
	}
	if got, want := a.Introduction.Score, 0.7; got < want-1e-9 || got > want+1e-9 {
		t.Errorf("Introduction.Score = %v, want %v", got, want)
	}
	wantConclusion := []string{"Contains clear summary", "Includes call to action"}
	if diff := cmp.Diff(wantConclusion, a.Conclusion.Strengths); diff != "" {
		t.Errorf("Conclusion.Strengths (-want +got):\n%s", diff)
	}
	if a.Body.SectionCount != 3 || a.Body.BalanceScore != 1 || a.Body.Issues != nil {
		t.Errorf("Body = %+v", a.Body)
	}

	ev := a.Evidence
	if ev.UtilizedFindings != 2 || ev.TotalFindings != 3 {
		t.Errorf("Evidence utilization = %d/%d, want 2/3", ev.UtilizedFindings, ev.TotalFindings)
	}
	if ev.NumbersInContent != 1 || ev.NumbersInResearch != 1 || ev.VerificationScore != 1 {
		t.Errorf("Evidence numbers = %+v", ev)
	}
	if diff := cmp.Diff([]string{"Studies show rooftop bees double yields everywhere"}, ev.UnsupportedClaims); diff != "" {
		t.Errorf("UnsupportedClaims (-want +got):\n%s", diff)
	}
}

func TestAnalyze_EmptyBody(t *testing.T) {
	t.Parallel()
	a := critique.Analyze(blog.NewDraft("Short", "", nil, ""), nil)
	if diff := cmp.Diff([]string{"No body sections found"}, a.Body.Issues); diff != "" {
		t.Errorf("Body.Issues (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Title may be too short to be descriptive"}, a.Title.Issues); diff != "" {
		t.Errorf("Title.Issues (-want +got):\n%s", diff)
	}
	if a.Evidence.UtilizationScore != 1 {
		t.Errorf("UtilizationScore = %v, want 1 without findings", a.Evidence.UtilizationScore)
	}
}

type fakeReviewer struct {
	out *blog.Critique
	err error
	got *critique.Request
}

func (f *fakeReviewer) Execute(_ context.Context, req *critique.Request) (*blog.Critique, error) {
	f.got = req
	return f.out, f.err
}

func TestAgent_Critique(t *testing.T) {
	t.Parallel()
	reviewer := &fakeReviewer{out: &blog.Critique{
		OverallQuality: 11,
		ApprovalStatus: "ship it",
		FeedbackItems: []blog.FeedbackItem{
			{Section: "intro", Issue: "Weak hook", Suggestion: "Open with a question", Severity: "critical"},
			{Section: "body", Issue: "No data", Suggestion: "Add numbers", Severity: blog.SeverityMajor},
		},
		SummaryFeedback: "  Needs evidence. ",
	}}
	a, err := critique.New(reviewer)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	draft := blog.NewDraft("Gardens", "Intro.", []string{"Body."}, "End.")

	got, err := a.Critique(context.Background(), draft, research, 7.5)
	if err != nil {
		t.Fatalf("Critique() = %v", err)
	}
	want := &blog.Critique{
		OverallQuality: 10,
		ApprovalStatus: blog.NeedsRevision,
		FeedbackItems: []blog.FeedbackItem{
			{Section: "intro", Issue: "Weak hook", Suggestion: "Open with a question", Severity: blog.SeverityMinor},
			{Section: "body", Issue: "No data", Suggestion: "Add numbers", Severity: blog.SeverityMajor},
		},
		SummaryFeedback: "Needs evidence.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Critique() (-want +got):\n%s", diff)
	}
	if reviewer.got.Topic != "urban gardening" || reviewer.got.Threshold != 7.5 || reviewer.got.Analysis == nil {
		t.Errorf("request = %+v", reviewer.got)
	}

	prompt, err := reviewer.got.Bind(critique.CritiquePrompt)
	if err != nil {
		t.Fatalf("Bind() = %v", err)
	}
	text, err := prompt.Build()
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	for _, want := range []string{`"urban gardening"`, "3 findings", "at least 7.5", "utilization_score"} {
		if !strings.Contains(text, want) {
			t.Errorf("prompt missing %q:\n%s", want, text)
		}
	}
}

func TestAgent_CritiqueErrors(t *testing.T) {
	t.Parallel()
	cause := failure.NewCollaborator("openai", errors.New("bad json"))
	a, _ := critique.New(&fakeReviewer{err: cause})
	draft := blog.NewDraft("Gardens", "Intro.", nil, "End.")

	if _, err := a.Critique(context.Background(), draft, nil, 7); !errors.Is(err, cause) {
		t.Errorf("Critique() = %v, want %v", err, cause)
	}
	if _, err := a.Critique(context.Background(), nil, research, 7); !failure.Is(err, failure.Validation) {
		t.Errorf("Critique(nil draft) = %v, want validation", err)
	}
	if _, err := a.Critique(context.Background(), draft, research, 11); !failure.Is(err, failure.Validation) {
		t.Errorf("Critique(threshold 11) = %v, want validation", err)
	}
	if _, err := critique.New(nil); !failure.Is(err, failure.Validation) {
		t.Errorf("New(nil) = %v, want validation", err)
	}
}
