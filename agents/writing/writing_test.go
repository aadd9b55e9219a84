/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package writing_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"chainguard.dev/blogcrew/agents/blog"
	"chainguard.dev/blogcrew/agents/failure"
	"chainguard.dev/blogcrew/agents/writing"
	"github.com/google/go-cmp/cmp"
)

var findings = []blog.ResearchFinding{
	{Fact: "Sleep improves memory consolidation", SourceURL: "https://a", RelevanceScore: 0.9, Category: blog.CategoryBenefit},
	{Fact: "A study found 7 hours is optimal", SourceURL: "https://b", RelevanceScore: 0.95, Category: blog.CategoryStudy},
	{Fact: "One third of adults sleep too little", SourceURL: "https://c", RelevanceScore: 0.5, Category: blog.CategoryStatistic},
	{Fact: "Researchers warn about blue light", SourceURL: "https://d", RelevanceScore: 0.4, Category: blog.CategoryExpertOpinion},
}

func TestBuildOutline(t *testing.T) {
	t.Parallel()
	o := writing.BuildOutline("better sleep", findings)

	wantTitles := []string{
		"The Complete Guide to Better Sleep",
		"How Better Sleep Can Transform Your Health",
		"The Science-Backed Benefits of Better Sleep",
		"What the Research Really Says About Better Sleep",
		"The Numbers Don't Lie: Better Sleep Facts",
	}
	if diff := cmp.Diff(wantTitles, o.TitleSuggestions); diff != "" {
		t.Errorf("TitleSuggestions (-want +got):\n%s", diff)
	}

	var sections []string
	for _, s := range o.BodySections {
		sections = append(sections, s.Title)
	}
	wantSections := []string{"What the Research Shows", "Key Statistics and Data", "Benefits and Advantages", "Expert Perspectives"}
	if diff := cmp.Diff(wantSections, sections); diff != "" {
		t.Errorf("BodySections (-want +got):\n%s", diff)
	}

	wantIntro := []string{
		"Brief overview of the topic's importance",
		"Key statistics or compelling facts",
		"What readers will learn from the article",
		"Mention: A study found 7 hours is optimal",
	}
	if diff := cmp.Diff(wantIntro, o.IntroductionPoints); diff != "" {
		t.Errorf("IntroductionPoints (-want +got):\n%s", diff)
	}
	wantConclusion := []string{
		"Summarize key takeaways",
		"Reinforce main benefits or findings",
		"Provide actionable next steps for readers",
		"Highlight: A study found 7 hours is optimal",
		"Highlight: Sleep improves memory consolidation",
	}
	if diff := cmp.Diff(wantConclusion, o.ConclusionPoints); diff != "" {
		t.Errorf("ConclusionPoints (-want +got):\n%s", diff)
	}
	if len(o.KeyStatistics) != 1 || len(o.ExpertQuotes) != 1 || o.ExpertQuotes[0].Source != "https://d" {
		t.Errorf("KeyStatistics = %v, ExpertQuotes = %v", o.KeyStatistics, o.ExpertQuotes)
	}
}

func TestBuildOutline_Empty(t *testing.T) {
	t.Parallel()
	o := writing.BuildOutline("tides", nil)
	want := []string{
		"The Complete Guide to Tides",
		"Is Tides Right for You? A Complete Analysis",
		"Everything You Need to Know About Tides",
	}
	if diff := cmp.Diff(want, o.TitleSuggestions); diff != "" {
		t.Errorf("TitleSuggestions (-want +got):\n%s", diff)
	}
	if o.BodySections != nil || o.IntroductionPoints != nil {
		t.Errorf("BuildOutline(nil) = %+v", o)
	}
}

func TestReadabilityScore(t *testing.T) {
	t.Parallel()
	tests := []struct {
		text string
		want float64
	}{
		{"", 0},
		{"Short sentence. Another one.", 0.8},
		{strings.Repeat("word ", 33) + "end.", 1},
		{strings.Repeat("word ", 59) + "end.", 0.8},
		{strings.Repeat("word ", 139) + "end.", 0.5},
	}
	for _, tt := range tests {
		if got := writing.ReadabilityScore(tt.text); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ReadabilityScore(%d words) = %v, want %v", len(strings.Fields(tt.text)), got, tt.want)
		}
	}
}

type fakeDrafter struct {
	out *blog.Draft
	err error
	got *writing.DraftRequest
}

func (f *fakeDrafter) Execute(_ context.Context, req *writing.DraftRequest) (*blog.Draft, error) {
	f.got = req
	return f.out, f.err
}

type fakeReviser struct {
	out *blog.Draft
	err error
	got *writing.RevisionRequest
}

func (f *fakeReviser) Execute(_ context.Context, req *writing.RevisionRequest) (*blog.Draft, error) {
	f.got = req
	return f.out, f.err
}

func TestAgent_Write(t *testing.T) {
	t.Parallel()
	drafter := &fakeDrafter{out: &blog.Draft{
		Title:        "  Sleep Well ",
		Introduction: "Sleep matters.",
		BodySections: []string{"## Why\nIt restores you.", "   "},
		WordCount:    999,
	}}
	a, err := writing.New(drafter, &fakeReviser{})
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	research := &blog.ResearchResult{Topic: "sleep", Findings: findings, Summary: "Sleep research.", ConfidenceLevel: 0.8}

	got, err := a.Write(context.Background(), research, "sleep")
	if err != nil {
		t.Fatalf("Write() = %v", err)
	}
	want := blog.NewDraft("Sleep Well", "Sleep matters.", []string{"## Why\nIt restores you."},
		"In conclusion, sleep is an important topic that requires further exploration.")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Write() (-want +got):\n%s", diff)
	}
	if drafter.got.Outline == nil || len(drafter.got.Outline.BodySections) == 0 {
		t.Errorf("draft request outline = %+v", drafter.got.Outline)
	}

	prompt, err := drafter.got.Bind(writing.DraftPrompt)
	if err != nil {
		t.Fatalf("Bind() = %v", err)
	}
	text, err := prompt.Build()
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	for _, want := range []string{`"sleep"`, "4 findings", "0.8", "What the Research Shows"} {
		if !strings.Contains(text, want) {
			t.Errorf("prompt missing %q:\n%s", want, text)
		}
	}
}

func TestAgent_WriteErrors(t *testing.T) {
	t.Parallel()
	cause := failure.NewRetryable("claude", errors.New("429"))
	a, _ := writing.New(&fakeDrafter{err: cause}, &fakeReviser{})
	if _, err := a.Write(context.Background(), nil, "sleep"); !errors.Is(err, cause) {
		t.Errorf("Write() = %v, want %v", err, cause)
	}
	if _, err := a.Write(context.Background(), nil, ""); !failure.Is(err, failure.Validation) {
		t.Errorf("Write(empty) = %v, want validation", err)
	}
}

func TestAgent_Revise(t *testing.T) {
	t.Parallel()
	reviser := &fakeReviser{out: &blog.Draft{
		Title:        "Sleep Better",
		Introduction: "Sleep matters more than ever.",
		BodySections: []string{"Body."},
		Conclusion:   "Go to bed.",
	}}
	a, _ := writing.New(&fakeDrafter{}, reviser)
	prev := blog.NewDraft("Sleep", "Intro.", []string{"Body."}, "End.")
	research := &blog.ResearchResult{Topic: "sleep", Findings: findings}

	got, err := a.Revise(context.Background(), prev, "Add data.", research)
	if err != nil {
		t.Fatalf("Revise() = %v", err)
	}
	if got.WordCount != 11 {
		t.Errorf("WordCount = %d, want 11", got.WordCount)
	}
	if reviser.got.Topic != "sleep" || reviser.got.Feedback != "Add data." || reviser.got.Draft != prev {
		t.Errorf("revision request = %+v", reviser.got)
	}

	prompt, err := reviser.got.Bind(writing.RevisionPrompt)
	if err != nil {
		t.Fatalf("Bind() = %v", err)
	}
	if _, err := prompt.Build(); err != nil {
		t.Errorf("Build() = %v", err)
	}

	if _, err := a.Revise(context.Background(), nil, "x", research); !failure.Is(err, failure.Validation) {
		t.Errorf("Revise(nil) = %v, want validation", err)
	}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()
	if _, err := writing.New(nil, &fakeReviser{}); !failure.Is(err, failure.Validation) {
		t.Errorf("New(nil, _) = %v", err)
	}
	if _, err := writing.New(&fakeDrafter{}, nil); !failure.Is(err, failure.Validation) {
		t.Errorf("New(_, nil) = %v", err)
	}
}
