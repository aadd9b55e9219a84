/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package critique

import (
	"math"
	"regexp"
	"slices"
	"strings"

	"chainguard.dev/blogcrew/agents/blog"
)

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?%?`)

// TitleAnalysis rates the clarity of a title.
type TitleAnalysis struct {
	Length int      `json:"length"`
	Score  float64  `json:"clarity_score"`
	Issues []string `json:"issues,omitempty"`
}

// PartAnalysis rates an introduction or conclusion.
type PartAnalysis struct {
	WordCount  int      `json:"word_count"`
	Score      float64  `json:"effectiveness_score"`
	Strengths  []string `json:"strengths,omitempty"`
	Weaknesses []string `json:"weaknesses,omitempty"`
}

// BodyAnalysis rates the organization of the body sections.
type BodyAnalysis struct {
	SectionCount      int      `json:"section_count"`
	OrganizationScore float64  `json:"organization_score"`
	BalanceScore      float64  `json:"balance_score"`
	Issues            []string `json:"issues,omitempty"`
}

// EvidenceAnalysis compares the draft with the research it was built on.
type EvidenceAnalysis struct {
	TotalFindings     int      `json:"total_findings"`
	UtilizedFindings  int      `json:"utilized_findings"`
	UtilizationScore  float64  `json:"utilization_score"`
	NumbersInContent  int      `json:"numbers_in_content"`
	NumbersInResearch int      `json:"numbers_in_research"`
	VerificationScore float64  `json:"verification_score"`
	UnsupportedClaims []string `json:"unsupported_claims,omitempty"`
}

// Analysis is a heuristic pre-pass over a draft that grounds the model's
// critique.
type Analysis struct {
	Title        TitleAnalysis    `json:"title"`
	Introduction PartAnalysis     `json:"introduction"`
	Body         BodyAnalysis     `json:"body"`
	Conclusion   PartAnalysis     `json:"conclusion"`
	Evidence     EvidenceAnalysis `json:"evidence"`
}

// Analyze runs every heuristic check over draft.
func Analyze(draft *blog.Draft, research *blog.ResearchResult) *Analysis {
	var findings []blog.ResearchFinding
	if research != nil {
		findings = research.Findings
	}
	content := draft.Text()
	return &Analysis{
		Title:        analyzeTitle(draft.Title),
		Introduction: analyzeIntroduction(draft.Introduction),
		Body:         analyzeBody(draft.BodySections),
		Conclusion:   analyzeConclusion(draft.Conclusion),
		Evidence:     analyzeEvidence(content, findings),
	}
}

func containsAny(s string, subs ...string) bool {
	return slices.ContainsFunc(subs, func(sub string) bool { return strings.Contains(s, sub) })
}

func analyzeTitle(title string) TitleAnalysis {
	a := TitleAnalysis{Length: len([]rune(title))}
	switch {
	case a.Length > 70:
		a.Issues = append(a.Issues, "Title may be too long for optimal SEO")
	case a.Length < 30:
		a.Issues = append(a.Issues, "Title may be too short to be descriptive")
	}
	lower := strings.ToLower(title)
	if containsAny(lower, "guide", "how", "what", "why", "benefits") {
		a.Score += 0.3
	}
	if containsAny(lower, "complete", "ultimate", "essential", "proven") {
		a.Score += 0.2
	}
	a.Score = min(a.Score+0.5, 1)
	return a
}

func analyzeIntroduction(intro string) PartAnalysis {
	a := PartAnalysis{WordCount: len(strings.Fields(intro))}
	switch {
	case a.WordCount >= 100 && a.WordCount <= 150:
		a.Score += 0.3
		a.Strengths = append(a.Strengths, "Appropriate length")
	case a.WordCount < 100:
		a.Weaknesses = append(a.Weaknesses, "Introduction may be too brief")
	default:
		a.Weaknesses = append(a.Weaknesses, "Introduction may be too lengthy")
	}
	lower := strings.ToLower(intro)
	if containsAny(lower, "imagine", "what if", "did you know", "surprising", "shocking") {
		a.Score += 0.2
		a.Strengths = append(a.Strengths, "Contains engaging hook")
	}
	if containsAny(lower, "will explore", "will discuss", "will cover", "this article") {
		a.Score += 0.2
		a.Strengths = append(a.Strengths, "Previews article content")
	}
	a.Score = min(a.Score+0.3, 1)
	return a
}

func analyzeConclusion(conclusion string) PartAnalysis {
	a := PartAnalysis{WordCount: len(strings.Fields(conclusion))}
	switch {
	case a.WordCount >= 80 && a.WordCount <= 120:
		a.Score += 0.3
		a.Strengths = append(a.Strengths, "Appropriate length")
	case a.WordCount < 80:
		a.Weaknesses = append(a.Weaknesses, "Conclusion may be too brief")
	default:
		a.Weaknesses = append(a.Weaknesses, "Conclusion may be too lengthy")
	}
	lower := strings.ToLower(conclusion)
	if containsAny(lower, "in summary", "to conclude", "overall", "in conclusion") {
		a.Score += 0.2
		a.Strengths = append(a.Strengths, "Contains clear summary")
	}
	if containsAny(lower, "try", "start", "consider", "take action", "next step") {
		a.Score += 0.2
		a.Strengths = append(a.Strengths, "Includes call to action")
	}
	a.Score = min(a.Score+0.3, 1)
	return a
}

func analyzeBody(sections []string) BodyAnalysis {
	a := BodyAnalysis{SectionCount: len(sections)}
	if len(sections) == 0 {
		a.Issues = append(a.Issues, "No body sections found")
		return a
	}
	switch {
	case len(sections) >= 3 && len(sections) <= 5:
		a.OrganizationScore += 0.4
	case len(sections) < 3:
		a.Issues = append(a.Issues, "Too few body sections for comprehensive coverage")
	default:
		a.Issues = append(a.Issues, "Too many body sections may overwhelm readers")
	}

	counts := make([]float64, len(sections))
	var total float64
	for i, s := range sections {
		counts[i] = float64(len(strings.Fields(s)))
		total += counts[i]
	}
	avg := total / float64(len(counts))
	balanced := 0
	for _, c := range counts {
		if math.Abs(c-avg) <= avg*0.5 {
			balanced++
		}
	}
	a.BalanceScore = float64(balanced) / float64(len(sections))
	if a.BalanceScore < 0.7 {
		a.Issues = append(a.Issues, "Sections are unevenly balanced")
	}
	a.OrganizationScore = min(a.OrganizationScore+a.BalanceScore*0.6, 1)
	return a
}

var claimIndicators = []string{
	"studies show", "research indicates", "according to", "data suggests",
	"experts believe", "evidence shows", "statistics reveal",
}

func analyzeEvidence(content string, findings []blog.ResearchFinding) EvidenceAnalysis {
	lower := strings.ToLower(content)
	a := EvidenceAnalysis{TotalFindings: len(findings), UtilizationScore: 1}

	for _, f := range findings {
		var keys []string
		for _, w := range strings.Fields(strings.ToLower(f.Fact)) {
			if len(w) > 4 && len(keys) < 3 {
				keys = append(keys, w)
			}
		}
		if containsAny(lower, keys...) {
			a.UtilizedFindings++
		}
	}
	if len(findings) > 0 {
		a.UtilizationScore = float64(a.UtilizedFindings) / float64(len(findings))
	}

	a.NumbersInContent = len(numberPattern.FindAllString(content, -1))
	for _, f := range findings {
		if f.Category == blog.CategoryStatistic {
			a.NumbersInResearch += len(numberPattern.FindAllString(f.Fact, -1))
		}
	}
	a.VerificationScore = 1
	if a.NumbersInContent > 0 {
		a.VerificationScore = min(float64(a.NumbersInResearch)/float64(a.NumbersInContent), 1)
	}

	for _, sentence := range strings.Split(content, ".") {
		sl := strings.ToLower(sentence)
		if !containsAny(sl, claimIndicators...) {
			continue
		}
		supported := slices.ContainsFunc(findings, func(f blog.ResearchFinding) bool {
			words := strings.Fields(strings.ToLower(f.Fact))
			return containsAny(sl, words[:min(len(words), 3)]...)
		})
		if !supported && len(a.UnsupportedClaims) < 5 {
			a.UnsupportedClaims = append(a.UnsupportedClaims, strings.TrimSpace(sentence))
		}
	}
	return a
}
