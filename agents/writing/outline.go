/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package writing

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"chainguard.dev/blogcrew/agents/blog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Section titles in outline order.
var sectionTitles = []struct {
	category blog.Category
	title    string
}{
	{blog.CategoryStudy, "What the Research Shows"},
	{blog.CategoryStatistic, "Key Statistics and Data"},
	{blog.CategoryBenefit, "Benefits and Advantages"},
	{blog.CategoryRisk, "Potential Risks and Considerations"},
	{blog.CategoryExpertOpinion, "Expert Perspectives"},
	{blog.CategoryGeneralFact, "Important Facts to Know"},
}

// OutlineSection groups the findings of one category.
type OutlineSection struct {
	Title     string                 `json:"title"`
	Category  blog.Category          `json:"category"`
	Findings  []blog.ResearchFinding `json:"findings"`
	KeyPoints []string               `json:"key_points"`
}

// Quote is an expert opinion suitable for quoting.
type Quote struct {
	Quote     string  `json:"quote"`
	Source    string  `json:"source"`
	Relevance float64 `json:"relevance"`
}

// Outline organizes research findings into a suggested post structure.
type Outline struct {
	TitleSuggestions   []string         `json:"title_suggestions"`
	IntroductionPoints []string         `json:"introduction_points"`
	BodySections       []OutlineSection `json:"body_sections"`
	ConclusionPoints   []string         `json:"conclusion_points"`
	KeyStatistics      []string         `json:"key_statistics"`
	ExpertQuotes       []Quote          `json:"expert_quotes"`
}

// BuildOutline organizes findings for topic.
func BuildOutline(topic string, findings []blog.ResearchFinding) *Outline {
	byRelevance := slices.Clone(findings)
	slices.SortStableFunc(byRelevance, func(a, b blog.ResearchFinding) int {
		return cmp.Compare(b.RelevanceScore, a.RelevanceScore)
	})
	return &Outline{
		TitleSuggestions:   titleSuggestions(topic, findings),
		IntroductionPoints: introductionPoints(findings),
		BodySections:       bodySections(byRelevance),
		ConclusionPoints:   conclusionPoints(byRelevance),
		KeyStatistics:      keyStatistics(byRelevance),
		ExpertQuotes:       expertQuotes(findings),
	}
}

func titleSuggestions(topic string, findings []blog.ResearchFinding) []string {
	t := cases.Title(language.English).String(topic)
	titles := []string{fmt.Sprintf("The Complete Guide to %s", t)}
	if hasCategory(findings, blog.CategoryBenefit) {
		titles = append(titles,
			fmt.Sprintf("How %s Can Transform Your Health", t),
			fmt.Sprintf("The Science-Backed Benefits of %s", t))
	}
	if hasCategory(findings, blog.CategoryStatistic) {
		titles = append(titles,
			fmt.Sprintf("What the Research Really Says About %s", t),
			fmt.Sprintf("The Numbers Don't Lie: %s Facts", t))
	}
	titles = append(titles,
		fmt.Sprintf("Is %s Right for You? A Complete Analysis", t),
		fmt.Sprintf("Everything You Need to Know About %s", t))
	return titles[:min(len(titles), 5)]
}

func introductionPoints(findings []blog.ResearchFinding) []string {
	var high []blog.ResearchFinding
	for _, f := range findings {
		if f.RelevanceScore > 0.7 {
			high = append(high, f)
		}
	}
	if len(high) == 0 {
		return nil
	}
	points := []string{
		"Brief overview of the topic's importance",
		"Key statistics or compelling facts",
		"What readers will learn from the article",
	}
	for _, f := range high[:min(len(high), 3)] {
		if f.Category == blog.CategoryStatistic || f.Category == blog.CategoryStudy {
			points = append(points, "Mention: "+truncate(f.Fact, 100))
		}
	}
	return points
}

func bodySections(sorted []blog.ResearchFinding) []OutlineSection {
	var sections []OutlineSection
	for _, st := range sectionTitles {
		var in []blog.ResearchFinding
		for _, f := range sorted {
			if f.Category == st.category {
				in = append(in, f)
			}
		}
		if len(in) == 0 {
			continue
		}
		top := in[:min(len(in), 5)]
		keys := make([]string, 0, 3)
		for _, f := range top[:min(len(top), 3)] {
			keys = append(keys, f.Fact)
		}
		sections = append(sections, OutlineSection{
			Title:     st.title,
			Category:  st.category,
			Findings:  top,
			KeyPoints: keys,
		})
	}
	return sections
}

func conclusionPoints(sorted []blog.ResearchFinding) []string {
	points := []string{
		"Summarize key takeaways",
		"Reinforce main benefits or findings",
		"Provide actionable next steps for readers",
	}
	for _, f := range sorted[:min(len(sorted), 2)] {
		if f.Category == blog.CategoryBenefit || f.Category == blog.CategoryStudy {
			points = append(points, "Highlight: "+truncate(f.Fact, 80))
		}
	}
	return points
}

func keyStatistics(sorted []blog.ResearchFinding) []string {
	var stats []string
	for _, f := range sorted {
		if f.Category == blog.CategoryStatistic && len(stats) < 5 {
			stats = append(stats, f.Fact)
		}
	}
	return stats
}

func expertQuotes(findings []blog.ResearchFinding) []Quote {
	var quotes []Quote
	for _, f := range findings {
		if f.Category == blog.CategoryExpertOpinion && len(quotes) < 3 {
			quotes = append(quotes, Quote{Quote: f.Fact, Source: f.SourceURL, Relevance: f.RelevanceScore})
		}
	}
	return quotes
}

func hasCategory(findings []blog.ResearchFinding, c blog.Category) bool {
	return slices.ContainsFunc(findings, func(f blog.ResearchFinding) bool { return f.Category == c })
}

// truncate shortens s to n runes followed by an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "..."
}

// ReadabilityScore rates the average sentence length of text: 1 for 15 to
// 20 words per sentence, 0.8 below, decaying to 0.5 above.
func ReadabilityScore(text string) float64 {
	words := len(strings.Fields(text))
	sentences := len(strings.Split(text, "."))
	if words == 0 {
		return 0
	}
	avg := float64(words) / float64(sentences)
	switch {
	case avg >= 15 && avg <= 20:
		return 1
	case avg < 15:
		return 0.8
	default:
		return max(0.5, 1-(avg-20)*0.02)
	}
}
