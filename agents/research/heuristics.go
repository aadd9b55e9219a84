/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package research

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"chainguard.dev/blogcrew/agents/blog"
)

const (
	maxFindings      = 20
	minSentenceLen   = 20
	minRelevance     = 0.3
	summaryFindings  = 10
	phraseBoost      = 0.3
	fullCountAt      = 20.0
	fullDiversityAt  = 6.0
	noFindingsFormat = "Limited research data available for %s."
)

// Keyword checks are substring matches, evaluated in this order.
var categoryKeywords = []struct {
	category blog.Category
	words    []string
}{
	{blog.CategoryExpertOpinion, []string{"expert", "professor", "dr.", "researcher"}},
	{blog.CategoryStudy, []string{"study", "research", "survey", "analysis"}},
	{blog.CategoryStatistic, []string{"%", "percent", "statistics", "data", "number"}},
	{blog.CategoryBenefit, []string{"benefit", "advantage", "positive"}},
	{blog.CategoryRisk, []string{"risk", "disadvantage", "negative", "concern"}},
}

// Categorize assigns a finding category from keywords in text.
func Categorize(text string) blog.Category {
	lower := strings.ToLower(text)
	for _, ck := range categoryKeywords {
		for _, w := range ck.words {
			if strings.Contains(lower, w) {
				return ck.category
			}
		}
	}
	return blog.CategoryGeneralFact
}

// Relevance is the share of topic words present in text, plus 0.3 when the
// whole topic phrase appears, capped at 1.
func Relevance(text, topic string) float64 {
	textLower, topicLower := strings.ToLower(text), strings.ToLower(topic)
	topicWords := wordSet(topicLower)
	if len(topicWords) == 0 {
		return 0
	}
	textWords := wordSet(textLower)
	common := 0
	for w := range topicWords {
		if _, ok := textWords[w]; ok {
			common++
		}
	}
	score := float64(common) / float64(len(topicWords))
	if strings.Contains(textLower, topicLower) {
		score += phraseBoost
	}
	return min(score, 1)
}

func wordSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		out[w] = struct{}{}
	}
	return out
}

// ExtractFindings splits search results into sentences and keeps the 20
// most relevant ones.
func ExtractFindings(results []SearchResult, topic string) []blog.ResearchFinding {
	var findings []blog.ResearchFinding
	for _, r := range results {
		if r.Content == "" || r.URL == "" {
			continue
		}
		for _, sentence := range strings.Split(r.Content, ". ") {
			sentence = strings.TrimSpace(sentence)
			if utf8.RuneCountInString(sentence) < minSentenceLen {
				continue
			}
			score := Relevance(sentence, topic)
			if score <= minRelevance {
				continue
			}
			findings = append(findings, blog.ResearchFinding{
				Fact:           sentence,
				SourceURL:      r.URL,
				RelevanceScore: score,
				Category:       Categorize(sentence),
			})
		}
	}
	slices.SortStableFunc(findings, func(a, b blog.ResearchFinding) int {
		return cmp.Compare(b.RelevanceScore, a.RelevanceScore)
	})
	if len(findings) > maxFindings {
		findings = findings[:maxFindings]
	}
	return findings
}

var categoryInsights = []struct {
	category blog.Category
	insight  string
}{
	{blog.CategoryStatistic, "Statistical data shows important trends and measurements."},
	{blog.CategoryStudy, "Multiple studies provide evidence-based insights."},
	{blog.CategoryExpertOpinion, "Expert perspectives offer professional guidance."},
	{blog.CategoryBenefit, "Research highlights significant benefits and advantages."},
	{blog.CategoryRisk, "Important considerations and potential risks are identified."},
}

// Summarize describes which kinds of evidence the top findings contain.
func Summarize(topic string, findings []blog.ResearchFinding) string {
	if len(findings) == 0 {
		return fmt.Sprintf(noFindingsFormat, topic)
	}
	seen := make(map[blog.Category]bool)
	for _, f := range findings[:min(len(findings), summaryFindings)] {
		seen[f.Category] = true
	}
	parts := []string{fmt.Sprintf("Research on %s reveals several key insights:", topic)}
	for _, ci := range categoryInsights {
		if seen[ci.category] {
			parts = append(parts, ci.insight)
		}
	}
	return strings.Join(parts, " ")
}

// Confidence weighs average relevance, finding count and category
// diversity.
func Confidence(findings []blog.ResearchFinding) float64 {
	if len(findings) == 0 {
		return 0
	}
	var total float64
	categories := make(map[blog.Category]struct{})
	for _, f := range findings {
		total += f.RelevanceScore
		categories[f.Category] = struct{}{}
	}
	avg := total / float64(len(findings))
	count := min(float64(len(findings))/fullCountAt, 1)
	diversity := min(float64(len(categories))/fullDiversityAt, 1)
	return min(avg*0.5+count*0.3+diversity*0.2, 1)
}
