/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package blog

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
)

// Draft is a blog post in progress. Build drafts with NewDraft so that
// WordCount always reflects the content.
type Draft struct {
	Title        string   `json:"title" jsonschema:"required" jsonschema_description:"Blog post title"`
	Introduction string   `json:"introduction" jsonschema:"required" jsonschema_description:"Opening paragraph"`
	BodySections []string `json:"body_sections" jsonschema:"required" jsonschema_description:"Main content sections"`
	Conclusion   string   `json:"conclusion" jsonschema:"required" jsonschema_description:"Closing paragraph"`
	WordCount    int      `json:"word_count" jsonschema_description:"Approximate word count"`
}

// NewDraft assembles a draft and computes its word count.
func NewDraft(title, introduction string, sections []string, conclusion string) *Draft {
	d := &Draft{
		Title:        title,
		Introduction: introduction,
		BodySections: sections,
		Conclusion:   conclusion,
	}
	d.WordCount = d.countWords()
	return d
}

// CountWords counts whitespace-separated tokens across all of text.
func CountWords(text ...string) int {
	n := 0
	for _, t := range text {
		n += len(strings.Fields(t))
	}
	return n
}

func (d *Draft) countWords() int {
	n := CountWords(d.Title, d.Introduction, d.Conclusion)
	return n + CountWords(d.BodySections...)
}

// Recount returns a copy of d with the word count recomputed.
func (d *Draft) Recount() *Draft {
	out := *d
	out.BodySections = append([]string(nil), d.BodySections...)
	out.WordCount = out.countWords()
	return &out
}

// Text joins every part of the draft, separated by blank lines.
func (d *Draft) Text() string {
	parts := make([]string, 0, len(d.BodySections)+3)
	parts = append(parts, d.Title, d.Introduction)
	parts = append(parts, d.BodySections...)
	parts = append(parts, d.Conclusion)
	return strings.Join(parts, "\n\n")
}

// Markdown renders the draft as a Markdown document.
func (d *Draft) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.Title)
	if d.Introduction != "" {
		fmt.Fprintf(&b, "%s\n\n", d.Introduction)
	}
	for _, section := range d.BodySections {
		fmt.Fprintf(&b, "%s\n\n", section)
	}
	if d.Conclusion != "" {
		fmt.Fprintf(&b, "## Conclusion\n\n%s\n", d.Conclusion)
	}
	return b.String()
}

// HTML renders the Markdown form of the draft to HTML.
func (d *Draft) HTML() (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(d.Markdown()), &buf); err != nil {
		return "", fmt.Errorf("rendering draft %q: %w", d.Title, err)
	}
	return buf.String(), nil
}
