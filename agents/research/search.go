/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package research

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chainguard.dev/blogcrew/agents/executor/retry"
	"chainguard.dev/blogcrew/agents/failure"
	"github.com/PuerkitoBio/goquery"
)

const searchOp = "search"

// SearchResult is one hit returned by a Searcher.
type SearchResult struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

// Searcher finds web content for a query. Errors carry a failure.Kind.
type Searcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// DuckDuckGo queries the DuckDuckGo instant answer API.
type DuckDuckGo struct {
	client     *http.Client
	baseURL    string
	maxResults int
	userAgent  string
}

// DuckDuckGoOption configures a DuckDuckGo searcher.
type DuckDuckGoOption func(*DuckDuckGo)

// WithHTTPClient replaces the default client (15s timeout).
func WithHTTPClient(c *http.Client) DuckDuckGoOption {
	return func(d *DuckDuckGo) { d.client = c }
}

// WithBaseURL points the searcher at a different endpoint.
func WithBaseURL(u string) DuckDuckGoOption {
	return func(d *DuckDuckGo) { d.baseURL = strings.TrimRight(u, "/") }
}

// WithMaxResults caps the number of results returned (default 10).
func WithMaxResults(n int) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		if n > 0 {
			d.maxResults = n
		}
	}
}

// NewDuckDuckGo returns a Searcher backed by api.duckduckgo.com.
func NewDuckDuckGo(opts ...DuckDuckGoOption) *DuckDuckGo {
	d := &DuckDuckGo{
		client:     &http.Client{Timeout: 15 * time.Second},
		baseURL:    "https://api.duckduckgo.com",
		maxResults: 10,
		userAgent:  "blogcrew/1.0",
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type ddgTopic struct {
	Text     string     `json:"Text"`
	FirstURL string     `json:"FirstURL"`
	Result   string     `json:"Result"`
	Name     string     `json:"Name"`
	Topics   []ddgTopic `json:"Topics"`
}

type ddgResponse struct {
	Heading       string     `json:"Heading"`
	AbstractText  string     `json:"AbstractText"`
	AbstractURL   string     `json:"AbstractURL"`
	RelatedTopics []ddgTopic `json:"RelatedTopics"`
}

// Search implements Searcher. HTTP 429 and expired request timeouts are
// Retryable; every other failure is a Collaborator failure.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]SearchResult, error) {
	u := fmt.Sprintf("%s/?q=%s&format=json&no_html=0&skip_disambig=1", d.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, failure.NewCollaborator(searchOp, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		if c, ok := retry.ClassifyContext(ctx, searchOp, err); ok {
			return nil, c
		}
		var ue *url.Error
		if errors.As(err, &ue) && ue.Timeout() {
			return nil, failure.NewRetryable(searchOp, err)
		}
		return nil, failure.NewCollaborator(searchOp, fmt.Errorf("failed to execute request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, retry.ClassifyStatus(searchOp, resp.StatusCode, fmt.Errorf("search returned HTTP %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, failure.NewCollaborator(searchOp, fmt.Errorf("failed to read response body: %w", err))
	}
	var ddg ddgResponse
	if err := json.Unmarshal(body, &ddg); err != nil {
		return nil, failure.NewCollaborator(searchOp, fmt.Errorf("failed to parse DuckDuckGo response: %w", err))
	}

	var results []SearchResult
	if text := plainText(ddg.AbstractText); text != "" && ddg.AbstractURL != "" {
		title := ddg.Heading
		if title == "" {
			title = "Abstract"
		}
		results = append(results, SearchResult{Title: title, Content: text, URL: ddg.AbstractURL})
	}
	for _, t := range flatten(ddg.RelatedTopics) {
		if len(results) >= d.maxResults {
			break
		}
		text := plainText(t.Text)
		if text == "" || t.FirstURL == "" {
			continue
		}
		title := anchorText(t.Result)
		if title == "" {
			title, _, _ = strings.Cut(text, " - ")
		}
		results = append(results, SearchResult{Title: title, Content: text, URL: t.FirstURL})
	}
	return results, nil
}

// flatten expands grouped related topics into a single list.
func flatten(topics []ddgTopic) []ddgTopic {
	out := make([]ddgTopic, 0, len(topics))
	for _, t := range topics {
		if len(t.Topics) > 0 {
			out = append(out, flatten(t.Topics)...)
			continue
		}
		out = append(out, t)
	}
	return out
}

// plainText strips markup from an HTML fragment and collapses whitespace.
func plainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// anchorText returns the text of the first link in an HTML fragment.
func anchorText(fragment string) string {
	if fragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("a").First().Text())
}
