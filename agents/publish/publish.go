/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"unicode"

	"chainguard.dev/blogcrew/agents/blog"
	"chainguard.dev/blogcrew/agents/failure"
)

// Format is an output representation of a finished post.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

// DefaultFormats is every supported format.
var DefaultFormats = []Format{FormatJSON, FormatMarkdown, FormatHTML}

// ParseFormats parses a comma separated list such as "md,html". An empty
// list yields DefaultFormats.
func ParseFormats(s string) ([]Format, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultFormats, nil
	}
	var out []Format
	for _, part := range strings.Split(s, ",") {
		switch f := Format(strings.ToLower(strings.TrimSpace(part))); f {
		case FormatJSON, FormatMarkdown, FormatHTML:
			out = append(out, f)
		case "markdown":
			out = append(out, FormatMarkdown)
		default:
			return nil, failure.Validationf("formats", "unknown format %q", part)
		}
	}
	return out, nil
}

func (f Format) contentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "text/html; charset=utf-8"
	}
}

// Artifact is one rendered file.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

// Publisher stores a finished post and returns where each artifact went.
type Publisher interface {
	Publish(ctx context.Context, res *blog.WorkflowResult) ([]string, error)
}

// Render produces one artifact per format for res.
func Render(res *blog.WorkflowResult, formats ...Format) ([]Artifact, error) {
	if res == nil || res.FinalPost == nil {
		return nil, failure.Validationf("result", "result has no final post")
	}
	if len(formats) == 0 {
		formats = DefaultFormats
	}
	base := BaseName(res)
	out := make([]Artifact, 0, len(formats))
	for _, f := range formats {
		var data []byte
		switch f {
		case FormatJSON:
			b, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("encoding result: %w", err)
			}
			data = append(b, '\n')
		case FormatMarkdown:
			data = []byte(res.FinalPost.Markdown())
		case FormatHTML:
			body, err := res.FinalPost.HTML()
			if err != nil {
				return nil, err
			}
			data = []byte(page(res.FinalPost.Title, body))
		default:
			return nil, failure.Validationf("formats", "unknown format %q", f)
		}
		out = append(out, Artifact{
			Name:        base + "." + string(f),
			ContentType: f.contentType(),
			Data:        data,
		})
	}
	return out, nil
}

func page(title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
<article>
%s</article>
</body>
</html>
`, html.EscapeString(title), body)
}

// maxSlug bounds the title part of artifact names.
const maxSlug = 60

// BaseName names the artifacts of res: a slug of the post title followed
// by the first eight characters of the run ID, if any.
func BaseName(res *blog.WorkflowResult) string {
	name := Slug(res.FinalPost.Title)
	if id := res.RunID; id != "" {
		name += "-" + id[:min(len(id), 8)]
	}
	return name
}

// Slug lowercases title and joins its letters and digits with hyphens.
func Slug(title string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	s := b.String()
	if len(s) > maxSlug {
		s = strings.TrimRight(strings.ToValidUTF8(s[:maxSlug], ""), "-")
	}
	if s == "" {
		return "post"
	}
	return s
}
