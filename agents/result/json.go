/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/blogcrew/agents/schema"
	"github.com/invopop/jsonschema"
)

// ErrNoJSON is returned when a response contains no JSON object.
var ErrNoJSON = errors.New("no JSON found in model response")

// ExtractJSON returns the JSON object embedded in a model response. It
// prefers the first ```json fenced block, then a bare ``` fence, then the
// outermost {...} span of the text.
func ExtractJSON(text string) string {
	if body, ok := fenced(text, "```json"); ok {
		return body
	}
	if body, ok := fenced(text, "```"); ok {
		return body
	}
	text = strings.TrimSpace(text)
	start, end := strings.Index(text, "{"), strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

// fenced returns the body of the first block opened by a line equal to
// marker. An unterminated block runs to the end of text.
func fenced(text, marker string) (string, bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != marker {
			continue
		}
		var body []string
		for _, l := range lines[i+1:] {
			if strings.TrimSpace(l) == "```" {
				break
			}
			body = append(body, l)
		}
		return strings.TrimSpace(strings.Join(body, "\n")), true
	}
	return "", false
}

// Extract pulls JSON out of text and unmarshals it into T.
func Extract[T any](text string) (T, error) {
	var out T
	raw := ExtractJSON(text)
	if raw == "" {
		return out, ErrNoJSON
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, fmt.Errorf("decoding model response: %w", err)
	}
	return out, nil
}

// Decode is Extract preceded by validation of the payload against s.
func Decode[T any](text string, s *jsonschema.Schema) (T, error) {
	var out T
	raw := ExtractJSON(text)
	if raw == "" {
		return out, ErrNoJSON
	}
	if err := schema.Validate(s, []byte(raw)); err != nil {
		return out, err
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, fmt.Errorf("decoding model response: %w", err)
	}
	return out, nil
}
