/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"google.golang.org/genai"
)

// ToMap converts s to the generic map form accepted by the Anthropic and
// OpenAI SDKs.
func ToMap(s *jsonschema.Schema) (map[string]any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshaling schema: %w", err)
	}
	// Draft and ID markers are rejected by some providers.
	delete(out, "$schema")
	delete(out, "$id")
	return out, nil
}

// ToGenai converts s to the schema form used by Gemini structured output.
func ToGenai(s *jsonschema.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Description: s.Description,
		Title:       s.Title,
		Format:      s.Format,
		Type:        genaiType(s.Type),
		Pattern:     s.Pattern,
	}
	for _, v := range s.Enum {
		out.Enum = append(out.Enum, fmt.Sprint(v))
	}
	out.Required = append(out.Required, s.Required...)
	if n, ok := number(s.Minimum); ok {
		out.Minimum = &n
	}
	if n, ok := number(s.Maximum); ok {
		out.Maximum = &n
	}
	if s.MinItems != nil {
		v := int64(*s.MinItems)
		out.MinItems = &v
	}
	if s.MaxItems != nil {
		v := int64(*s.MaxItems)
		out.MaxItems = &v
	}
	if s.Properties != nil {
		out.Properties = make(map[string]*genai.Schema, s.Properties.Len())
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			out.Properties[pair.Key] = ToGenai(pair.Value)
			out.PropertyOrdering = append(out.PropertyOrdering, pair.Key)
		}
	}
	if s.Items != nil {
		out.Items = ToGenai(s.Items)
	}
	return out
}

func number(n json.Number) (float64, bool) {
	if n == "" {
		return 0, false
	}
	f, err := n.Float64()
	return f, err == nil
}

func genaiType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}
