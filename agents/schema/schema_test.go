/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package schema_test

import (
	"errors"
	"testing"

	"chainguard.dev/blogcrew/agents/blog"
	"chainguard.dev/blogcrew/agents/schema"
	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"
)

func TestReflectType_Critique(t *testing.T) {
	t.Parallel()
	s := schema.ReflectType[*blog.Critique]()

	want := []string{"overall_quality", "feedback_items", "approval_status", "summary_feedback"}
	if diff := cmp.Diff(want, s.Required); diff != "" {
		t.Errorf("Required (-want +got):\n%s", diff)
	}
	items, ok := s.Properties.Get("feedback_items")
	if !ok || items.Items == nil {
		t.Fatal("feedback_items should be an inline array schema")
	}
	sev, ok := items.Items.Properties.Get("severity")
	if !ok {
		t.Fatal("missing severity property")
	}
	if diff := cmp.Diff([]any{"minor", "moderate", "major"}, sev.Enum); diff != "" {
		t.Errorf("severity enum (-want +got):\n%s", diff)
	}
}

func TestToMap(t *testing.T) {
	t.Parallel()
	m, err := schema.ToMap(schema.ReflectType[blog.Draft]())
	if err != nil {
		t.Fatalf("ToMap() = %v", err)
	}
	if m["type"] != "object" {
		t.Errorf("type = %v, want object", m["type"])
	}
	if _, ok := m["$schema"]; ok {
		t.Error("$schema should be stripped")
	}
	props, ok := m["properties"].(map[string]any)
	if !ok {
		t.Fatalf("properties = %T", m["properties"])
	}
	if _, ok := props["body_sections"]; !ok {
		t.Error("missing body_sections")
	}
}

func TestToGenai(t *testing.T) {
	t.Parallel()
	g := schema.ToGenai(schema.ReflectType[blog.ResearchResult]())
	if g.Type != genai.TypeObject {
		t.Fatalf("Type = %v, want object", g.Type)
	}
	conf := g.Properties["confidence_level"]
	if conf == nil || conf.Type != genai.TypeNumber {
		t.Fatalf("confidence_level = %+v", conf)
	}
	if conf.Maximum == nil || *conf.Maximum != 1 {
		t.Errorf("confidence_level maximum = %v, want 1", conf.Maximum)
	}
	findings := g.Properties["findings"]
	if findings == nil || findings.Items == nil || findings.Items.Properties["category"] == nil {
		t.Fatalf("findings = %+v", findings)
	}
	if diff := cmp.Diff([]string{"topic", "findings", "summary", "confidence_level"}, g.PropertyOrdering); diff != "" {
		t.Errorf("PropertyOrdering (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	s := schema.ReflectType[blog.Critique]()
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{{
		name:    "valid",
		payload: `{"overall_quality": 7.5, "feedback_items": [{"section": "intro", "issue": "weak hook", "suggestion": "open with a statistic", "severity": "minor"}], "approval_status": "approved", "summary_feedback": "good"}`,
	}, {
		name:    "quality out of range",
		payload: `{"overall_quality": 12, "feedback_items": [], "approval_status": "approved", "summary_feedback": "good"}`,
		wantErr: true,
	}, {
		name:    "missing field",
		payload: `{"overall_quality": 5, "feedback_items": [], "summary_feedback": "meh"}`,
		wantErr: true,
	}, {
		name:    "bad severity",
		payload: `{"overall_quality": 5, "feedback_items": [{"section": "a", "issue": "b", "suggestion": "c", "severity": "blocker"}], "approval_status": "needs_revision", "summary_feedback": "meh"}`,
		wantErr: true,
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := schema.Validate(s, []byte(tt.payload))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, schema.ErrInvalidPayload) {
				t.Errorf("Validate() = %v, want ErrInvalidPayload", err)
			}
		})
	}
}
