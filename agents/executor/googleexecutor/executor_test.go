/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleexecutor_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"chainguard.dev/blogcrew/agents/executor/googleexecutor"
	"chainguard.dev/blogcrew/agents/executor/retry"
	"chainguard.dev/blogcrew/agents/failure"
	"chainguard.dev/blogcrew/agents/promptbuilder"
	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"
)

type simpleRequest struct {
	Question string
}

func (r *simpleRequest) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	return p.BindText("question", r.Question)
}

type simpleResponse struct {
	Answer    string `json:"answer" jsonschema:"required"`
	Reasoning string `json:"reasoning"`
}

var questionPrompt = promptbuilder.MustNewPrompt(`Answer {{question}}.`)

func newExecutor(t *testing.T, handler http.HandlerFunc, opts ...googleexecutor.Option[*simpleRequest, *simpleResponse]) googleexecutor.Interface[*simpleRequest, *simpleResponse] {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
	})
	if err != nil {
		t.Fatalf("genai.NewClient() = %v", err)
	}
	opts = append([]googleexecutor.Option[*simpleRequest, *simpleResponse]{
		googleexecutor.WithRetryConfig[*simpleRequest, *simpleResponse](retry.RetryConfig{
			MaxRetries:  2,
			BaseBackoff: time.Millisecond,
			MaxBackoff:  time.Millisecond,
		}),
	}, opts...)
	exec, err := googleexecutor.New(client, questionPrompt, opts...)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	return exec
}

func generateResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"role":  "model",
				"parts": []map[string]any{{"text": text}},
			},
			"finishReason": "STOP",
		}},
		"usageMetadata": map[string]any{"promptTokenCount": 5, "candidatesTokenCount": 7, "totalTokenCount": 12},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestExecute(t *testing.T) {
	t.Parallel()
	var body map[string]any
	var path string
	exec := newExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		writeJSON(w, http.StatusOK, generateResponse(`{"answer": "42", "reasoning": "counted"}`))
	})

	got, err := exec.Execute(context.Background(), &simpleRequest{Question: "life"})
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	want := &simpleResponse{Answer: "42", Reasoning: "counted"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Execute() (-want +got):\n%s", diff)
	}
	if !strings.HasSuffix(path, "gemini-2.5-flash:generateContent") {
		t.Errorf("path = %q", path)
	}
	config, _ := body["generationConfig"].(map[string]any)
	if config["responseMimeType"] != "application/json" {
		t.Errorf("generationConfig = %v, want JSON MIME type", config)
	}
	if _, ok := config["responseSchema"]; !ok {
		t.Errorf("generationConfig = %v, want responseSchema", config)
	}
}

func TestExecute_InvalidPayloadIsCollaborator(t *testing.T) {
	t.Parallel()
	exec := newExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, generateResponse(`{"reasoning": "forgot"}`))
	})
	_, err := exec.Execute(context.Background(), &simpleRequest{Question: "life"})
	if !failure.Is(err, failure.Collaborator) {
		t.Errorf("Execute() = %v, want collaborator failure", err)
	}
}

func TestExecute_ErrorClassification(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		code     int
		status   string
		want     failure.Kind
		minCalls int32
	}{
		{name: "resource exhausted", code: 429, status: "RESOURCE_EXHAUSTED", want: failure.Retryable, minCalls: 3},
		{name: "unavailable", code: 503, status: "UNAVAILABLE", want: failure.Retryable, minCalls: 3},
		{name: "invalid argument", code: 400, status: "INVALID_ARGUMENT", want: failure.Collaborator, minCalls: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var calls atomic.Int32
			exec := newExecutor(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				writeJSON(w, tt.code, map[string]any{
					"error": map[string]any{"code": tt.code, "message": "nope", "status": tt.status},
				})
			})
			_, err := exec.Execute(context.Background(), &simpleRequest{Question: "life"})
			if got := failure.KindOf(err); got != tt.want {
				t.Errorf("KindOf(%v) = %v, want %v", err, got, tt.want)
			}
			if got := calls.Load(); got < tt.minCalls {
				t.Errorf("calls = %d, want at least %d", got, tt.minCalls)
			}
		})
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	t.Parallel()
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  "test",
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		t.Fatalf("genai.NewClient() = %v", err)
	}
	for name, opt := range map[string]googleexecutor.Option[*simpleRequest, *simpleResponse]{
		"model":       googleexecutor.WithModel[*simpleRequest, *simpleResponse]("claude-sonnet-4"),
		"temperature": googleexecutor.WithTemperature[*simpleRequest, *simpleResponse](3),
		"max tokens":  googleexecutor.WithMaxOutputTokens[*simpleRequest, *simpleResponse](0),
		"thinking":    googleexecutor.WithThinking[*simpleRequest, *simpleResponse](9000),
		"timeout":     googleexecutor.WithTimeout[*simpleRequest, *simpleResponse](-time.Second),
	} {
		if _, err := googleexecutor.New(client, questionPrompt, opt); err == nil {
			t.Errorf("New() with bad %s option succeeded", name)
		}
	}
	if _, err := googleexecutor.New[*simpleRequest, *simpleResponse](nil, questionPrompt); err == nil {
		t.Error("New() with nil client succeeded")
	}
}
