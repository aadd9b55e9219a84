/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudeexecutor_test

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

	"chainguard.dev/blogcrew/agents/executor/claudeexecutor"
	"chainguard.dev/blogcrew/agents/executor/retry"
	"chainguard.dev/blogcrew/agents/failure"
	"chainguard.dev/blogcrew/agents/promptbuilder"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/go-cmp/cmp"
)

type summaryRequest struct {
	Topic string
}

func (r *summaryRequest) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	return p.BindText("topic", r.Topic)
}

type summary struct {
	Headline string   `json:"headline" jsonschema:"required"`
	Points   []string `json:"points" jsonschema:"required"`
}

var summaryPrompt = promptbuilder.MustNewPrompt(`Summarize {{topic}}.`)

func newExecutor(t *testing.T, handler http.HandlerFunc, opts ...claudeexecutor.Option[*summaryRequest, *summary]) claudeexecutor.Interface[*summaryRequest, *summary] {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := anthropic.NewClient(
		option.WithBaseURL(srv.URL),
		option.WithAPIKey("test"),
		option.WithMaxRetries(0),
	)
	opts = append([]claudeexecutor.Option[*summaryRequest, *summary]{
		claudeexecutor.WithRetryConfig[*summaryRequest, *summary](retry.RetryConfig{
			MaxRetries:  2,
			BaseBackoff: time.Millisecond,
			MaxBackoff:  time.Millisecond,
		}),
	}, opts...)
	exec, err := claudeexecutor.New(client, summaryPrompt, opts...)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	return exec
}

func message(content ...map[string]any) map[string]any {
	return map[string]any{
		"id":            "msg_1",
		"type":          "message",
		"role":          "assistant",
		"model":         "claude-sonnet-4@20250514",
		"content":       content,
		"stop_reason":   "tool_use",
		"stop_sequence": nil,
		"usage":         map[string]any{"input_tokens": 12, "output_tokens": 34},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestExecute_SubmitResult(t *testing.T) {
	t.Parallel()
	var body map[string]any
	exec := newExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		writeJSON(w, http.StatusOK, message(map[string]any{
			"type": "tool_use",
			"id":   "toolu_1",
			"name": claudeexecutor.SubmitToolName,
			"input": map[string]any{
				"reasoning": "covers it",
				"result":    map[string]any{"headline": "Tides", "points": []string{"moon", "sun"}},
			},
		}))
	})

	got, err := exec.Execute(context.Background(), &summaryRequest{Topic: "tides"})
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	want := &summary{Headline: "Tides", Points: []string{"moon", "sun"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Execute() (-want +got):\n%s", diff)
	}

	choice, _ := body["tool_choice"].(map[string]any)
	if choice["name"] != claudeexecutor.SubmitToolName {
		t.Errorf("tool_choice = %v, want forced %s", body["tool_choice"], claudeexecutor.SubmitToolName)
	}
	msgs, _ := body["messages"].([]any)
	if len(msgs) != 1 || !strings.Contains(mustJSON(t, msgs[0]), `Summarize \"tides\".`) {
		t.Errorf("messages = %v", msgs)
	}
}

func TestExecute_TextFallback(t *testing.T) {
	t.Parallel()
	exec := newExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, message(map[string]any{
			"type": "text",
			"text": "```json\n{\"headline\": \"Tides\", \"points\": []}\n```",
		}))
	})
	got, err := exec.Execute(context.Background(), &summaryRequest{Topic: "tides"})
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if got.Headline != "Tides" {
		t.Errorf("Headline = %q", got.Headline)
	}
}

func TestExecute_InvalidPayloadIsCollaborator(t *testing.T) {
	t.Parallel()
	exec := newExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, message(map[string]any{
			"type":  "tool_use",
			"id":    "toolu_1",
			"name":  claudeexecutor.SubmitToolName,
			"input": map[string]any{"reasoning": "x", "result": map[string]any{"headline": 7}},
		}))
	})
	_, err := exec.Execute(context.Background(), &summaryRequest{Topic: "tides"})
	if !failure.Is(err, failure.Collaborator) {
		t.Errorf("Execute() = %v, want collaborator failure", err)
	}
}

func TestExecute_ErrorClassification(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		status    int
		want      failure.Kind
		wantCalls int32
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, want: failure.Retryable, wantCalls: 3},
		{name: "overloaded", status: 529, want: failure.Retryable, wantCalls: 3},
		{name: "bad request", status: http.StatusBadRequest, want: failure.Collaborator, wantCalls: 1},
		{name: "server error", status: http.StatusInternalServerError, want: failure.Collaborator, wantCalls: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var calls atomic.Int32
			exec := newExecutor(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				writeJSON(w, tt.status, map[string]any{
					"type":  "error",
					"error": map[string]any{"type": "api_error", "message": "nope"},
				})
			})
			_, err := exec.Execute(context.Background(), &summaryRequest{Topic: "tides"})
			if got := failure.KindOf(err); got != tt.want {
				t.Errorf("KindOf(%v) = %v, want %v", err, got, tt.want)
			}
			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestExecute_TimeoutIsRetryable(t *testing.T) {
	t.Parallel()
	exec := newExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server notices the client disconnect.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}, claudeexecutor.WithTimeout[*summaryRequest, *summary](10*time.Millisecond))

	_, err := exec.Execute(context.Background(), &summaryRequest{Topic: "tides"})
	if !failure.Is(err, failure.Retryable) {
		t.Errorf("Execute() = %v, want retryable", err)
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	t.Parallel()
	client := anthropic.NewClient(option.WithAPIKey("test"))
	for name, opt := range map[string]claudeexecutor.Option[*summaryRequest, *summary]{
		"model":       claudeexecutor.WithModel[*summaryRequest, *summary]("gpt-4o"),
		"temperature": claudeexecutor.WithTemperature[*summaryRequest, *summary](1.5),
		"max tokens":  claudeexecutor.WithMaxTokens[*summaryRequest, *summary](0),
		"timeout":     claudeexecutor.WithTimeout[*summaryRequest, *summary](0),
		"system":      claudeexecutor.WithSystemInstructions[*summaryRequest, *summary](nil),
	} {
		if _, err := claudeexecutor.New(client, summaryPrompt, opt); err == nil {
			t.Errorf("New() with bad %s option succeeded", name)
		}
	}
	if _, err := claudeexecutor.New[*summaryRequest, *summary](client, nil); err == nil {
		t.Error("New() with nil prompt succeeded")
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}
