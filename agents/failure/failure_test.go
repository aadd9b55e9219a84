/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package failure_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"unicode/utf8"

	"chainguard.dev/blogcrew/agents/failure"
)

func TestKindOf(t *testing.T) {
	t.Parallel()
	base := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want failure.Kind
	}{{
		name: "unclassified",
		err:  base,
		want: failure.Collaborator,
	}, {
		name: "validation",
		err:  failure.Validationf("topic", "topic must not be empty"),
		want: failure.Validation,
	}, {
		name: "retryable wrapped by fmt",
		err:  fmt.Errorf("calling model: %w", failure.NewRetryable("write", base)),
		want: failure.Retryable,
	}, {
		name: "orchestration",
		err:  failure.NewOrchestration("writing_initial", base),
		want: failure.Orchestration,
	}, {
		name: "canceled",
		err:  context.Canceled,
		want: failure.Orchestration,
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := failure.KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewOrchestration_PreservesKinds(t *testing.T) {
	t.Parallel()
	v := failure.Validationf("topic", "empty")
	if got := failure.NewOrchestration("researching", v); got != v {
		t.Errorf("validation error was rewrapped: %v", got)
	}
	r := failure.NewRetryable("research", errors.New("429"))
	if got := failure.NewOrchestration("researching", r); got != r {
		t.Errorf("retryable error was rewrapped: %v", got)
	}
	if failure.NewOrchestration("researching", nil) != nil {
		t.Error("nil error should stay nil")
	}
}

func TestError_Message(t *testing.T) {
	t.Parallel()
	err := &failure.Error{
		Kind:  failure.Orchestration,
		Stage: "critiquing",
		Op:    "critique",
		Err:   errors.New("unexpected"),
	}
	want := "orchestration failure during critiquing (critique): unexpected"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, err.Err) {
		t.Error("Unwrap should expose the cause")
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	if got := failure.Truncate(errors.New("short"), 100); got != "short" {
		t.Errorf("Truncate() = %q", got)
	}
	long := errors.New("0123456789abcdef")
	if got := failure.Truncate(long, 10); got != "0123456789" {
		t.Errorf("Truncate() = %q", got)
	}
	if got := failure.Truncate(nil, 10); got != "" {
		t.Errorf("Truncate(nil) = %q", got)
	}
}

func TestTruncate_RuneBoundary(t *testing.T) {
	t.Parallel()
	err := errors.New("héllo wörld: 日本語のエラー")
	tests := []struct {
		n    int
		want string
	}{
		{n: 1, want: "h"},
		{n: 2, want: "h"},
		{n: 3, want: "hé"},
		{n: 10, want: "héllo wö"},
		{n: 17, want: "héllo wörld: "},
		{n: 18, want: "héllo wörld: 日"},
		{n: 0, want: ""},
	}
	for _, tt := range tests {
		got := failure.Truncate(err, tt.n)
		if got != tt.want || !utf8.ValidString(got) {
			t.Errorf("Truncate(%d) = %q, want %q", tt.n, got, tt.want)
		}
		if len(got) > tt.n {
			t.Errorf("Truncate(%d) returned %d bytes", tt.n, len(got))
		}
	}
}
