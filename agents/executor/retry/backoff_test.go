/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package retry

import (
	"testing"
	"time"
)

func TestBackoff(t *testing.T) {
	t.Parallel()
	cfg := RetryConfig{
		MaxRetries:  200,
		BaseBackoff: time.Second,
		MaxBackoff:  30 * time.Second,
	}
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 0, want: time.Second},
		{attempt: 3, want: 8 * time.Second},
		{attempt: 5, want: 30 * time.Second},
		{attempt: 34, want: 30 * time.Second},
		{attempt: 62, want: 30 * time.Second},
		{attempt: 63, want: 30 * time.Second},
		{attempt: 150, want: 30 * time.Second},
	}
	for _, tt := range tests {
		if got := backoff(cfg, tt.attempt); got != tt.want {
			t.Errorf("backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestBackoff_NeverNegative(t *testing.T) {
	t.Parallel()
	cfg := RetryConfig{
		BaseBackoff: 3 * time.Second,
		MaxBackoff:  time.Minute,
		MaxJitter:   10 * time.Millisecond,
	}
	for attempt := range 100 {
		if got := backoff(cfg, attempt); got < 0 || got > cfg.MaxBackoff+cfg.MaxJitter {
			t.Fatalf("backoff(%d) = %v, want within [0, %v]", attempt, got, cfg.MaxBackoff+cfg.MaxJitter)
		}
	}
}
