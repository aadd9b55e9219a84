/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package progress

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/chainguard-dev/clog"
	"github.com/charmbracelet/lipgloss"
)

// Sink receives progress events. Implementations must not block the
// workflow for long and must be safe for concurrent use.
type Sink interface {
	Emit(ctx context.Context, e Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(ctx context.Context, e Event)

func (f SinkFunc) Emit(ctx context.Context, e Event) { f(ctx, e) }

// Multi fans events out to every non-nil sink.
func Multi(sinks ...Sink) Sink {
	out := make(multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

type multi []Sink

func (m multi) Emit(ctx context.Context, e Event) {
	for _, s := range m {
		s.Emit(ctx, e)
	}
}

// Log writes each event to the context logger.
func Log() Sink {
	return SinkFunc(func(ctx context.Context, e Event) {
		log := clog.FromContext(ctx).With("run_id", e.RunID, "stage", e.Stage, "progress", e.ProgressPercent)
		if e.Agent != "" {
			log = log.With("agent", e.Agent, "status", e.Status)
		}
		if e.Stage == StageError || e.Status == StatusError {
			log.Warn(e.Message)
			return
		}
		log.Info(e.Message)
	})
}

// Channel forwards events to ch, dropping them once ctx is done.
func Channel(ch chan<- Event) Sink {
	return SinkFunc(func(ctx context.Context, e Event) {
		select {
		case ch <- e:
		case <-ctx.Done():
		}
	})
}

// Recorder keeps every event it receives.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Stages returns the stages of the recorded stage events, in order.
func (r *Recorder) Stages() []Stage {
	var out []Stage
	for _, e := range r.Events() {
		if e.Kind == KindStage {
			out = append(out, e.Stage)
		}
	}
	return out
}

var (
	timeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	stageStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
)

const barWidth = 20

// Console renders a one-line status per event to w.
func Console(w io.Writer) Sink {
	var mu sync.Mutex
	return SinkFunc(func(_ context.Context, e Event) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(w, consoleLine(e))
	})
}

func consoleLine(e Event) string {
	msg := e.Message
	switch {
	case e.Stage == StageError || e.Status == StatusError:
		msg = errStyle.Render(msg)
	case e.Stage == StageCompleted || e.Status == StatusCompleted:
		msg = doneStyle.Render(msg)
	}
	return fmt.Sprintf("%s %s %s %5.1f%% %s",
		timeStyle.Render(e.Time.Format("15:04:05")),
		stageStyle.Render(strings.ToUpper(string(e.Stage))),
		bar(e.ProgressPercent),
		e.ProgressPercent,
		msg,
	)
}

func bar(percent float64) string {
	filled := int(float64(barWidth) * percent / 100)
	filled = max(0, min(filled, barWidth))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled) + "]"
}
