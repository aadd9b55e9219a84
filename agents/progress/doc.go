/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package progress reports workflow progress to a one-way Sink.
//
// A Tracker is created per run and translates stage transitions and agent
// status changes into Events carrying an overall progress percentage.
// Sinks render or forward those events: Console writes styled status
// lines, Log writes to the context logger, Channel forwards to a channel
// and Recorder keeps them for inspection. Sink failures never affect the
// workflow.
package progress
