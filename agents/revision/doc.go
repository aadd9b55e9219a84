/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package revision holds the pure policy that decides whether a critiqued
// draft goes back to the writer, and the formatting of critique feedback
// into revision instructions.
package revision
