/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package critique implements the critique collaborator.
//
// Before the model is consulted, Analyze runs editorial heuristics over the
// draft (title clarity, introduction and conclusion effectiveness, section
// balance, use of research, unsupported claims). Their results are part of
// the prompt. The model's critique is repaired before it is returned.
package critique
