/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package writing implements the writing collaborator. Drafts are produced
// by a model from the research and an outline built from the findings, and
// are always repaired before they are returned.
package writing
