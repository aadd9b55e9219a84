/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package research implements the research collaborator.
//
// An Agent searches the web (DuckDuckGo by default), extracts sentences
// that mention the topic, categorizes and ranks them, and optionally hands
// the candidates to a model for synthesis. The result is always repaired
// before it is returned so later stages can rely on its invariants.
package research
