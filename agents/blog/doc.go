/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package blog defines the records exchanged between the research,
// writing and critique agents and the orchestrator that drives them.
//
// Values produced by a model pass through a Repair function before they
// enter the workflow, and the Minimal constructors provide the degraded
// stand-ins used when a stage fails:
//
//	draft, err := writer.Write(ctx, research, topic)
//	if err != nil {
//	    draft = blog.MinimalDraft(topic, err)
//	}
//
// Drafts built with NewDraft always carry a word count computed from their
// content.
package blog
