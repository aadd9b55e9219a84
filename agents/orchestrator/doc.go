/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package orchestrator coordinates the research, writing and critique
// agents into a single blog generation workflow.
//
// A run researches the topic, writes an initial draft and then alternates
// critique and revision until revision.Decide says to stop:
//
//	orch, err := orchestrator.New(researchAgent, writingAgent, critiqueAgent,
//	    orchestrator.WithMaxIterations(3),
//	    orchestrator.WithQualityThreshold(7.5),
//	    orchestrator.WithProgress(progress.Log()),
//	)
//	if err != nil {
//	    return err
//	}
//	res, err := orch.GenerateWithRetry(ctx, "urban beekeeping")
//
// # Failure handling
//
// Each agent call is classified with failure.KindOf:
//   - Collaborator: the stage is replaced by a degraded result and the run continues
//   - Retryable: the run stops and the error is returned for GenerateWithRetry
//   - Validation: the run stops with an Orchestration failure naming the stage
//
// An agent that returns a nil result without an error is treated as a
// Collaborator failure. Other results are normalized with the blog.Repair
// functions before the next stage sees them.
//
// Cancelling ctx stops the run at the next agent call. The partial result,
// if a draft exists, is returned with Interrupted set. Progress events for
// the interruption are sent on the cancelled ctx, so a progress.Channel
// whose reader has gone away drops them.
package orchestrator
