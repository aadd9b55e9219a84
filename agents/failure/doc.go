/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package failure classifies errors crossing the boundary between the
// workflow orchestrator and the agents it drives.
//
// Every collaborator and executor reports failures with an explicit Kind:
//
//   - Validation: the call itself was malformed. Surfaced immediately.
//   - Retryable: rate limits and timeouts. Propagated to an outer retry wrapper.
//   - Collaborator: anything else. Absorbed by substituting a degraded result.
//   - Orchestration: an error that escaped the loop's own control logic.
//
// The orchestrator switches on KindOf(err) rather than matching error text.
//
//	switch failure.KindOf(err) {
//	case failure.Retryable:
//	    return nil, err
//	case failure.Validation:
//	    return nil, failure.NewOrchestration("researching", err)
//	default:
//	    research = blog.MinimalResearch(topic, err)
//	}
package failure
