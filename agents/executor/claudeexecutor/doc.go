/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package claudeexecutor runs single structured calls against Claude.
//
// The response type is reflected into a JSON schema and offered as the
// input of a submit_result tool which Claude is forced to call. The tool
// input is validated against the schema before it is decoded:
//
//	client := anthropic.NewClient(
//	    vertex.WithGoogleAuth(ctx, region, projectID),
//	)
//
//	exec, err := claudeexecutor.New[*draftRequest, *blog.Draft](
//	    client,
//	    draftPrompt,
//	    claudeexecutor.WithAgent[*draftRequest, *blog.Draft](metrics.AgentWriting),
//	    claudeexecutor.WithTimeout[*draftRequest, *blog.Draft](90*time.Second),
//	)
//	if err != nil {
//	    return err
//	}
//	draft, err := exec.Execute(ctx, &draftRequest{Topic: topic})
//
// # Errors
//
// Every error returned by Execute carries a failure.Kind. Status codes 429,
// 408, 503, 504 and 529 and expired per-call timeouts are Retryable and are
// retried with backoff before being returned. Other API errors and
// undecodable responses are Collaborator failures.
//
// # Options
//   - WithModel: Override the default model (defaults to claude-sonnet-4@20250514)
//   - WithMaxTokens: Set maximum response tokens (defaults to 8192, max 32000)
//   - WithTemperature: Set response temperature (defaults to 0.7)
//   - WithSystemInstructions: Provide system-level instructions
//   - WithTimeout: Bound each API call (defaults to 2m)
//   - WithRetryConfig: Tune backoff for retryable failures
package claudeexecutor
