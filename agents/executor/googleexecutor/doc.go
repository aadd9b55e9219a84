/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package googleexecutor runs single structured calls against Gemini,
// either through the Gemini API or Vertex AI.
//
// The Response type is reflected into a schema and sent as the
// response_schema with an application/json MIME type:
//
//	client, err := genai.NewClient(ctx, &genai.ClientConfig{
//	    Project:  projectID,
//	    Location: region,
//	    Backend:  genai.BackendVertexAI,
//	})
//	if err != nil {
//	    return err
//	}
//
//	exec, err := googleexecutor.New[*critiqueRequest, *blog.Critique](
//	    client,
//	    critiquePrompt,
//	    googleexecutor.WithAgent[*critiqueRequest, *blog.Critique](metrics.AgentCritique),
//	    googleexecutor.WithTemperature[*critiqueRequest, *blog.Critique](0.3),
//	)
//
// # Errors
//
// API errors are classified by their HTTP code: 429, 408, 503, 504 and 529
// are Retryable and are retried with backoff. Everything else, including
// responses that fail schema validation, is a Collaborator failure.
//
// # Options
//   - WithModel: gemini-* model (defaults to gemini-2.5-flash)
//   - WithTemperature: 0.0 to 2.0 (defaults to 0.7)
//   - WithMaxOutputTokens: defaults to 8192
//   - WithThinking: thinking budget, -1 for dynamic
//   - WithResourceLabels: Vertex AI request labels
//   - WithTimeout, WithRetryConfig, WithAgent, WithAttributeEnricher
package googleexecutor
