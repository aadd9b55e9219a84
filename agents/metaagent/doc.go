/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metaagent builds provider-agnostic structured-output agents.
//
// The model name selects the executor:
//   - Models starting with "gemini-" use googleexecutor
//   - Models starting with "claude-" use claudeexecutor
//   - Models starting with "gpt-", "o1", "o3" or "o4" use openaiexecutor
//
// # Usage
//
//	clients, err := metaagent.NewClients(ctx, metaagent.Claude, metaagent.ClientConfig{
//	    ProjectID: projectID,
//	    Region:    "us-east5",
//	})
//	if err != nil {
//	    return err
//	}
//
//	reviewer, err := metaagent.New[*critique.Request, *blog.Critique](clients, model, metaagent.Config{
//	    SystemInstructions: critique.SystemPrompt,
//	    UserPrompt:         critique.CritiquePrompt,
//	    Agent:              metrics.AgentCritique,
//	})
//	result, err := reviewer.Execute(ctx, request)
//
// The Resp type's JSON tags define the schema the model must answer with.
package metaagent
