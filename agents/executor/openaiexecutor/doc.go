/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package openaiexecutor runs single structured calls against the OpenAI
// chat completions API, requesting a json_schema response format derived
// from the Response type. It mirrors claudeexecutor and googleexecutor so
// the agents can be backed by any of the three providers.
package openaiexecutor
