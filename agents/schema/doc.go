/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package schema derives JSON schemas for structured model output from Go
// types, converts them to each provider's representation, and validates
// model payloads against them.
package schema
