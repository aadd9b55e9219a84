/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package publish renders finished posts as JSON, Markdown and HTML and
// stores them in a local directory (Dir) or a Cloud Storage bucket (GCS).
package publish
