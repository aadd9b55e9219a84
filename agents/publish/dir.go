/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"chainguard.dev/blogcrew/agents/blog"
	"chainguard.dev/blogcrew/agents/failure"
	"github.com/chainguard-dev/clog"
)

// Dir writes artifacts into a local directory.
type Dir struct {
	path    string
	formats []Format
}

var _ Publisher = (*Dir)(nil)

// NewDir returns a Publisher writing to path, which is created on demand.
func NewDir(path string, formats ...Format) (*Dir, error) {
	if path == "" {
		return nil, failure.Validationf("path", "output directory cannot be empty")
	}
	return &Dir{path: path, formats: formats}, nil
}

// Publish writes every artifact of res and returns the file paths.
func (d *Dir) Publish(ctx context.Context, res *blog.WorkflowResult) ([]string, error) {
	artifacts, err := Render(res, d.formats...)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", d.path, err)
	}
	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		p := filepath.Join(d.path, a.Name)
		if err := os.WriteFile(p, a.Data, 0o644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	clog.FromContext(ctx).With("dir", d.path, "files", len(paths)).Info("Published blog post")
	return paths, nil
}
