/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package publish

import (
	"context"
	"fmt"
	"path"

	"chainguard.dev/blogcrew/agents/blog"
	"chainguard.dev/blogcrew/agents/failure"
	"cloud.google.com/go/storage"
	"github.com/chainguard-dev/clog"
)

// GCS uploads artifacts to a Cloud Storage bucket.
type GCS struct {
	client  *storage.Client
	bucket  string
	prefix  string
	formats []Format
}

var _ Publisher = (*GCS)(nil)

// NewGCS returns a Publisher writing objects named prefix/<artifact> into
// bucket.
func NewGCS(client *storage.Client, bucket, prefix string, formats ...Format) (*GCS, error) {
	if client == nil {
		return nil, failure.Validationf("client", "storage client cannot be nil")
	}
	if bucket == "" {
		return nil, failure.Validationf("bucket", "bucket cannot be empty")
	}
	return &GCS{client: client, bucket: bucket, prefix: prefix, formats: formats}, nil
}

// Publish uploads every artifact of res and returns gs:// URLs.
func (g *GCS) Publish(ctx context.Context, res *blog.WorkflowResult) ([]string, error) {
	artifacts, err := Render(res, g.formats...)
	if err != nil {
		return nil, err
	}
	bkt := g.client.Bucket(g.bucket)
	urls := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		name := path.Join(g.prefix, a.Name)
		w := bkt.Object(name).NewWriter(ctx)
		w.ContentType = a.ContentType
		w.Metadata = map[string]string{
			"run_id":        res.RunID,
			"quality_score": fmt.Sprintf("%.1f", res.QualityScore),
		}
		if _, err := w.Write(a.Data); err != nil {
			_ = w.Close()
			return urls, fmt.Errorf("uploading %s: %w", name, err)
		}
		if err := w.Close(); err != nil {
			return urls, fmt.Errorf("finalizing %s: %w", name, err)
		}
		urls = append(urls, fmt.Sprintf("gs://%s/%s", g.bucket, name))
	}
	clog.FromContext(ctx).With("bucket", g.bucket, "objects", len(urls)).Info("Published blog post")
	return urls, nil
}
