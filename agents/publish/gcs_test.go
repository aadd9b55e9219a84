/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package publish_test

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"chainguard.dev/blogcrew/agents/failure"
	"chainguard.dev/blogcrew/agents/publish"
	"cloud.google.com/go/storage"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type uploaded struct {
	Name        string            `json:"name"`
	ContentType string            `json:"contentType"`
	Metadata    map[string]string `json:"metadata"`
}

// fakeBucket accepts multipart JSON API uploads and records the object
// metadata of each one.
type fakeBucket struct {
	mu      sync.Mutex
	objects []uploaded
}

func (f *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || !strings.Contains(r.URL.Path, "/b/blog/o") {
		http.Error(w, "unexpected request "+r.Method+" "+r.URL.Path, http.StatusNotFound)
		return
	}
	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	part, err := multipart.NewReader(r.Body, params["boundary"]).NextPart()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var obj uploaded
	if err := json.NewDecoder(part).Decode(&obj); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_, _ = io.Copy(io.Discard, r.Body)

	f.mu.Lock()
	f.objects = append(f.objects, obj)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"bucket":      "blog",
		"name":        obj.Name,
		"contentType": obj.ContentType,
		"metadata":    obj.Metadata,
	})
}

func TestGCS_Publish(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fake := &fakeBucket{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := storage.NewClient(ctx, option.WithEndpoint(srv.URL+"/storage/v1/"), option.WithoutAuthentication())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	pub, err := publish.NewGCS(client, "blog", "posts", publish.FormatJSON, publish.FormatMarkdown)
	require.NoError(t, err)

	urls, err := pub.Publish(ctx, result())
	require.NoError(t, err)
	want := []string{
		"gs://blog/posts/bees-cities-2026-3f2a9c1e.json",
		"gs://blog/posts/bees-cities-2026-3f2a9c1e.md",
	}
	if diff := cmp.Diff(want, urls); diff != "" {
		t.Errorf("Publish() (-want +got):\n%s", diff)
	}

	require.Len(t, fake.objects, 2)
	require.Equal(t, "posts/bees-cities-2026-3f2a9c1e.md", fake.objects[1].Name)
	require.Equal(t, "text/markdown; charset=utf-8", fake.objects[1].ContentType)
	require.Equal(t, "8.2", fake.objects[0].Metadata["quality_score"])
	require.Equal(t, result().RunID, fake.objects[0].Metadata["run_id"])
}

func TestNewGCS_EmptyBucket(t *testing.T) {
	t.Parallel()
	client, err := storage.NewClient(context.Background(), option.WithoutAuthentication())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	if _, err := publish.NewGCS(client, "", ""); !failure.Is(err, failure.Validation) {
		t.Errorf("NewGCS(empty bucket) = %v, want validation failure", err)
	}
}
