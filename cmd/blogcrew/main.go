/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main runs the blog generation crew from the command line.
//
// Each topic is researched, drafted, critiqued and revised by the
// orchestrator, then published as JSON, Markdown and HTML to a local
// directory or a GCS bucket. Configuration comes from the environment
// (optionally a .env file) and is overridden by flags:
//
//	blogcrew -provider gemini -max-iterations 3 -topic "urban beekeeping"
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chainguard.dev/blogcrew/agents/metaagent"
	"chainguard.dev/blogcrew/agents/metrics"
	"chainguard.dev/blogcrew/agents/orchestrator"
	"chainguard.dev/blogcrew/agents/progress"
	"chainguard.dev/blogcrew/agents/publish"
	"cloud.google.com/go/compute/metadata"
	"cloud.google.com/go/storage"
	"github.com/chainguard-dev/clog"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sethvargo/go-envconfig"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx = clog.WithLogger(ctx, clog.New(slog.NewTextHandler(os.Stderr, nil)))

	// A missing .env file is fine.
	_ = godotenv.Load()

	cfg, err := loadConfig(ctx, envconfig.OsLookuper(), os.Args[1:], os.Stderr)
	if err != nil {
		clog.FatalContextf(ctx, "failed to process config: %v", err)
	}
	if err := run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		clog.FatalContextf(ctx, "blogcrew failed: %v", err)
	}
}

func run(ctx context.Context, cfg *config, stdout, stderr io.Writer) error {
	log := clog.FromContext(ctx)

	if cfg.needsProject() && cfg.ProjectID == "" {
		if !metadata.OnGCE() {
			return errors.New("GOOGLE_CLOUD_PROJECT is required for Vertex AI outside Google Cloud")
		}
		projectID, err := metadata.ProjectIDWithContext(ctx)
		if err != nil {
			return fmt.Errorf("detecting project ID: %w", err)
		}
		cfg.ProjectID = projectID
		log.With("project_id", projectID).Info("Detected Google Cloud project")
	}

	clients, err := metaagent.NewClients(ctx, metaagent.Provider(cfg.Provider), metaagent.ClientConfig{
		ProjectID:       cfg.ProjectID,
		Region:          cfg.Region,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		GeminiAPIKey:    cfg.GeminiAPIKey,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		OpenAIBaseURL:   cfg.OpenAIBaseURL,
	})
	if err != nil {
		return err
	}
	log.With("provider", cfg.Provider, "model", cfg.Model).Info("Initializing agents")
	c, err := newCrew(clients, cfg)
	if err != nil {
		return err
	}

	pub, err := newPublisher(ctx, cfg)
	if err != nil {
		return err
	}

	workflow := metrics.NewWorkflow(prometheus.DefaultRegisterer)
	if cfg.MetricsAddr != "" {
		stop := serveMetrics(ctx, cfg.MetricsAddr)
		defer stop()
	}

	sink := progress.Log()
	if !cfg.Quiet {
		sink = progress.Multi(sink, progress.Console(stderr))
	}
	orch, err := orchestrator.New(c.research, c.writing, c.critique,
		orchestrator.WithMaxIterations(cfg.MaxIterations),
		orchestrator.WithQualityThreshold(cfg.QualityThreshold),
		orchestrator.WithProgress(sink),
		orchestrator.WithMetrics(workflow),
	)
	if err != nil {
		return err
	}

	var (
		rows []progress.UsageRow
		errs []error
	)
	results := orch.GenerateAll(ctx, cfg.Topics, cfg.Parallelism)
	for _, tr := range results {
		if tr.Err != nil {
			errs = append(errs, fmt.Errorf("%q: %w", tr.Topic, tr.Err))
		}
		if tr.Result == nil {
			continue
		}
		rows = append(rows, progress.UsageRow{Topic: tr.Topic, Usage: tr.Result.Usage, Final: tr.Result.Metrics})
		if !cfg.Quiet && tr.Result.Progress != nil {
			if err := progress.WriteStatus(stderr, *tr.Result.Progress, time.Now()); err != nil {
				errs = append(errs, err)
			}
		}

		locations, err := pub.Publish(context.WithoutCancel(ctx), tr.Result)
		if err != nil {
			errs = append(errs, fmt.Errorf("publishing %q: %w", tr.Topic, err))
			continue
		}
		for _, l := range locations {
			fmt.Fprintln(stdout, l)
		}
	}

	if len(rows) > 0 {
		if err := progress.WriteUsage(stdout, rows); err != nil {
			errs = append(errs, err)
		}
	}
	clog.InfoContextf(ctx, "Generated %d of %d posts", len(rows), len(results))
	return errors.Join(errs...)
}

func newPublisher(ctx context.Context, cfg *config) (publish.Publisher, error) {
	formats, err := publish.ParseFormats(cfg.Formats)
	if err != nil {
		return nil, err
	}
	if cfg.Bucket == "" {
		return publish.NewDir(cfg.OutputDir, formats...)
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return publish.NewGCS(client, cfg.Bucket, cfg.BucketPrefix, formats...)
}

// serveMetrics exposes the default Prometheus registry until the
// returned function is called.
func serveMetrics(ctx context.Context, addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		clog.FromContext(ctx).With("addr", addr).Info("Serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			clog.FromContext(ctx).With("error", err).Error("Metrics server failed")
		}
	}()
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
