/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"chainguard.dev/blogcrew/agents/blog"
	"chainguard.dev/blogcrew/agents/failure"
	"chainguard.dev/blogcrew/agents/metaagent"
	"github.com/sethvargo/go-envconfig"
)

type config struct {
	Provider         string        `env:"BLOGCREW_PROVIDER,default=claude"`
	Model            string        `env:"BLOGCREW_MODEL"`
	MaxIterations    int           `env:"BLOGCREW_MAX_ITERATIONS,default=3"`
	QualityThreshold float64       `env:"BLOGCREW_QUALITY_THRESHOLD,default=7.0"`
	Parallelism      int           `env:"BLOGCREW_PARALLELISM,default=2"`
	CallTimeout      time.Duration `env:"BLOGCREW_CALL_TIMEOUT,default=2m"`
	Synthesize       bool          `env:"BLOGCREW_SYNTHESIZE,default=true"`
	SearchURL        string        `env:"BLOGCREW_SEARCH_URL"`

	OutputDir    string `env:"BLOGCREW_OUTPUT_DIR,default=output"`
	Formats      string `env:"BLOGCREW_FORMATS"` // Defaults to json, md and html
	Bucket       string `env:"BLOGCREW_BUCKET"`
	BucketPrefix string `env:"BLOGCREW_BUCKET_PREFIX,default=posts"`

	MetricsAddr string `env:"BLOGCREW_METRICS_ADDR"`
	Quiet       bool   `env:"BLOGCREW_QUIET,default=false"`

	ProjectID       string `env:"GOOGLE_CLOUD_PROJECT"` // Defaults to the detected GCP project
	Region          string `env:"GOOGLE_CLOUD_REGION,default=us-east5"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string `env:"OPENAI_BASE_URL"`

	Topics []string
}

// loadConfig reads the environment through lookuper, then lets command line
// flags override it. Positional arguments are topics too.
func loadConfig(ctx context.Context, lookuper envconfig.Lookuper, args []string, stderr io.Writer) (*config, error) {
	var cfg config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	fs := flag.NewFlagSet("blogcrew", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Func("topic", "blog post topic (repeatable)", func(s string) error {
		cfg.Topics = append(cfg.Topics, s)
		return nil
	})
	fs.StringVar(&cfg.Provider, "provider", cfg.Provider, "model provider: claude, gemini or openai")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "model name (defaults per provider)")
	fs.IntVar(&cfg.MaxIterations, "max-iterations", cfg.MaxIterations, "maximum critique rounds")
	fs.Float64Var(&cfg.QualityThreshold, "quality-threshold", cfg.QualityThreshold, "score (0-10) at which a draft is accepted")
	fs.IntVar(&cfg.Parallelism, "parallel", cfg.Parallelism, "topics generated concurrently")
	fs.DurationVar(&cfg.CallTimeout, "call-timeout", cfg.CallTimeout, "timeout for each model call")
	fs.BoolVar(&cfg.Synthesize, "synthesize", cfg.Synthesize, "let the model synthesize research findings")
	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "output directory")
	fs.StringVar(&cfg.Formats, "formats", cfg.Formats, "comma separated output formats: json, md, html")
	fs.StringVar(&cfg.Bucket, "bucket", cfg.Bucket, "publish to this GCS bucket instead of -out")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address")
	fs.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "suppress console progress")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Topics = append(cfg.Topics, fs.Args()...)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *config) validate() error {
	if len(c.Topics) == 0 {
		return failure.Validationf("topic", "at least one topic is required")
	}
	for _, t := range c.Topics {
		if err := blog.ValidateTopic(t); err != nil {
			return err
		}
	}
	provider := metaagent.Provider(strings.ToLower(c.Provider))
	if metaagent.DefaultModel(provider) == "" {
		return failure.Validationf("provider", "unknown provider %q", c.Provider)
	}
	c.Provider = string(provider)
	if c.Model == "" {
		c.Model = metaagent.DefaultModel(provider)
	}
	if p, err := metaagent.ProviderFor(c.Model); err != nil {
		return err
	} else if p != provider {
		return failure.Validationf("model", "model %s is not served by provider %s", c.Model, provider)
	}
	if c.Parallelism < 1 {
		return failure.Validationf("parallel", "parallelism must be at least 1, got %d", c.Parallelism)
	}
	if c.CallTimeout <= 0 {
		return failure.Validationf("call_timeout", "call timeout must be positive, got %v", c.CallTimeout)
	}
	return nil
}

// needsProject reports whether the provider is reached through Vertex AI.
func (c *config) needsProject() bool {
	switch metaagent.Provider(c.Provider) {
	case metaagent.Claude:
		return c.AnthropicAPIKey == ""
	case metaagent.Gemini:
		return c.GeminiAPIKey == ""
	default:
		return false
	}
}
