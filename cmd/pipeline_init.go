package main

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscore-cli/internal/enrich"
	"github.com/sells-group/leadscore-cli/internal/extract"
	"github.com/sells-group/leadscore-cli/internal/fetcher"
	"github.com/sells-group/leadscore-cli/internal/metrics"
	"github.com/sells-group/leadscore-cli/internal/model"
	"github.com/sells-group/leadscore-cli/internal/pipeline"
	"github.com/sells-group/leadscore-cli/internal/scorer"
	"github.com/sells-group/leadscore-cli/internal/store"
	anthropicpkg "github.com/sells-group/leadscore-cli/pkg/anthropic"
)

// researcher is the part of the pipeline the commands depend on.
type researcher interface {
	Run(ctx context.Context, url string) (*model.ResearchResult, error)
}

// pipelineEnv holds the store, metrics, and researcher needed by the
// research, batch, and serve commands.
type pipelineEnv struct {
	Store      store.Store
	Metrics    *metrics.Metrics
	Researcher *pipeline.Researcher
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initPipeline validates config for mode, opens the store, and builds the
// Researcher. Callers should defer env.Close().
func initPipeline(ctx context.Context, mode string) (*pipelineEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	sc, err := scorer.New(cfg.Scorer.Weights())
	if err != nil {
		return nil, eris.Wrap(err, "init scorer")
	}

	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:    cfg.Fetch.UserAgent,
		Timeout:      time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		AboutTimeout: time.Duration(cfg.Fetch.AboutTimeoutSecs) * time.Second,
		MaxAttempts:  cfg.Fetch.MaxAttempts,
		Backoff:      time.Duration(cfg.Fetch.BackoffMs) * time.Millisecond,
	})

	enricher := enrich.New(anthropicpkg.NewClient(cfg.Anthropic.Key), enrich.Options{
		Model:               cfg.Anthropic.Model,
		MaxTokens:           cfg.Anthropic.MaxTokens,
		Temperature:         cfg.Anthropic.Temperature,
		ConfidenceThreshold: cfg.Enrich.ConfidenceThreshold,
		MaxContentChars:     cfg.Enrich.MaxContentChars,
	})

	r := pipeline.New(f, extract.New(cfg.Enrich.MaxContentChars), enricher, sc, pipeline.Options{
		AboutPages:      cfg.Fetch.AboutPages,
		EnrichFields:    cfg.Enrich.Fields,
		MaxContentChars: cfg.Enrich.MaxContentChars,
	}).WithStore(st).WithMetrics(m)

	return &pipelineEnv{Store: st, Metrics: m, Researcher: r}, nil
}
