// Package app wires configuration into the analysis components shared by
// the server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/findoc/internal/archive"
	"github.com/dgallion1/findoc/internal/chunker"
	"github.com/dgallion1/findoc/internal/classifier"
	"github.com/dgallion1/findoc/internal/config"
	"github.com/dgallion1/findoc/internal/extract"
	"github.com/dgallion1/findoc/internal/llm"
	"github.com/dgallion1/findoc/internal/pipeline"
	"github.com/dgallion1/findoc/internal/responder"
	"github.com/dgallion1/findoc/internal/store"
)

// App holds the configured components. Generator and Stats are nil when no
// LLM provider is configured.
type App struct {
	Config config.Config
	Log    *slog.Logger

	Generator  llm.Generator
	Stats      *llm.Stats
	Classifier *classifier.Classifier
	Extractor  *extract.Extractor
	Responder  *responder.Responder
}

// New builds the analysis components. A missing provider is not an error;
// every stage then runs on its deterministic rules.
func New(ctx context.Context, cfg config.Config, tun config.Tuning, log *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}

	gen, err := llm.New(ctx, cfg.LLMSettings())
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		log.Info("no llm provider configured, using rule-based analysis only")
	case err != nil:
		return nil, fmt.Errorf("llm: %w", err)
	default:
		a.Stats = llm.NewStats(0)
		a.Generator = llm.Instrument(llm.WithRetry(gen, cfg.LLMRetries), cfg.LLMTimeout, a.Stats, log)
		log.Info("llm enabled", "provider", cfg.LLMProvider, "model", gen.Model())
	}

	a.Classifier = classifier.New(
		classifier.WithGenerator(a.Generator),
		classifier.WithLogger(log),
		classifier.WithSettings(tun.Classifier),
	)
	a.Extractor = extract.New(
		extract.WithGenerator(a.Generator),
		extract.WithLogger(log),
		extract.WithConcurrency(cfg.MaxConcurrentExtract),
		extract.WithChunking(chunker.Config{
			ChunkSize:    cfg.ChunkSize,
			ChunkOverlap: cfg.ChunkOverlap,
			MinChunk:     chunker.DefaultConfig().MinChunk,
		}),
	)
	a.Responder = responder.New(
		responder.WithLimits(tun.Responder),
		responder.WithLogger(log),
	)
	return a, nil
}

// Model names the active generator, or "" when there is none.
func (a *App) Model() string {
	if a.Generator == nil {
		return ""
	}
	return a.Generator.Model()
}

// OpenStore connects the configured bundle store.
func (a *App) OpenStore(ctx context.Context) (store.Store, error) {
	switch a.Config.StoreBackend {
	case config.StoreMemory, "":
		return store.NewMemory(a.Config.DocumentTTL), nil
	case config.StoreRedis:
		return store.NewRedis(ctx, a.Config.RedisAddr, a.Config.RedisPassword, a.Config.RedisDB, a.Config.DocumentTTL)
	case config.StorePostgres:
		return store.NewPostgres(ctx, a.Config.PostgresDSN)
	}
	return nil, fmt.Errorf("unknown store backend %q", a.Config.StoreBackend)
}

// OpenArchive connects MinIO, or returns nil when no endpoint is set.
func (a *App) OpenArchive(ctx context.Context) (archive.Archiver, error) {
	if a.Config.MinioEndpoint == "" {
		return nil, nil
	}
	m, err := archive.NewMinio(ctx, a.Config.ArchiveSettings(), a.Log)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Worker returns a pipeline worker. st and arch may be nil.
func (a *App) Worker(st store.Store, arch archive.Archiver) *pipeline.Worker {
	opts := []pipeline.WorkerOption{pipeline.WithClassifyConcurrency(a.Config.MaxConcurrentClassify)}
	if st != nil {
		opts = append(opts, pipeline.WithStore(st))
	}
	if arch != nil {
		opts = append(opts, pipeline.WithArchive(arch))
	}
	return pipeline.NewWorker(a.Classifier, a.Extractor, a.Log, opts...)
}

// Close releases the generator.
func (a *App) Close() {
	if a.Generator != nil {
		llm.Close(a.Generator)
	}
}
