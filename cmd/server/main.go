package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/findoc/internal/api"
	"github.com/dgallion1/findoc/internal/app"
	"github.com/dgallion1/findoc/internal/config"
	"github.com/dgallion1/findoc/internal/logging"
	"github.com/dgallion1/findoc/internal/pipeline"
)

func main() {
	cfg := config.Load()
	log, logCloser := logging.New(cfg.LogLevel, cfg.LogFile)
	defer logCloser.Close()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	tuning, err := config.LoadTuning(cfg.TuningFile)
	if err != nil {
		log.Error("invalid tuning file", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize components and backends.
	a, err := app.New(ctx, cfg, tuning, log)
	if err != nil {
		log.Error("init failed", "error", err)
		os.Exit(1)
	}
	st, err := a.OpenStore(ctx)
	if err != nil {
		log.Error("store init failed", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	arch, err := a.OpenArchive(ctx)
	if err != nil {
		log.Error("archive init failed", "error", err)
		os.Exit(1)
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(pipeline.Options{
		Workers:   cfg.WorkerCount,
		QueueSize: cfg.MaxQueueSize,
		JobTTL:    cfg.JobTTL,
	}, a.Worker(st, arch), log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(api.Deps{
		Orchestrator: orch,
		Store:        st,
		Archive:      arch,
		Classifier:   a.Classifier,
		Responder:    a.Responder,
		Stats:        a.Stats,
		Model:        a.Model(),
	}, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		a.Close()
		if err := st.Close(); err != nil {
			log.Warn("store close failed", "error", err)
		}
	}()

	log.Info("starting findoc", "port", cfg.Port, "store", cfg.StoreBackend, "llm", a.Model() != "")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
