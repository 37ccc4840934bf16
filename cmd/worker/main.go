package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/blob"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/bootstrap"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/config"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/database"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/jobs"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/logging"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	if !cfg.UseAsynq() {
		slog.Error("REDIS_ADDR is required for the worker")
		os.Exit(1)
	}
	if cfg.StoreDriver != config.StoreDriverPostgres {
		slog.Error("the worker needs the postgres store", "driver", cfg.StoreDriver)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	st, err := bootstrap.OpenStore(ctx, cfg, false)
	if err != nil {
		slog.Error("store setup failed", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	content, err := blob.New(ctx, cfg)
	if err != nil {
		slog.Error("blob storage setup failed", "driver", cfg.BlobDriver, "error", err)
		os.Exit(1)
	}

	// Digests only write back, nothing is dispatched from here.
	docs := services.NewDocumentService(st.Documents, st.Activities, content, nil, cfg.BlobURLTTL, cfg.MaxContentSize)

	server := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, asynq.Config{
		Concurrency: cfg.WorkerConcurrency,
	})
	mux := jobs.NewProcessor(content, docs).Handler()

	go func() {
		<-ctx.Done()
		server.Shutdown()
	}()

	slog.Info("worker starting", "concurrency", cfg.WorkerConcurrency)
	if err := server.Run(mux); err != nil {
		slog.Error("worker stopped", "error", err)
		os.Exit(1)
	}
}
