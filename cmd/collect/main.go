package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"nigerian-law-ai/internal/collector"
	"nigerian-law-ai/internal/config"
	"nigerian-law-ai/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	slog.SetDefault(cfg.NewLogger(os.Stdout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	c := collector.NewCollector(storage.NewSourceRepo(db), storage.NewDocumentRepo(db), collector.GitCloner{})

	result, err := c.CollectRepo(ctx, cfg.SourceRepoURL, cfg.SourceBranch)
	if err != nil {
		slog.Error("Collection failed", "repo", cfg.SourceRepoURL, "error", err)
		os.Exit(1)
	}

	slog.Info("Collection finished",
		"repo", result.Repo,
		"commit", result.Commit,
		"skipped", result.Skipped,
		"files", result.Files,
		"inserted", result.Inserted,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
		"binary", result.Binary,
		"failed", result.Failed,
	)
	if result.Failed > 0 {
		os.Exit(1)
	}
}
