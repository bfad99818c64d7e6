// Package main computes embeddings for every record that still needs
// one, using a local Ollama-compatible embedding server.
//
// Usage:
//
//	go run ./cmd/embed --data-dir ~/SmartBooks/data
//	go run ./cmd/embed --embed-url http://localhost:11434 --embed-model all-minilm
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/izachstanford/smart-books-ai/internal/config"
	"github.com/izachstanford/smart-books-ai/internal/dataset"
	"github.com/izachstanford/smart-books-ai/internal/domain"
	"github.com/izachstanford/smart-books-ai/internal/embedding"
	"github.com/izachstanford/smart-books-ai/internal/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Environment: cfg.App.Environment,
		Level:       logger.ParseLevel(cfg.Logger.Level),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run := dataset.NewRun("embed")
	log.Info("computing embeddings",
		"run_id", run.RunID,
		"server", cfg.Embed.BaseURL,
		"model", cfg.Embed.Model)

	recordsPath := cfg.ArtifactPath(dataset.RecordsFile)
	records, err := dataset.LoadRecords(recordsPath)
	if err != nil {
		log.Fatal("failed to load records", "error", err)
	}

	ptrs := make([]*domain.BookRecord, len(records))
	for i := range records {
		ptrs[i] = &records[i]
	}

	client := embedding.NewOllamaClient(cfg.Embed.BaseURL, cfg.Embed.Model, log.Logger)
	stats, err := embedding.Run(ctx, client, ptrs, log.Logger)
	if err != nil {
		// Cancellation still saves what was embedded so far.
		log.Warn("embedding interrupted", "error", err, "embedded", stats.Embedded)
	}

	if err := dataset.SaveRecords(recordsPath, records); err != nil {
		log.Fatal("failed to save records", "error", err)
	}

	report := run.Finish(stats)
	if err := dataset.SaveReport(cfg.ArtifactPath("embed_report.json"), report); err != nil {
		log.Error("failed to save run report", "error", err)
	}

	log.Info("embedding complete",
		"embedded", stats.Embedded,
		"already_ok", stats.AlreadyOK,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
		"duration_ms", report.DurationMs)
}
