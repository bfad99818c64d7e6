// Package main runs the enrichment queue against the external metadata
// APIs and merges the results back onto the record set.
//
// Responses are cached under the data dir, so interrupting and
// rerunning never repays for a lookup.
//
// Usage:
//
//	go run ./cmd/enrich --data-dir ~/SmartBooks/data
//	go run ./cmd/enrich --enrich-limit 100   # Cap this run at 100 lookups
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
	"github.com/izachstanford/smart-books-ai/internal/enrich"
	"github.com/izachstanford/smart-books-ai/internal/enrich/googlebooks"
	"github.com/izachstanford/smart-books-ai/internal/enrich/openlibrary"
	"github.com/izachstanford/smart-books-ai/internal/genre"
	"github.com/izachstanford/smart-books-ai/internal/logger"
	"github.com/izachstanford/smart-books-ai/internal/normalize"
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

	run := dataset.NewRun("enrich")
	log.Info("enriching records", "run_id", run.RunID)

	recordsPath := cfg.ArtifactPath(dataset.RecordsFile)
	records, err := dataset.LoadRecords(recordsPath)
	if err != nil {
		log.Fatal("failed to load records", "error", err)
	}
	queue, err := dataset.LoadQueue(cfg.ArtifactPath(dataset.QueueFile))
	if err != nil {
		log.Fatal("failed to load queue", "error", err)
	}
	if cfg.Enrich.Limit > 0 && len(queue) > cfg.Enrich.Limit {
		log.Info("capping queue for this run", "limit", cfg.Enrich.Limit, "queued", len(queue))
		queue = queue[:cfg.Enrich.Limit]
	}

	cache, err := enrich.LoadCache(cfg.Enrich.CachePath)
	if err != nil {
		log.Fatal("failed to load enrichment cache", "error", err)
	}
	log.Info("enrichment cache loaded", "entries", cache.Len())

	enricher := enrich.New(googlebooks.New(log.Logger), openlibrary.New(log.Logger), cache, log.Logger)
	enricher.SetDelay(cfg.Enrich.RequestDelay)

	results, stats, err := enricher.Run(ctx, queue)
	if err != nil {
		// Cancellation still merges what was fetched so far.
		log.Warn("enrichment interrupted", "error", err, "fetched", stats.Fetched)
	}

	ptrs := make([]*domain.BookRecord, len(records))
	for i := range records {
		ptrs[i] = &records[i]
	}
	applied := enrich.Apply(ptrs, results)
	refresh(ptrs)

	if err := dataset.SaveRecords(recordsPath, records); err != nil {
		log.Fatal("failed to save records", "error", err)
	}

	report := run.Finish(map[string]any{"run": stats, "applied": applied})
	if err := dataset.SaveReport(cfg.ArtifactPath("enrich_report.json"), report); err != nil {
		log.Error("failed to save run report", "error", err)
	}

	log.Info("enrichment complete",
		"fetched", stats.Fetched,
		"cache_hits", stats.CacheHits,
		"errors", stats.Errors,
		"descriptions", applied.Descriptions,
		"covers", applied.Covers,
		"duration_ms", report.DurationMs)
}

// refresh recomputes the derived fields enrichment may have unlocked:
// cleaned descriptions and the primary genre.
func refresh(records []*domain.BookRecord) {
	for _, rec := range records {
		// A non-empty source means Apply replaced the raw description,
		// so the cleaned form is stale either way.
		if rec.DescriptionRaw != "" && (rec.DescriptionClean == "" || rec.DescriptionSource != "") {
			rec.DescriptionClean = normalize.Description(rec.DescriptionRaw)
		}
		if len(rec.Genres) > 0 && (rec.GenrePrimary == "" || rec.GenrePrimary == "Unknown") {
			rec.GenrePrimary = genre.PrimaryGenre(rec.Genres)
		}
	}
}
