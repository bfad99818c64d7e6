// Package main loads the record set into the Bleve vector index.
//
// Build with the vectors tag to enable nearest-neighbor search:
//
//	go build -tags vectors ./cmd/index
//
// Usage:
//
//	go run -tags vectors ./cmd/index --data-dir ~/SmartBooks/data
//	go run -tags vectors ./cmd/index --rebuild   # Drop and reindex from scratch
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/izachstanford/smart-books-ai/internal/config"
	"github.com/izachstanford/smart-books-ai/internal/dataset"
	"github.com/izachstanford/smart-books-ai/internal/logger"
	"github.com/izachstanford/smart-books-ai/internal/search"
)

var rebuild = flag.Bool("rebuild", false, "Drop the index and reindex from scratch")

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

	run := dataset.NewRun("index")
	log.Info("indexing records",
		"run_id", run.RunID,
		"path", cfg.Index.Path,
		"dims", cfg.Index.Dims)

	records, err := dataset.LoadRecords(cfg.ArtifactPath(dataset.RecordsFile))
	if err != nil {
		log.Fatal("failed to load records", "error", err)
	}

	idx, err := search.NewBookIndex(search.Options{
		DataPath: cfg.Index.Path,
		Dims:     cfg.Index.Dims,
		Logger:   log.Logger,
	})
	if err != nil {
		log.Fatal("failed to open index", "error", err)
	}
	defer func() {
		if err := idx.Close(); err != nil {
			log.Error("failed to close index", "error", err)
		}
	}()

	if *rebuild {
		if err := idx.Rebuild(); err != nil {
			log.Fatal("failed to rebuild index", "error", err)
		}
		log.Info("index dropped for rebuild")
	}

	docs := make([]*search.BookDocument, 0, len(records))
	embedded := 0
	for i := range records {
		if records[i].HasEmbedding() {
			embedded++
		}
		docs = append(docs, search.FromRecord(&records[i]))
	}

	if err := idx.UpsertBatch(docs); err != nil {
		log.Fatal("failed to index records", "error", err)
	}

	count, err := idx.DocumentCount()
	if err != nil {
		log.Error("failed to count documents", "error", err)
	}

	report := run.Finish(map[string]any{
		"records":   len(records),
		"embedded":  embedded,
		"documents": count,
	})
	if err := dataset.SaveReport(cfg.ArtifactPath("index_report.json"), report); err != nil {
		log.Error("failed to save run report", "error", err)
	}

	log.Info("indexing complete",
		"documents", count,
		"embedded", embedded,
		"duration_ms", report.DurationMs)
}
