// Package main builds the canonical book record set.
//
// It merges the Goodreads library export with the best-books corpus,
// deduplicates the result, cleans descriptions, fills in genres, and
// writes the record set plus the enrichment queue.
//
// Usage:
//
//	go run ./cmd/build --goodreads ~/data/goodreads_library_export.csv \
//	    --corpus ~/data/books_1.Best_Books_Ever.csv --data-dir ~/SmartBooks/data
package main

import (
	"fmt"
	"os"

	"github.com/izachstanford/smart-books-ai/internal/config"
	"github.com/izachstanford/smart-books-ai/internal/dataset"
	"github.com/izachstanford/smart-books-ai/internal/domain"
	"github.com/izachstanford/smart-books-ai/internal/genre"
	"github.com/izachstanford/smart-books-ai/internal/logger"
	"github.com/izachstanford/smart-books-ai/internal/merge"
	"github.com/izachstanford/smart-books-ai/internal/normalize"
	"github.com/izachstanford/smart-books-ai/internal/quality"
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

	if cfg.Data.GoodreadsCSV == "" || cfg.Data.CorpusCSV == "" {
		log.Fatal("both --goodreads and --corpus are required")
	}

	run := dataset.NewRun("build")
	log.Info("building record set", "run_id", run.RunID)

	primary, grStats, err := readGoodreads(cfg, log)
	if err != nil {
		log.Fatal("failed to read goodreads export", "error", err)
	}

	corpus, corpusStats, err := readCorpus(cfg, log)
	if err != nil {
		log.Fatal("failed to read corpus", "error", err)
	}

	merged, matchStats := merge.Match(primary, corpus, merge.DefaultMatchOptions())
	records, dedupStats := merge.Dedupe(merged)
	log.Info("merged and deduplicated",
		"primary", matchStats.PrimaryRecords,
		"new_corpus", matchStats.NewCorpusBooks,
		"after_dedup", dedupStats.Output)

	finalize(records)

	queue := quality.BuildQueue(records)
	log.Info("enrichment queue built", "entries", len(queue))

	out := make([]domain.BookRecord, len(records))
	for i, rec := range records {
		out[i] = *rec
	}

	recordsPath := cfg.ArtifactPath(dataset.RecordsFile)
	if err := dataset.SaveRecords(recordsPath, out); err != nil {
		log.Fatal("failed to save records", "error", err)
	}
	if err := dataset.SaveQueue(cfg.ArtifactPath(dataset.QueueFile), queue); err != nil {
		log.Fatal("failed to save queue", "error", err)
	}

	report := run.Finish(map[string]any{
		"goodreads": grStats,
		"corpus":    corpusStats,
		"match":     matchStats,
		"dedup":     dedupStats,
		"queue":     len(queue),
	})
	if err := dataset.SaveReport(cfg.ArtifactPath("build_report.json"), report); err != nil {
		log.Error("failed to save run report", "error", err)
	}

	log.Info("record set built",
		"records", len(out),
		"queued", len(queue),
		"path", recordsPath,
		"duration_ms", report.DurationMs)
}

func readGoodreads(cfg *config.Config, log *logger.Logger) ([]*domain.BookRecord, dataset.ReadStats, error) {
	f, err := os.Open(cfg.Data.GoodreadsCSV)
	if err != nil {
		return nil, dataset.ReadStats{}, err
	}
	defer f.Close()
	return dataset.ReadGoodreads(f, log.Logger)
}

func readCorpus(cfg *config.Config, log *logger.Logger) ([]merge.CorpusRecord, dataset.ReadStats, error) {
	f, err := os.Open(cfg.Data.CorpusCSV)
	if err != nil {
		return nil, dataset.ReadStats{}, err
	}
	defer f.Close()
	return dataset.ReadCorpus(f, log.Logger)
}

// finalize cleans descriptions and settles genres on the merged set.
// Records without genres get imputed ones; every record with genres
// gets a primary genre.
func finalize(records []*domain.BookRecord) {
	for _, rec := range records {
		if rec.DescriptionClean == "" && rec.DescriptionRaw != "" {
			rec.DescriptionClean = normalize.Description(rec.DescriptionRaw)
		}
		if len(rec.Genres) == 0 {
			rec.Genres = genre.Impute(rec.Title, rec.Author)
		}
		if len(rec.Genres) > 0 {
			rec.GenrePrimary = genre.PrimaryGenre(rec.Genres)
		}
	}
}
