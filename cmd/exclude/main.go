// Package main applies the exclusion rules before publishing.
//
// It filters the record set and galaxy coordinates, recomputes
// analytics from the surviving records, and removes excluded books
// from the vector index. Run this after the main pipeline and before
// copying artifacts to their public location.
//
// Usage:
//
//	go run ./cmd/exclude --data-dir ~/SmartBooks/data
//	go run ./cmd/exclude --exclusions ~/SmartBooks/data/exclusions.json
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/izachstanford/smart-books-ai/internal/analytics"
	"github.com/izachstanford/smart-books-ai/internal/config"
	"github.com/izachstanford/smart-books-ai/internal/dataset"
	"github.com/izachstanford/smart-books-ai/internal/domain"
	"github.com/izachstanford/smart-books-ai/internal/exclusions"
	"github.com/izachstanford/smart-books-ai/internal/logger"
	"github.com/izachstanford/smart-books-ai/internal/search"
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

	run := dataset.NewRun("exclude")
	log.Info("applying exclusions", "run_id", run.RunID)

	if err := exclusions.Ensure(cfg.Data.ExclusionsPath); err != nil {
		log.Fatal("failed to ensure exclusions config", "error", err)
	}
	rules, err := exclusions.Load(cfg.Data.ExclusionsPath)
	if err != nil {
		log.Fatal("failed to load exclusions config", "error", err)
	}

	recordsPath := cfg.ArtifactPath(dataset.RecordsFile)
	records, err := dataset.LoadRecords(recordsPath)
	if err != nil {
		log.Fatal("failed to load records", "error", err)
	}

	res := exclusions.Apply(records, rules)
	for reason, count := range res.Reasons {
		log.Info("excluded", "reason", string(reason), "count", count)
	}
	for i := range res.Excluded {
		log.Debug("excluded book",
			"book_key", res.Excluded[i].BookKey,
			"title", res.Excluded[i].Title)
	}

	if err := dataset.SaveRecords(recordsPath, res.Kept); err != nil {
		log.Fatal("failed to save filtered records", "error", err)
	}

	// Galaxy coordinates follow the filtered record set. Missing the
	// artifact just means the analytics stage has not run yet.
	galaxyPath := cfg.ArtifactPath(dataset.GalaxyFile)
	if points, err := dataset.LoadPoints(galaxyPath); err == nil {
		filtered := exclusions.FilterPoints(points, res.Kept)
		if err := dataset.SavePoints(galaxyPath, filtered); err != nil {
			log.Fatal("failed to save filtered galaxy points", "error", err)
		}
		log.Info("galaxy points filtered", "before", len(points), "after", len(filtered))
	} else {
		log.Warn("galaxy artifact not filtered", "error", err)
	}

	// Analytics are always recomputed from the filtered set, never
	// patched.
	result := analytics.Compute(res.Kept, time.Now())
	if err := dataset.SaveAnalytics(cfg.ArtifactPath(dataset.AnalyticsFile), result); err != nil {
		log.Fatal("failed to save analytics", "error", err)
	}

	dropFromIndex(cfg, log, res.Excluded)

	report := run.Finish(map[string]any{
		"kept":     len(res.Kept),
		"excluded": len(res.Excluded),
		"reasons":  res.Reasons,
	})
	if err := dataset.SaveReport(cfg.ArtifactPath("exclude_report.json"), report); err != nil {
		log.Error("failed to save run report", "error", err)
	}

	log.Info("exclusions applied",
		"kept", len(res.Kept),
		"excluded", len(res.Excluded),
		"duration_ms", report.DurationMs)
}

// dropFromIndex removes excluded books from the vector index so a
// published index never serves them. A missing index is fine, the
// operator may not have built one.
func dropFromIndex(cfg *config.Config, log *logger.Logger, excluded []domain.BookRecord) {
	if len(excluded) == 0 {
		return
	}
	if _, err := os.Stat(cfg.Index.Path); err != nil {
		log.Info("no index to filter", "path", cfg.Index.Path)
		return
	}

	idx, err := search.NewBookIndex(search.Options{
		DataPath: cfg.Index.Path,
		Dims:     cfg.Index.Dims,
		Logger:   log.Logger,
	})
	if err != nil {
		log.Error("failed to open index", "error", err)
		return
	}
	defer idx.Close()

	keys := make([]string, len(excluded))
	for i := range excluded {
		keys[i] = excluded[i].BookKey
	}
	if err := idx.DeleteBatch(keys); err != nil {
		log.Error("failed to delete excluded books from index", "error", err)
		return
	}
	log.Info("excluded books removed from index", "count", len(keys))
}
