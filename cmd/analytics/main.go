// Package main precomputes the analytics artifact and the galaxy
// coordinates from the record set.
//
// Usage:
//
//	go run ./cmd/analytics --data-dir ~/SmartBooks/data
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/izachstanford/smart-books-ai/internal/analytics"
	"github.com/izachstanford/smart-books-ai/internal/config"
	"github.com/izachstanford/smart-books-ai/internal/dataset"
	"github.com/izachstanford/smart-books-ai/internal/galaxy"
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

	run := dataset.NewRun("analytics")
	log.Info("computing analytics", "run_id", run.RunID)

	records, err := dataset.LoadRecords(cfg.ArtifactPath(dataset.RecordsFile))
	if err != nil {
		log.Fatal("failed to load records", "error", err)
	}

	result := analytics.Compute(records, time.Now())
	if err := dataset.SaveAnalytics(cfg.ArtifactPath(dataset.AnalyticsFile), result); err != nil {
		log.Fatal("failed to save analytics", "error", err)
	}
	log.Info("analytics saved",
		"total_books", result.Summary.TotalBooks,
		"books_read", result.Summary.BooksRead,
		"coverage_percent", result.Summary.CoveragePercent)

	points, err := galaxy.BuildPoints(records, log.Logger)
	if err != nil {
		log.Fatal("failed to build galaxy points", "error", err)
	}
	if err := dataset.SavePoints(cfg.ArtifactPath(dataset.GalaxyFile), points); err != nil {
		log.Fatal("failed to save galaxy points", "error", err)
	}

	report := run.Finish(map[string]any{
		"records": len(records),
		"points":  len(points),
	})
	if err := dataset.SaveReport(cfg.ArtifactPath("analytics_report.json"), report); err != nil {
		log.Error("failed to save run report", "error", err)
	}

	log.Info("analytics complete",
		"points", len(points),
		"duration_ms", report.DurationMs)
}
