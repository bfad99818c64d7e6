// Package main queries the vector index for books similar to a seed
// book, a quick way to sanity-check the index from the command line.
//
// Build with the vectors tag:
//
//	go run -tags vectors ./cmd/recommend --seed "isbn:9780441013593" -k 10
//	go run -tags vectors ./cmd/recommend --seed "dune" --shelf unread
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/izachstanford/smart-books-ai/internal/config"
	"github.com/izachstanford/smart-books-ai/internal/dataset"
	"github.com/izachstanford/smart-books-ai/internal/domain"
	"github.com/izachstanford/smart-books-ai/internal/logger"
	"github.com/izachstanford/smart-books-ai/internal/search"
)

var (
	seed      = flag.String("seed", "", "Seed book: a book_key or a title search")
	k         = flag.Int("k", 10, "Number of recommendations")
	shelf     = flag.String("shelf", "", "Restrict to one shelf (read, unread)")
	genreFlag = flag.String("genre", "", "Restrict to one primary genre")
	minRating = flag.Float64("min-rating", 0, "Minimum average rating")
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

	if *seed == "" {
		log.Fatal("--seed is required")
	}

	records, err := dataset.LoadRecords(cfg.ArtifactPath(dataset.RecordsFile))
	if err != nil {
		log.Fatal("failed to load records", "error", err)
	}

	rec := findSeed(records, *seed)
	if rec == nil {
		log.Fatal("seed book not found", "seed", *seed)
	}
	if !rec.HasEmbedding() {
		log.Fatal("seed book has no embedding", "book_key", rec.BookKey, "title", rec.Title)
	}

	idx, err := search.NewBookIndex(search.Options{
		DataPath: cfg.Index.Path,
		Dims:     cfg.Index.Dims,
		Logger:   log.Logger,
	})
	if err != nil {
		log.Fatal("failed to open index", "error", err)
	}
	defer idx.Close()

	result, err := idx.Query(context.Background(), search.QueryParams{
		Vector:       rec.Embedding,
		K:            *k,
		Shelf:        *shelf,
		GenrePrimary: *genreFlag,
		MinAvgRating: *minRating,
		ExcludeKeys:  []string{rec.BookKey},
	})
	if err != nil {
		log.Fatal("query failed", "error", err)
	}

	fmt.Printf("Books similar to %q by %s:\n\n", rec.Title, rec.Author)
	for i, hit := range result.Hits {
		fmt.Printf("%2d. %s by %s  (score %.4f, %s)\n",
			i+1, hit.Title, hit.Author, hit.Score, hit.Shelf)
	}
	fmt.Printf("\n%d of %d matches in %dms\n", len(result.Hits), result.Total, result.TookMs)
}

// findSeed resolves the seed argument, an exact book_key first, then a
// case-insensitive title substring.
func findSeed(records []domain.BookRecord, seed string) *domain.BookRecord {
	for i := range records {
		if records[i].BookKey == seed {
			return &records[i]
		}
	}
	needle := strings.ToLower(seed)
	for i := range records {
		if strings.Contains(strings.ToLower(records[i].Title), needle) {
			return &records[i]
		}
	}
	return nil
}
