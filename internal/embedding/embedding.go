// Package embedding turns book metadata into embedding vectors through
// a local embedding service.
package embedding

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/izachstanford/smart-books-ai/internal/domain"
	domainerrors "github.com/izachstanford/smart-books-ai/internal/errors"
)

const (
	// MaxDescriptionChars caps the description portion of the
	// embedding text. Longer descriptions add cost without adding
	// signal for similarity.
	MaxDescriptionChars = 2000

	// MinTextLen is the shortest prepared text worth embedding.
	// Records at or below it are skipped.
	MinTextLen = 50

	// maxAttempts bounds per-record calls when failures are retryable.
	maxAttempts = 3
)

// retryDelay spaces retry attempts. Tests shorten it.
var retryDelay = 2 * time.Second

// Embedder produces a vector for a text. Implementations must return
// identical vectors for identical input within one model version.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// PrepareText assembles the embedding input for a record:
// "Title: .. | Author: .. | Genres: .. | Description: ..", skipping
// empty parts and capping the description.
func PrepareText(rec *domain.BookRecord) string {
	var parts []string
	if rec.Title != "" {
		parts = append(parts, "Title: "+rec.Title)
	}
	if rec.Author != "" {
		parts = append(parts, "Author: "+rec.Author)
	}
	if len(rec.Genres) > 0 {
		parts = append(parts, "Genres: "+strings.Join(rec.Genres, ", "))
	}

	desc := rec.DescriptionClean
	if desc != "" {
		if len(desc) > MaxDescriptionChars {
			desc = desc[:MaxDescriptionChars] + "..."
		}
		parts = append(parts, "Description: "+desc)
	}

	return strings.Join(parts, " | ")
}

// Stats summarizes one embedding run.
type Stats struct {
	Records   int `json:"records"`
	Embedded  int `json:"embedded"`
	Skipped   int `json:"skipped"`
	AlreadyOK int `json:"already_ok"`
	Errors    int `json:"errors"`
}

// Run embeds every record whose prepared text is long enough, writing
// the vector and the exact text onto the record. Records that already
// carry a vector are left alone, so reruns only pay for new books.
// Per-record failures are logged and counted; only context
// cancellation aborts the batch.
func Run(ctx context.Context, embedder Embedder, records []*domain.BookRecord, logger *slog.Logger) (Stats, error) {
	stats := Stats{Records: len(records)}

	for _, rec := range records {
		if rec.HasEmbedding() {
			stats.AlreadyOK++
			continue
		}

		text := PrepareText(rec)
		if len(text) <= MinTextLen {
			stats.Skipped++
			continue
		}

		vec, err := embedWithRetry(ctx, embedder, text)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			stats.Errors++
			logger.Warn("embedding failed",
				"book_key", rec.BookKey,
				"error", err,
			)
			continue
		}

		rec.EmbeddingText = text
		rec.Embedding = vec
		stats.Embedded++
	}

	return stats, nil
}

// embedWithRetry calls the embedder again on transient failures. Only
// errors carrying a retryable code are attempted more than once; empty
// text and other malformed-input failures surface immediately.
func embedWithRetry(ctx context.Context, embedder Embedder, text string) ([]float32, error) {
	for attempt := 1; ; attempt++ {
		vec, err := embedder.Embed(ctx, text)
		if err == nil {
			return vec, nil
		}

		var derr *domainerrors.Error
		if attempt >= maxAttempts || !errors.As(err, &derr) || !derr.Retryable() {
			return nil, err
		}

		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
