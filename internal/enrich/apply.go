package enrich

import (
	"strings"

	"github.com/izachstanford/smart-books-ai/internal/domain"
	"github.com/izachstanford/smart-books-ai/internal/quality"
)

// ApplyStats counts the fields Apply changed.
type ApplyStats struct {
	Descriptions int `json:"descriptions"`
	Covers       int `json:"covers"`
	Genres       int `json:"genres"`
	Errors       int `json:"errors"`
}

// Apply merges enrichment results back onto records, keyed by book_key.
// The merge is null-only: a description is applied only when the
// existing one is missing or too short AND the new one meets the
// minimum; covers and genres only fill empty fields. Existing data is
// never overwritten. Provenance fields record where each value came
// from.
func Apply(records []*domain.BookRecord, results map[string]Result) ApplyStats {
	var stats ApplyStats

	for _, rec := range records {
		res, ok := results[rec.BookKey]
		if !ok {
			continue
		}

		if res.Error != "" {
			rec.EnrichError = res.Error
			stats.Errors++
			continue
		}

		existing := strings.TrimSpace(rec.DescriptionRaw)
		if len(existing) < quality.MinDescriptionLen &&
			len(strings.TrimSpace(res.Description)) >= quality.MinDescriptionLen {
			rec.DescriptionRaw = res.Description
			rec.DescriptionSource = res.DescriptionSource
			stats.Descriptions++
		}

		if rec.CoverURL == "" && res.CoverURL != "" {
			rec.CoverURL = res.CoverURL
			rec.CoverSource = res.CoverSource
			stats.Covers++
		}

		if genres := res.Genres(); len(rec.Genres) == 0 && len(genres) > 0 {
			rec.Genres = append([]string(nil), genres...)
			stats.Genres++
		}
	}

	return stats
}
