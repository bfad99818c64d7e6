// Package quality decides which records still need external metadata
// and builds the enrichment queue.
package quality

import (
	"github.com/izachstanford/smart-books-ai/internal/domain"
	"github.com/izachstanford/smart-books-ai/internal/normalize"
)

// MinDescriptionLen is the shortest cleaned description considered
// usable. Anything shorter reads like a tagline and queues the book for
// enrichment.
const MinDescriptionLen = 80

// NeedsDescription reports whether a record's cleaned description is
// missing or too short to be useful.
func NeedsDescription(rec *domain.BookRecord) bool {
	desc := rec.DescriptionClean
	if desc == "" {
		desc = normalize.Description(rec.DescriptionRaw)
	}
	return len(desc) < MinDescriptionLen
}

// NeedsCover reports whether a record has no cover image URL.
func NeedsCover(rec *domain.BookRecord) bool {
	return rec.CoverURL == ""
}

// BuildQueue returns a queue entry for every record failing either
// quality check. Records passing both checks are omitted.
func BuildQueue(records []*domain.BookRecord) []domain.QueueEntry {
	queue := make([]domain.QueueEntry, 0)
	for _, rec := range records {
		needsDesc := NeedsDescription(rec)
		needsCover := NeedsCover(rec)
		if !needsDesc && !needsCover {
			continue
		}
		queue = append(queue, domain.QueueEntry{
			BookKey:          rec.BookKey,
			Title:            rec.Title,
			Author:           rec.Author,
			ISBN:             rec.ISBN13,
			IsRead:           rec.IsRead,
			Source:           rec.Source,
			NeedsDescription: needsDesc,
			NeedsCover:       needsCover,
		})
	}
	return queue
}
