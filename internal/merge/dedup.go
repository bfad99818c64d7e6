package merge

import (
	"github.com/izachstanford/smart-books-ai/internal/domain"
	"github.com/izachstanford/smart-books-ai/internal/normalize"
)

// DedupStats summarizes one deduplication run.
type DedupStats struct {
	Input         int      `json:"input"`
	RemovedByKey  int      `json:"removed_by_key"`
	RemovedByPair int      `json:"removed_by_pair"`
	Output        int      `json:"output"`
	RemovedTitles []string `json:"removed_titles,omitempty"`
}

// Dedupe collapses records denoting the same real-world book.
//
// Pass 1 enforces set semantics on book_key: the first record wins, and
// because Match orders primary records before corpus records, a primary
// record always survives a key collision.
//
// Pass 2 applies the stronger dedup normalization: any is_read=false
// record whose dedup-normalized (title, author) pair also belongs to an
// is_read=true record is removed. This catches corpus duplicates of
// owned books hiding behind series annotations or illustrator credits.
// A read record is never removed by either pass.
func Dedupe(records []*domain.BookRecord) ([]*domain.BookRecord, DedupStats) {
	stats := DedupStats{Input: len(records)}

	// Pass 1: exact book_key, keep first.
	seen := make(map[string]bool, len(records))
	byKey := make([]*domain.BookRecord, 0, len(records))
	for _, rec := range records {
		if seen[rec.BookKey] {
			stats.RemovedByKey++
			continue
		}
		seen[rec.BookKey] = true
		byKey = append(byKey, rec)
	}

	// Pass 2: dedup-normalized (title, author) pairs of read records.
	type pair struct{ title, author string }
	dedupPair := func(rec *domain.BookRecord) pair {
		return pair{
			title:  normalize.TitleForDedup(rec.Title),
			author: normalize.AuthorForDedup(rec.Author),
		}
	}

	readPairs := make(map[pair]bool)
	for _, rec := range byKey {
		if rec.IsRead {
			readPairs[dedupPair(rec)] = true
		}
	}

	out := make([]*domain.BookRecord, 0, len(byKey))
	for _, rec := range byKey {
		if !rec.IsRead && readPairs[dedupPair(rec)] {
			stats.RemovedByPair++
			stats.RemovedTitles = append(stats.RemovedTitles, rec.Title)
			continue
		}
		out = append(out, rec)
	}

	stats.Output = len(out)
	return out, stats
}
