// Package merge joins the personal reading history with the bulk book
// corpus into one canonical record set. Matching runs in descending
// precision order: exact ISBN first, normalized title+author as the
// fallback. Backfill is strictly null-only - a populated field on a
// primary record is never overwritten by corpus data.
package merge

import (
	"sort"
	"strings"

	"github.com/izachstanford/smart-books-ai/internal/domain"
)

// MatchOptions tunes the matcher.
type MatchOptions struct {
	// MinRatings is the quality floor for corpus records promoted into
	// the canonical set as unread books.
	MinRatings int64
	// MaxCorpusBooks caps how many unmatched corpus records are kept,
	// chosen by descending popularity.
	MaxCorpusBooks int
	// EnglishOnly keeps only corpus records whose language is English
	// or unknown.
	EnglishOnly bool
}

// DefaultMatchOptions mirrors the thresholds the corpus was curated with.
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{
		MinRatings:     1000,
		MaxCorpusBooks: 10000,
		EnglishOnly:    true,
	}
}

// MatchStats summarizes one matcher run.
type MatchStats struct {
	PrimaryRecords    int `json:"primary_records"`
	CorpusRecords     int `json:"corpus_records"`
	CorpusAfterFilter int `json:"corpus_after_filter"`
	BackfilledISBN    int `json:"backfilled_isbn"`
	BackfilledTitle   int `json:"backfilled_title"`
	NewCorpusBooks    int `json:"new_corpus_books"`
}

// CorpusRecord pairs a corpus record with its source language, which is
// filter-only metadata and never lands on the canonical record.
type CorpusRecord struct {
	Record   *domain.BookRecord
	Language string
}

// Match merges the primary (personal, authoritative) collection with the
// corpus. Primary records are backfilled in two passes; unmatched corpus
// rows above the quality floor become new unread records, capped by
// descending popularity. The returned slice orders primary records
// before corpus records, which is the tie-break convention Dedupe
// relies on.
func Match(primary []*domain.BookRecord, corpus []CorpusRecord, opts MatchOptions) ([]*domain.BookRecord, MatchStats) {
	stats := MatchStats{
		PrimaryRecords: len(primary),
		CorpusRecords:  len(corpus),
	}

	filtered := filterCorpus(corpus, opts)
	stats.CorpusAfterFilter = len(filtered)

	// Most popular first: collisions on any lookup key resolve to the
	// most-rated corpus row.
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].PopularityScore > filtered[j].PopularityScore
	})

	byISBN := make(map[string]*domain.BookRecord)
	type titleAuthor struct{ title, author string }
	byTitleAuthor := make(map[titleAuthor]*domain.BookRecord)
	for _, rec := range filtered {
		if rec.HasISBN() {
			if _, ok := byISBN[rec.ISBN13]; !ok {
				byISBN[rec.ISBN13] = rec
			}
		}
		ta := titleAuthor{rec.TitleNorm, rec.AuthorNorm}
		if _, ok := byTitleAuthor[ta]; !ok {
			byTitleAuthor[ta] = rec
		}
	}

	matched := make(map[*domain.BookRecord]bool)

	// Pass 1: ISBN, the high-precision key.
	for _, p := range primary {
		if !p.HasISBN() {
			continue
		}
		if c, ok := byISBN[p.ISBN13]; ok {
			if backfill(p, c) {
				stats.BackfilledISBN++
			}
			matched[c] = true
		}
	}

	// Pass 2: normalized title+author, only for records still missing
	// metadata after pass 1.
	for _, p := range primary {
		if !needsMetadata(p) {
			continue
		}
		if c, ok := byTitleAuthor[titleAuthor{p.TitleNorm, p.AuthorNorm}]; ok {
			if backfill(p, c) {
				stats.BackfilledTitle++
			}
			matched[c] = true
		}
	}

	// Unmatched corpus rows become new unread records. The lookup keys
	// of the primary set decide membership, so a corpus row matching a
	// primary record through either key never duplicates it.
	primaryISBNs := make(map[string]bool)
	primaryTitleAuthors := make(map[titleAuthor]bool)
	for _, p := range primary {
		if p.HasISBN() {
			primaryISBNs[p.ISBN13] = true
		}
		primaryTitleAuthors[titleAuthor{p.TitleNorm, p.AuthorNorm}] = true
	}

	out := make([]*domain.BookRecord, 0, len(primary)+len(filtered))
	out = append(out, primary...)

	kept := 0
	for _, c := range filtered {
		if opts.MaxCorpusBooks > 0 && kept >= opts.MaxCorpusBooks {
			break
		}
		if matched[c] {
			continue
		}
		if c.HasISBN() && primaryISBNs[c.ISBN13] {
			continue
		}
		if primaryTitleAuthors[titleAuthor{c.TitleNorm, c.AuthorNorm}] {
			continue
		}
		c.IsRead = false
		out = append(out, c)
		kept++
	}
	stats.NewCorpusBooks = kept

	return out, stats
}

// filterCorpus applies the language and quality floors.
func filterCorpus(corpus []CorpusRecord, opts MatchOptions) []*domain.BookRecord {
	filtered := make([]*domain.BookRecord, 0, len(corpus))
	for _, row := range corpus {
		if opts.EnglishOnly && !isEnglishOrUnknown(row.Language) {
			continue
		}
		if row.Record.NumRatings < opts.MinRatings {
			continue
		}
		filtered = append(filtered, row.Record)
	}
	return filtered
}

func isEnglishOrUnknown(language string) bool {
	if language == "" {
		return true
	}
	return strings.Contains(strings.ToLower(language), "english")
}

// needsMetadata reports whether a record is still missing any of the
// fields the corpus can supply.
func needsMetadata(rec *domain.BookRecord) bool {
	return rec.DescriptionRaw == "" || rec.CoverURL == "" || len(rec.Genres) == 0
}

// backfill copies corpus metadata onto a primary record, field by field,
// only where the destination is empty. Returns true when at least one
// field changed.
func backfill(dst, src *domain.BookRecord) bool {
	changed := false
	if dst.DescriptionRaw == "" && src.DescriptionRaw != "" {
		dst.DescriptionRaw = src.DescriptionRaw
		changed = true
	}
	if len(dst.Genres) == 0 && len(src.Genres) > 0 {
		dst.Genres = append([]string(nil), src.Genres...)
		changed = true
	}
	if dst.CoverURL == "" && src.CoverURL != "" {
		dst.CoverURL = src.CoverURL
		changed = true
	}
	if dst.AvgRating == 0 && src.AvgRating != 0 {
		dst.AvgRating = src.AvgRating
		changed = true
	}
	if dst.NumRatings == 0 && src.NumRatings != 0 {
		dst.NumRatings = src.NumRatings
		changed = true
	}
	if dst.PopularityScore == 0 && src.PopularityScore != 0 {
		dst.PopularityScore = src.PopularityScore
		changed = true
	}
	if dst.PublishYear == 0 && src.PublishYear != 0 {
		dst.PublishYear = src.PublishYear
		changed = true
	}
	return changed
}
