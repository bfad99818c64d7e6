// Package analytics recomputes the precomputed dashboard artifact from
// a complete canonical record set.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/izachstanford/smart-books-ai/internal/domain"
	"github.com/izachstanford/smart-books-ai/internal/genre"
)

const (
	topGenres  = 12
	topAuthors = 10

	// Genres beyond the first few per book dilute the breakdown, so
	// only the leading tags of each record are counted.
	genresPerBook = 3
)

// dateFormats are the accepted date_read layouts, tried in order.
var dateFormats = []string{"2006/01/02", "2006-01-02"}

// Compute derives the full analytics artifact from records. It is a
// pure recomputation, aggregates are never patched from a previous
// artifact. The timestamp stamps summary.generated_at.
func Compute(records []domain.BookRecord, now time.Time) domain.Analytics {
	return domain.Analytics{
		Summary:            computeSummary(records, now),
		ReadingTimeline:    computeTimeline(records),
		GenreBreakdown:     computeGenres(records),
		RatingDistribution: computeRatings(records),
		TopAuthors:         computeAuthors(records),
		ShelfSummary:       computeShelves(records),
	}
}

func computeSummary(records []domain.BookRecord, now time.Time) domain.AnalyticsSummary {
	s := domain.AnalyticsSummary{
		TotalBooks:  len(records),
		GeneratedAt: now.UTC().Format(time.RFC3339),
	}

	var ratingSum, rated int
	for i := range records {
		rec := &records[i]
		if rec.IsRead {
			s.BooksRead++
		} else {
			s.BooksUnread++
		}
		if rec.HasDescription() {
			s.BooksWithDescriptions++
		}
		if rec.MyRating == 5 {
			s.FiveStarBooks++
		}
		if rec.MyRating > 0 {
			ratingSum += rec.MyRating
			rated++
		}
	}

	if rated > 0 {
		s.AverageRating = round(float64(ratingSum)/float64(rated), 2)
	}
	if s.TotalBooks > 0 {
		s.CoveragePercent = round(float64(s.BooksWithDescriptions)/float64(s.TotalBooks)*100, 1)
	}
	return s
}

// computeTimeline buckets read books by the year-month of date_read.
// Records without a parseable date are left out.
func computeTimeline(records []domain.BookRecord) []domain.TimelineBucket {
	counts := map[string]int{}
	for i := range records {
		rec := &records[i]
		if !rec.IsRead || rec.DateRead == "" {
			continue
		}
		if ym, ok := parseYearMonth(rec.DateRead); ok {
			counts[ym]++
		}
	}

	buckets := make([]domain.TimelineBucket, 0, len(counts))
	for ym, n := range counts {
		buckets = append(buckets, domain.TimelineBucket{YearMonth: ym, Count: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].YearMonth < buckets[j].YearMonth
	})
	return buckets
}

func parseYearMonth(raw string) (string, bool) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01"), true
		}
	}
	return "", false
}

// computeGenres counts the leading genres per record. Labels are
// collapsed to canonical slugs first so alias spellings ("Sci-Fi",
// "Science Fiction") land in one bucket.
func computeGenres(records []domain.BookRecord) []domain.GenreCount {
	counts := map[string]int{}
	for i := range records {
		genres := records[i].Genres
		if len(genres) > genresPerBook {
			genres = genres[:genresPerBook]
		}
		for _, g := range genres {
			for _, slug := range genre.NormalizeToSlugs(g) {
				counts[slug]++
			}
		}
	}

	all := make([]domain.GenreCount, 0, len(counts))
	for g, n := range counts {
		all = append(all, domain.GenreCount{Genre: g, Count: n})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return all[i].Genre < all[j].Genre
	})
	if len(all) > topGenres {
		all = all[:topGenres]
	}
	return all
}

// computeRatings counts personally rated books per star value,
// ascending. Unrated books are excluded.
func computeRatings(records []domain.BookRecord) []domain.RatingBucket {
	counts := map[int]int{}
	for i := range records {
		if r := records[i].MyRating; r > 0 {
			counts[r]++
		}
	}

	buckets := make([]domain.RatingBucket, 0, len(counts))
	for r, n := range counts {
		buckets = append(buckets, domain.RatingBucket{Rating: r, Count: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Rating < buckets[j].Rating
	})
	return buckets
}

func computeAuthors(records []domain.BookRecord) []domain.AuthorCount {
	counts := map[string]int{}
	for i := range records {
		rec := &records[i]
		if rec.IsRead && rec.Author != "" {
			counts[rec.Author]++
		}
	}

	all := make([]domain.AuthorCount, 0, len(counts))
	for a, n := range counts {
		all = append(all, domain.AuthorCount{Author: a, Count: n})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return all[i].Author < all[j].Author
	})
	if len(all) > topAuthors {
		all = all[:topAuthors]
	}
	return all
}

// computeShelves always emits both shelves so the counts sum to the
// record total even when a shelf is empty.
func computeShelves(records []domain.BookRecord) []domain.ShelfCount {
	read := domain.ShelfCount{Shelf: "read"}
	unread := domain.ShelfCount{Shelf: "unread"}
	for i := range records {
		if records[i].IsRead {
			read.Count++
		} else {
			unread.Count++
		}
	}
	return []domain.ShelfCount{read, unread}
}

func round(x float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(x*scale) / scale
}
