// Package enrich backfills missing descriptions, genres, and covers
// from external metadata APIs, with a local cache so reruns are cheap.
package enrich

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/izachstanford/smart-books-ai/internal/domain"
	"github.com/izachstanford/smart-books-ai/internal/enrich/googlebooks"
	"github.com/izachstanford/smart-books-ai/internal/enrich/openlibrary"
	"github.com/izachstanford/smart-books-ai/internal/normalize"
	"github.com/izachstanford/smart-books-ai/internal/ratelimit"
)

// Provenance tags recorded on enriched fields.
const (
	SourceGoogleBooks       = "google_books"
	SourceOpenLibrary       = "open_library"
	SourceOpenLibraryCovers = "open_library_covers"
)

// GoogleLookup is the Google Books surface the enricher needs.
type GoogleLookup interface {
	LookupISBN(ctx context.Context, isbn string) (*googlebooks.Volume, error)
}

// OpenLibraryLookup is the Open Library surface the enricher needs.
type OpenLibraryLookup interface {
	LookupISBN(ctx context.Context, isbn string) (*openlibrary.Edition, error)
	ProbeCover(ctx context.Context, isbn string) (string, bool)
}

// Result is the enrichment payload for one ISBN, the unit stored in
// the cache and merged back onto records.
type Result struct {
	ISBN              string    `json:"isbn"`
	Description       string    `json:"description,omitempty"`
	DescriptionSource string    `json:"description_source,omitempty"`
	Categories        []string  `json:"categories,omitempty"`
	Subjects          []string  `json:"subjects,omitempty"`
	CoverURL          string    `json:"cover_image_url,omitempty"`
	CoverSource       string    `json:"cover_source,omitempty"`
	GoogleVolumeID    string    `json:"google_volume_id,omitempty"`
	OpenLibraryKey    string    `json:"openlibrary_key,omitempty"`
	FetchedAt         time.Time `json:"fetched_at"`
	Error             string    `json:"error,omitempty"`
}

// Genres returns the best genre labels the result carries, Google
// categories first, Open Library subjects as fallback.
func (r *Result) Genres() []string {
	if len(r.Categories) > 0 {
		return r.Categories
	}
	return r.Subjects
}

// Stats summarizes one enrichment run.
type Stats struct {
	Queued        int `json:"queued"`
	SkippedNoISBN int `json:"skipped_no_isbn"`
	CacheHits     int `json:"cache_hits"`
	Fetched       int `json:"fetched"`
	Errors        int `json:"errors"`
}

// Enricher runs the enrichment queue against the external APIs.
type Enricher struct {
	google  GoogleLookup
	openlib OpenLibraryLookup
	cache   *Cache
	pace    *ratelimit.Keyed
	logger  *slog.Logger
}

// New creates an Enricher. Calls to each provider are paced
// independently, on top of each client's own rate limiter, defaulting
// to 350ms between calls.
func New(google GoogleLookup, openlib OpenLibraryLookup, cache *Cache, logger *slog.Logger) *Enricher {
	return &Enricher{
		google:  google,
		openlib: openlib,
		cache:   cache,
		pace:    ratelimit.NewInterval(350*time.Millisecond, 1),
		logger:  logger,
	}
}

// SetDelay overrides the per-provider call spacing. Zero disables
// pacing, mainly for tests.
func (e *Enricher) SetDelay(d time.Duration) {
	e.pace = ratelimit.NewInterval(d, 1)
}

// Run enriches every queue entry with a usable ISBN, keyed by book_key
// in the returned map. Lookup failures become per-record error
// payloads; only context cancellation aborts the batch.
func (e *Enricher) Run(ctx context.Context, queue []domain.QueueEntry) (map[string]Result, Stats, error) {
	stats := Stats{Queued: len(queue)}
	results := make(map[string]Result, len(queue))

	for _, entry := range queue {
		isbn := normalize.ISBN(entry.ISBN)
		if isbn == "" {
			stats.SkippedNoISBN++
			continue
		}

		if cached, ok := e.cache.Get(isbn); ok {
			stats.CacheHits++
			results[entry.BookKey] = cached
			continue
		}

		res := e.enrichOne(ctx, isbn)
		if err := ctx.Err(); err != nil {
			return results, stats, err
		}

		if res.Error != "" {
			stats.Errors++
			e.logger.Warn("enrichment failed",
				"book_key", entry.BookKey,
				"isbn", isbn,
				"error", res.Error,
			)
		} else {
			stats.Fetched++
		}

		results[entry.BookKey] = res
		e.cache.Put(isbn, res)
		if err := e.cache.Save(); err != nil {
			e.logger.Warn("cache save failed", "error", err)
		}
	}

	return results, stats, nil
}

// enrichOne queries both APIs for one ISBN and assembles the result.
// A source returning ErrNotFound simply contributes nothing; both
// sources failing hard is recorded as the result's error. Each provider
// is paced under its own key so the calls interleave cleanly.
func (e *Enricher) enrichOne(ctx context.Context, isbn string) Result {
	res := Result{ISBN: isbn, FetchedAt: time.Now().UTC()}

	var failures []error

	if err := e.pace.Wait(ctx, SourceGoogleBooks); err != nil {
		return res
	}
	vol, err := e.google.LookupISBN(ctx, isbn)
	if err != nil && !errors.Is(err, googlebooks.ErrNotFound) {
		failures = append(failures, err)
	}

	if err := e.pace.Wait(ctx, SourceOpenLibrary); err != nil {
		return res
	}
	ed, err := e.openlib.LookupISBN(ctx, isbn)
	if err != nil && !errors.Is(err, openlibrary.ErrNotFound) {
		failures = append(failures, err)
	}

	if vol != nil {
		res.GoogleVolumeID = vol.ID
		res.Categories = vol.Categories
	}
	if ed != nil {
		res.OpenLibraryKey = ed.Key
		res.Subjects = ed.Subjects
	}

	// Description: Google first, Open Library fallback.
	switch {
	case vol != nil && vol.Description != "":
		res.Description = vol.Description
		res.DescriptionSource = SourceGoogleBooks
	case ed != nil && ed.Description != "":
		res.Description = ed.Description
		res.DescriptionSource = SourceOpenLibrary
	}

	// Cover: the Open Library covers service when it has one, Google
	// thumbnail otherwise. The probe shares the Open Library budget.
	if err := e.pace.Wait(ctx, SourceOpenLibrary); err != nil {
		return res
	}
	if coverURL, ok := e.openlib.ProbeCover(ctx, isbn); ok {
		res.CoverURL = coverURL
		res.CoverSource = SourceOpenLibraryCovers
	} else if vol != nil && vol.CoverURL() != "" {
		res.CoverURL = vol.CoverURL()
		res.CoverSource = SourceGoogleBooks
	}

	if vol == nil && ed == nil && len(failures) > 0 {
		res.Error = errors.Join(failures...).Error()
	}

	return res
}
