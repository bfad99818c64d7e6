package enrich

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/izachstanford/smart-books-ai/internal/domain"
)

func TestApply(t *testing.T) {
	longDesc := strings.Repeat("An excellent description. ", 5)

	records := []*domain.BookRecord{
		{BookKey: "isbn:1", DescriptionRaw: "too short"},
		{BookKey: "isbn:2", DescriptionRaw: longDesc, CoverURL: "https://mine/2.jpg"},
		{BookKey: "isbn:3"},
		{BookKey: "isbn:4", Genres: []string{"Existing"}},
	}

	results := map[string]Result{
		"isbn:1": {
			Description:       longDesc,
			DescriptionSource: SourceGoogleBooks,
			CoverURL:          "https://covers/1.jpg",
			CoverSource:       SourceOpenLibraryCovers,
		},
		"isbn:2": {
			Description:       "replacement that must not be applied " + longDesc,
			DescriptionSource: SourceOpenLibrary,
			CoverURL:          "https://covers/2.jpg",
		},
		"isbn:3": {Error: "status 500"},
		"isbn:4": {Categories: []string{"Fiction"}},
	}

	stats := Apply(records, results)

	assert.Equal(t, 1, stats.Descriptions)
	assert.Equal(t, 1, stats.Covers)
	assert.Equal(t, 0, stats.Genres)
	assert.Equal(t, 1, stats.Errors)

	// Filled where missing, with provenance.
	assert.Equal(t, longDesc, records[0].DescriptionRaw)
	assert.Equal(t, SourceGoogleBooks, records[0].DescriptionSource)
	assert.Equal(t, "https://covers/1.jpg", records[0].CoverURL)
	assert.Equal(t, SourceOpenLibraryCovers, records[0].CoverSource)

	// Never overwritten.
	assert.Equal(t, longDesc, records[1].DescriptionRaw)
	assert.Empty(t, records[1].DescriptionSource)
	assert.Equal(t, "https://mine/2.jpg", records[1].CoverURL)

	// Error payload recorded, nothing else touched.
	assert.Equal(t, "status 500", records[2].EnrichError)
	assert.Empty(t, records[2].DescriptionRaw)

	// Existing genres kept.
	assert.Equal(t, []string{"Existing"}, records[3].Genres)
}

func TestApply_ShortEnrichmentRejected(t *testing.T) {
	records := []*domain.BookRecord{{BookKey: "isbn:1"}}
	stats := Apply(records, map[string]Result{
		"isbn:1": {Description: "still too short", DescriptionSource: SourceGoogleBooks},
	})

	assert.Equal(t, 0, stats.Descriptions)
	assert.Empty(t, records[0].DescriptionRaw)
}

func TestApply_NoResultForRecord(t *testing.T) {
	records := []*domain.BookRecord{{BookKey: "isbn:1", Title: "Untouched"}}
	stats := Apply(records, map[string]Result{})

	assert.Equal(t, ApplyStats{}, stats)
	assert.Empty(t, records[0].DescriptionRaw)
}
