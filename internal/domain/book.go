// Package domain contains the core entities of the book recommendation pipeline.
package domain

import "strings"

// Source tags identify which origin collection produced a record.
const (
	SourceGoodreadsExport = "goodreads_export"
	SourceBestBooksCorpus = "best_books_corpus"
)

// BookRecord is the canonical book entity shared by every pipeline stage.
//
// Identity: BookKey is generated once by bookkey.Generate and never
// recomputed for the same logical book. Exactly one record per BookKey
// exists in the canonical set after merge.Dedupe.
//
// TitleNorm/AuthorNorm are derived matching forms and must never be
// displayed. All enrichable fields are independently optional; consumers
// that cannot tolerate absence (the vector index in particular) coerce
// them to scalar defaults at the boundary.
type BookRecord struct {
	BookKey string `json:"book_key"`

	Title  string `json:"title"`
	Author string `json:"author"`

	// Normalized matching forms, never displayed.
	TitleNorm  string `json:"title_norm,omitempty"`
	AuthorNorm string `json:"author_norm,omitempty"`

	ISBN13 string `json:"isbn13,omitempty"`
	ISBN10 string `json:"isbn10,omitempty"`

	IsRead bool `json:"is_read"`

	PublishYear int `json:"publish_year,omitempty"`

	DescriptionRaw   string `json:"description_raw,omitempty"`
	DescriptionClean string `json:"description_clean,omitempty"`
	// DescriptionSource records which enrichment API supplied the
	// description, empty when it came from a source collection.
	DescriptionSource string `json:"description_source,omitempty"`

	Genres       []string `json:"genres,omitempty"`
	GenrePrimary string   `json:"genre_primary,omitempty"`

	CoverURL    string `json:"cover_url,omitempty"`
	CoverSource string `json:"cover_source,omitempty"`

	AvgRating       float64 `json:"avg_rating,omitempty"`
	NumRatings      int64   `json:"num_ratings,omitempty"`
	PopularityScore int64   `json:"popularity_score,omitempty"`

	// Only meaningful when IsRead is true.
	MyRating int    `json:"my_rating,omitempty"` // 1-5, 0 = unrated
	DateRead string `json:"date_read,omitempty"` // YYYY/MM/DD or YYYY-MM-DD

	Source       string `json:"source"`
	SourceBookID string `json:"source_book_id,omitempty"`

	// Embedding is absent until cmd/embed computes it. Records whose
	// embedding text falls below the minimum length never receive one.
	EmbeddingText string    `json:"embedding_text,omitempty"`
	Embedding     []float32 `json:"embedding,omitempty"`

	// EnrichError holds the error payload of a failed external call for
	// this record. The record proceeds without the enriched field.
	EnrichError string `json:"enrich_error,omitempty"`
}

// HasISBN reports whether the record carries a usable ISBN13.
func (b *BookRecord) HasISBN() bool {
	return b.ISBN13 != ""
}

// HasDescription reports whether the cleaned description is non-empty.
func (b *BookRecord) HasDescription() bool {
	return strings.TrimSpace(b.DescriptionClean) != ""
}

// HasEmbedding reports whether an embedding has been computed.
func (b *BookRecord) HasEmbedding() bool {
	return len(b.Embedding) > 0
}

// Shelf returns the display shelf for the record.
func (b *BookRecord) Shelf() string {
	if b.IsRead {
		return "read"
	}
	return "unread"
}
