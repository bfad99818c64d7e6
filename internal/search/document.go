// Package search maintains the Bleve vector index over book records,
// serving nearest-neighbor queries for recommendations.
package search

import (
	"github.com/izachstanford/smart-books-ai/internal/domain"
)

// Shelf values stored on every document.
const (
	ShelfRead   = "read"
	ShelfUnread = "unread"
)

// BookDocument is the document structure for the Bleve index.
//
// Design note: the index carries enough denormalized metadata to answer
// a recommendation query without a second lookup against the dataset
// files. The trade-off is storage for query convenience.
type BookDocument struct {
	BookKey string `json:"book_key"`
	Title   string `json:"title"`
	Author  string `json:"author"`
	ISBN    string `json:"isbn"`

	Shelf        string   `json:"shelf"`
	MyRating     int      `json:"my_rating"`
	AvgRating    float64  `json:"avg_rating"`
	Popularity   int64    `json:"popularity"`
	PublishYear  int      `json:"publish_year"`
	Description  string   `json:"description"`
	Genres       []string `json:"genres"`
	GenrePrimary string   `json:"genre_primary"`
	CoverURL     string   `json:"cover_url"`

	Embedding []float32 `json:"embedding"`
}

// ToMap converts the document to a map with lowercase field names
// matching the index mapping. Every optional field is coerced to a
// scalar default so the index never sees a null.
func (d *BookDocument) ToMap() map[string]interface{} {
	genres := d.Genres
	if genres == nil {
		genres = []string{}
	}

	m := map[string]interface{}{
		"book_key":      d.BookKey,
		"title":         d.Title,
		"author":        d.Author,
		"isbn":          d.ISBN,
		"shelf":         d.Shelf,
		"my_rating":     d.MyRating,
		"avg_rating":    d.AvgRating,
		"popularity":    d.Popularity,
		"publish_year":  d.PublishYear,
		"description":   d.Description,
		"genres":        genres,
		"genre_primary": d.GenrePrimary,
		"cover_url":     d.CoverURL,
	}

	if len(d.Embedding) > 0 {
		m["embedding"] = d.Embedding
	}

	return m
}

// FromRecord converts a pipeline record to an index document.
func FromRecord(rec *domain.BookRecord) *BookDocument {
	return &BookDocument{
		BookKey:      rec.BookKey,
		Title:        rec.Title,
		Author:       rec.Author,
		ISBN:         rec.ISBN13,
		Shelf:        rec.Shelf(),
		MyRating:     rec.MyRating,
		AvgRating:    rec.AvgRating,
		Popularity:   rec.PopularityScore,
		PublishYear:  rec.PublishYear,
		Description:  rec.DescriptionClean,
		Genres:       rec.Genres,
		GenrePrimary: rec.GenrePrimary,
		CoverURL:     rec.CoverURL,
		Embedding:    rec.Embedding,
	}
}
