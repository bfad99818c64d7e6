// Package dataset reads the source collections and reads/writes the
// pipeline's JSON artifacts.
package dataset

import (
	"encoding/csv"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/izachstanford/smart-books-ai/internal/bookkey"
	"github.com/izachstanford/smart-books-ai/internal/domain"
	domainerrors "github.com/izachstanford/smart-books-ai/internal/errors"
	"github.com/izachstanford/smart-books-ai/internal/normalize"
)

// ReadStats counts what happened while reading one source collection.
type ReadStats struct {
	Rows         int `json:"rows"`
	Kept         int `json:"kept"`
	SkippedShelf int `json:"skipped_shelf,omitempty"`
	SkippedEmpty int `json:"skipped_empty"`
	BadFields    int `json:"bad_fields"`
}

// goodreads export column names.
const (
	colBookID    = "Book Id"
	colTitle     = "Title"
	colAuthor    = "Author"
	colISBN      = "ISBN"
	colISBN13    = "ISBN13"
	colMyRating  = "My Rating"
	colAvgRating = "Average Rating"
	colPubYear   = "Year Published"
	colOrigYear  = "Original Publication Year"
	colDateRead  = "Date Read"
	colShelf     = "Exclusive Shelf"
)

// ReadGoodreads parses a Goodreads library export. Only the "read"
// shelf survives; the to-read shelf is re-derived from the corpus
// instead. Rows missing a title are dropped, unparseable numeric
// fields are zeroed and counted, never fatal.
func ReadGoodreads(r io.Reader, logger *slog.Logger) ([]*domain.BookRecord, ReadStats, error) {
	var stats ReadStats

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, stats, domainerrors.Wrap(err, domainerrors.CodeSourceData, "read goodreads header")
	}
	cols := columnIndex(header)
	for _, required := range []string{colTitle, colAuthor} {
		if _, ok := cols[required]; !ok {
			return nil, stats, domainerrors.SourceDataf("goodreads export missing column %q", required)
		}
	}

	var records []*domain.BookRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, domainerrors.Wrap(err, domainerrors.CodeSourceData, "read goodreads row")
		}
		stats.Rows++

		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		if shelf := get(colShelf); shelf != "" && shelf != "read" {
			stats.SkippedShelf++
			continue
		}
		title := get(colTitle)
		if title == "" {
			stats.SkippedEmpty++
			continue
		}

		author := get(colAuthor)
		isbn13 := normalize.ISBN(get(colISBN13))
		isbn10 := normalize.ISBN(get(colISBN))
		sourceID := get(colBookID)

		rec := &domain.BookRecord{
			BookKey:      bookkey.Generate(isbn13, title, author, sourceID),
			Title:        title,
			Author:       author,
			TitleNorm:    normalize.Text(title),
			AuthorNorm:   normalize.Text(normalize.Author(author)),
			ISBN13:       isbn13,
			ISBN10:       isbn10,
			IsRead:       true,
			MyRating:     parseInt(get(colMyRating), &stats),
			AvgRating:    parseFloat(get(colAvgRating), &stats),
			DateRead:     get(colDateRead),
			Source:       domain.SourceGoodreadsExport,
			SourceBookID: sourceID,
		}

		rec.PublishYear = parseInt(get(colPubYear), &stats)
		if rec.PublishYear == 0 {
			rec.PublishYear = parseInt(get(colOrigYear), &stats)
		}

		records = append(records, rec)
		stats.Kept++
	}

	logger.Info("goodreads export read",
		"rows", stats.Rows,
		"kept", stats.Kept,
		"skipped_shelf", stats.SkippedShelf,
		"bad_fields", stats.BadFields)
	return records, stats, nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	return cols
}

func parseInt(raw string, stats *ReadStats) int {
	if raw == "" {
		return 0
	}
	// Exports sometimes carry years as floats ("2003.0").
	raw = strings.TrimSuffix(raw, ".0")
	n, err := strconv.Atoi(raw)
	if err != nil {
		stats.BadFields++
		return 0
	}
	return n
}

func parseFloat(raw string, stats *ReadStats) float64 {
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		stats.BadFields++
		return 0
	}
	return f
}

func parseInt64(raw string, stats *ReadStats) int64 {
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		stats.BadFields++
		return 0
	}
	return n
}
