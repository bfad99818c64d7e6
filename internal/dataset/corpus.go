package dataset

import (
	"encoding/csv"
	"io"
	"log/slog"
	"strings"

	"github.com/izachstanford/smart-books-ai/internal/bookkey"
	"github.com/izachstanford/smart-books-ai/internal/domain"
	domainerrors "github.com/izachstanford/smart-books-ai/internal/errors"
	"github.com/izachstanford/smart-books-ai/internal/merge"
	"github.com/izachstanford/smart-books-ai/internal/normalize"
)

// best-books corpus column names.
const (
	corpusColBookID      = "bookId"
	corpusColTitle       = "title"
	corpusColAuthor      = "author"
	corpusColISBN        = "isbn"
	corpusColLanguage    = "language"
	corpusColDescription = "description"
	corpusColGenres      = "genres"
	corpusColRating      = "rating"
	corpusColNumRatings  = "numRatings"
	corpusColCoverImg    = "coverImg"
	corpusColPublishDate = "publishDate"
)

// ReadCorpus parses the best-books corpus export. Every row becomes a
// candidate unread record; quality filtering and the popularity cap
// happen later in merge.Match, not here. The number of ratings doubles
// as the popularity score.
func ReadCorpus(r io.Reader, logger *slog.Logger) ([]merge.CorpusRecord, ReadStats, error) {
	var stats ReadStats

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, stats, domainerrors.Wrap(err, domainerrors.CodeSourceData, "read corpus header")
	}
	cols := columnIndex(header)
	for _, required := range []string{corpusColTitle, corpusColAuthor} {
		if _, ok := cols[required]; !ok {
			return nil, stats, domainerrors.SourceDataf("corpus missing column %q", required)
		}
	}

	var records []merge.CorpusRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, domainerrors.Wrap(err, domainerrors.CodeSourceData, "read corpus row")
		}
		stats.Rows++

		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		title := get(corpusColTitle)
		if title == "" {
			stats.SkippedEmpty++
			continue
		}

		author := get(corpusColAuthor)
		isbn := normalize.ISBN(get(corpusColISBN))
		numRatings := parseInt64(get(corpusColNumRatings), &stats)

		rec := &domain.BookRecord{
			BookKey:         bookkey.Generate(isbn, title, author, ""),
			Title:           title,
			Author:          author,
			TitleNorm:       normalize.Text(title),
			AuthorNorm:      normalize.Text(normalize.Author(author)),
			ISBN13:          isbn,
			PublishYear:     publishYear(get(corpusColPublishDate)),
			DescriptionRaw:  get(corpusColDescription),
			Genres:          parseGenreList(get(corpusColGenres)),
			CoverURL:        get(corpusColCoverImg),
			AvgRating:       parseFloat(get(corpusColRating), &stats),
			NumRatings:      numRatings,
			PopularityScore: numRatings,
			Source:          domain.SourceBestBooksCorpus,
			SourceBookID:    get(corpusColBookID),
		}

		records = append(records, merge.CorpusRecord{
			Record:   rec,
			Language: get(corpusColLanguage),
		})
		stats.Kept++
	}

	logger.Info("corpus read",
		"rows", stats.Rows,
		"kept", stats.Kept,
		"bad_fields", stats.BadFields)
	return records, stats, nil
}

// parseGenreList parses the corpus genres cell, a Python-style list
// literal like ['Fiction', 'Fantasy']. Values are taken from the quoted
// segments; a cell without quotes falls back to comma splitting.
func parseGenreList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "[]" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var genres []string
		for i := 0; i < len(raw); {
			quote := raw[i]
			if quote != '\'' && quote != '"' {
				i++
				continue
			}
			end := strings.IndexByte(raw[i+1:], quote)
			if end < 0 {
				break
			}
			if g := strings.TrimSpace(raw[i+1 : i+1+end]); g != "" {
				genres = append(genres, g)
			}
			i += end + 2
		}
		return genres
	}

	var genres []string
	for _, g := range strings.Split(raw, ",") {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}

// publishYear extracts a four-digit year from the corpus publish date,
// which appears in assorted layouts ("09/01/03", "June 1st 2003",
// "2003"). The first plausible four-digit run wins.
func publishYear(raw string) int {
	for i := 0; i+4 <= len(raw); i++ {
		if !isDigit(raw[i]) {
			continue
		}
		j := i
		for j < len(raw) && isDigit(raw[j]) {
			j++
		}
		if j-i == 4 {
			year := int(raw[i]-'0')*1000 + int(raw[i+1]-'0')*100 + int(raw[i+2]-'0')*10 + int(raw[i+3]-'0')
			if year >= 1000 && year <= 2100 {
				return year
			}
		}
		i = j
	}
	return 0
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
