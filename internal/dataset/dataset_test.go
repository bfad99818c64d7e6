package dataset

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/izachstanford/smart-books-ai/internal/domain"
	domainerrors "github.com/izachstanford/smart-books-ai/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const goodreadsCSV = `Book Id,Title,Author,ISBN,ISBN13,My Rating,Average Rating,Year Published,Original Publication Year,Date Read,Exclusive Shelf
12345,"Harry Potter and the Sorcerer's Stone (Harry Potter, #1)","Rowling, J.K.","=""0439708184""","=""9780439708180""",5,4.47,2003,1997,2015/07/12,read
23456,Abandoned Book,Someone Else,"=""""","=""""",0,3.90,,2001,,to-read
34567,No ISBN Book,"King, Stephen","=""""","=""""",4,4.12,not-a-year,1986,2020/01/05,read
`

func TestReadGoodreads(t *testing.T) {
	records, stats, err := ReadGoodreads(strings.NewReader(goodreadsCSV), testLogger())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Rows)
	assert.Equal(t, 2, stats.Kept)
	assert.Equal(t, 1, stats.SkippedShelf)
	require.Len(t, records, 2)

	hp := records[0]
	assert.Equal(t, "isbn:9780439708180", hp.BookKey)
	assert.Equal(t, "Harry Potter and the Sorcerer's Stone (Harry Potter, #1)", hp.Title)
	assert.Equal(t, "Rowling, J.K.", hp.Author)
	assert.Equal(t, "j.k. rowling", hp.AuthorNorm)
	assert.Equal(t, "9780439708180", hp.ISBN13)
	assert.Equal(t, "0439708184", hp.ISBN10)
	assert.True(t, hp.IsRead)
	assert.Equal(t, 5, hp.MyRating)
	assert.Equal(t, 4.47, hp.AvgRating)
	assert.Equal(t, 2003, hp.PublishYear)
	assert.Equal(t, "2015/07/12", hp.DateRead)
	assert.Equal(t, domain.SourceGoodreadsExport, hp.Source)
	assert.Equal(t, "12345", hp.SourceBookID)

	// No ISBN falls back to the source ID key; the bad year is counted
	// and the original publication year takes over.
	king := records[1]
	assert.Equal(t, "gr:34567", king.BookKey)
	assert.Equal(t, 1986, king.PublishYear)
	assert.Equal(t, 1, stats.BadFields)
}

func TestReadGoodreads_MissingColumn(t *testing.T) {
	_, _, err := ReadGoodreads(strings.NewReader("Book Id,Author\n1,Someone\n"), testLogger())
	assert.ErrorContains(t, err, "Title")
	assert.True(t, errors.Is(err, domainerrors.ErrSourceData))
}

const corpusCSV = `bookId,title,author,isbn,language,rating,numRatings,description,genres,coverImg,publishDate
1.Dune,Dune,Frank Herbert,9780441013593,English,4.25,1000000,A desert planet epic.,"['Science Fiction', 'Classics']",https://img.example/dune.jpg,06/01/65
2.Untitled,,Nobody,,,0,0,,,,"2001"
3.LePetit,Le Petit Prince,Antoine de Saint-Exupery,9780156012195,French,4.32,500000,Un conte poetique.,"['Classics']",,April 6th 1943
`

func TestReadCorpus(t *testing.T) {
	records, stats, err := ReadCorpus(strings.NewReader(corpusCSV), testLogger())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Rows)
	assert.Equal(t, 2, stats.Kept)
	assert.Equal(t, 1, stats.SkippedEmpty)
	require.Len(t, records, 2)

	dune := records[0]
	assert.Equal(t, "English", dune.Language)
	assert.Equal(t, "isbn:9780441013593", dune.Record.BookKey)
	assert.Equal(t, []string{"Science Fiction", "Classics"}, dune.Record.Genres)
	assert.Equal(t, int64(1000000), dune.Record.NumRatings)
	assert.Equal(t, int64(1000000), dune.Record.PopularityScore)
	assert.Equal(t, 4.25, dune.Record.AvgRating)
	assert.Equal(t, "https://img.example/dune.jpg", dune.Record.CoverURL)
	assert.Equal(t, domain.SourceBestBooksCorpus, dune.Record.Source)

	// Language is carried for filtering, not stored on the record.
	petit := records[1]
	assert.Equal(t, "French", petit.Language)
	assert.Equal(t, 1943, petit.Record.PublishYear)
}

func TestParseGenreList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"empty list", "[]", nil},
		{"single quoted", "['Fiction']", []string{"Fiction"}},
		{"double quoted", `["Fiction", "Fantasy"]`, []string{"Fiction", "Fantasy"}},
		{"comma in value", "['Crime, True', 'Mystery']", []string{"Crime, True", "Mystery"}},
		{"bare comma separated", "Fiction, Fantasy", []string{"Fiction", "Fantasy"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseGenreList(tt.raw))
		})
	}
}

func TestPublishYear(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"June 1st 2003", 2003},
		{"2003", 2003},
		{"09/01/03", 0},
		{"", 0},
		{"published 12345 copies", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, publishYear(tt.raw), "raw %q", tt.raw)
	}
}

func TestArtifactRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", RecordsFile)

	want := []domain.BookRecord{
		{BookKey: "isbn:9780441013593", Title: "Dune", IsRead: true, MyRating: 5},
		{BookKey: "gr:1", Title: "Unrated"},
	}
	require.NoError(t, SaveRecords(path, want))

	got, err := LoadRecords(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// The temp file never survives a successful write.
	assert.NoFileExists(t, path+".tmp")
}

func TestLoadRecords_Missing(t *testing.T) {
	_, err := LoadRecords(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrArtifact))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadRecords_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book_records.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadRecords(path)
	assert.True(t, errors.Is(err, domainerrors.ErrArtifact))
}

func TestRunReport(t *testing.T) {
	run := NewRun("build")
	assert.True(t, strings.HasPrefix(run.RunID, "run-"))
	assert.Equal(t, "build", run.Stage)

	report := run.Finish(map[string]int{"records": 7})
	assert.Equal(t, run.RunID, report.RunID)
	assert.False(t, report.FinishedAt.Before(report.StartedAt))

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, SaveReport(path, report))
	assert.FileExists(t, path)
}
