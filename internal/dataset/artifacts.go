package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/izachstanford/smart-books-ai/internal/domain"
	domainerrors "github.com/izachstanford/smart-books-ai/internal/errors"
)

// Default artifact file names under the data directory.
const (
	RecordsFile   = "book_records.json"
	QueueFile     = "enrichment_queue.json"
	GalaxyFile    = "galaxy_coordinates.json"
	AnalyticsFile = "analytics_data.json"
)

// LoadRecords reads the canonical record set artifact.
func LoadRecords(path string) ([]domain.BookRecord, error) {
	var records []domain.BookRecord
	if err := readJSON(path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SaveRecords writes the canonical record set artifact.
func SaveRecords(path string, records []domain.BookRecord) error {
	return writeJSON(path, records)
}

// LoadQueue reads the enrichment queue artifact.
func LoadQueue(path string) ([]domain.QueueEntry, error) {
	var queue []domain.QueueEntry
	if err := readJSON(path, &queue); err != nil {
		return nil, err
	}
	return queue, nil
}

// SaveQueue writes the enrichment queue artifact.
func SaveQueue(path string, queue []domain.QueueEntry) error {
	return writeJSON(path, queue)
}

// LoadPoints reads the galaxy coordinates artifact.
func LoadPoints(path string) ([]domain.GalaxyPoint, error) {
	var points []domain.GalaxyPoint
	if err := readJSON(path, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// SavePoints writes the galaxy coordinates artifact.
func SavePoints(path string, points []domain.GalaxyPoint) error {
	return writeJSON(path, points)
}

// SaveAnalytics writes the precomputed analytics artifact.
func SaveAnalytics(path string, a domain.Analytics) error {
	return writeJSON(path, a)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return domainerrors.Wrapf(err, domainerrors.CodeArtifact, "read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return domainerrors.Wrapf(err, domainerrors.CodeArtifact, "parse %s", path)
	}
	return nil
}

// writeJSON writes v atomically: the payload lands in a sibling temp
// file first and is renamed over the target, so a crash mid-write never
// leaves a truncated artifact.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeArtifact, "create artifact dir")
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return domainerrors.Wrapf(err, domainerrors.CodeArtifact, "encode %s", path)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return domainerrors.Wrapf(err, domainerrors.CodeArtifact, "write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return domainerrors.Wrapf(err, domainerrors.CodeArtifact, "replace %s", path)
	}
	return nil
}
