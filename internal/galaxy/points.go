package galaxy

import (
	"fmt"
	"log/slog"

	"github.com/izachstanford/smart-books-ai/internal/color"
	"github.com/izachstanford/smart-books-ai/internal/domain"
)

// maxPointGenres caps the genre list carried per point. The galaxy view
// only renders a handful of tags.
const maxPointGenres = 3

// BuildPoints projects every embedded record into 3D and 2D space and
// assembles the galaxy artifact. Records without embeddings are left
// out. When fewer than MinVectors records carry embeddings the result
// is empty and no error is returned.
func BuildPoints(records []domain.BookRecord, logger *slog.Logger) ([]domain.GalaxyPoint, error) {
	embedded := make([]domain.BookRecord, 0, len(records))
	vectors := make([][]float32, 0, len(records))
	for _, rec := range records {
		if !rec.HasEmbedding() {
			continue
		}
		embedded = append(embedded, rec)
		vectors = append(vectors, rec.Embedding)
	}

	if len(vectors) < MinVectors {
		logger.Warn("too few embedded books for galaxy projection",
			"embedded", len(vectors),
			"minimum", MinVectors)
		return nil, nil
	}

	coords3, err := Reduce(vectors, 3)
	if err != nil {
		return nil, fmt.Errorf("3d projection: %w", err)
	}
	coords2, err := Reduce(vectors, 2)
	if err != nil {
		return nil, fmt.Errorf("2d projection: %w", err)
	}

	points := make([]domain.GalaxyPoint, len(embedded))
	for i, rec := range embedded {
		genres := rec.Genres
		if len(genres) > maxPointGenres {
			genres = genres[:maxPointGenres]
		}
		points[i] = domain.GalaxyPoint{
			BookKey:      rec.BookKey,
			Title:        rec.Title,
			Author:       rec.Author,
			MyRating:     rec.MyRating,
			AvgRating:    rec.AvgRating,
			Shelf:        rec.Shelf(),
			IsRead:       rec.IsRead,
			DateRead:     rec.DateRead,
			CoverURL:     rec.CoverURL,
			Genres:       genres,
			GenrePrimary: rec.GenrePrimary,
			Color:        color.ForGenre(rec.GenrePrimary),
			Popularity:   rec.PopularityScore,
			X:            coords3[i][0],
			Y:            coords3[i][1],
			Z:            coords3[i][2],
			X2D:          coords2[i][0],
			Y2D:          coords2[i][1],
		}
	}

	logger.Info("galaxy points built", "points", len(points))
	return points, nil
}
