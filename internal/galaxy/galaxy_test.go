package galaxy

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/izachstanford/smart-books-ai/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// syntheticVectors builds n vectors of dimension d with enough spread
// for a meaningful projection.
func syntheticVectors(n, d int) [][]float32 {
	vectors := make([][]float32, n)
	for i := range vectors {
		vectors[i] = make([]float32, d)
		for j := range vectors[i] {
			vectors[i][j] = float32(math.Sin(float64(i*d+j))) + float32(i)*0.3
		}
	}
	return vectors
}

func TestReduce_BadDims(t *testing.T) {
	_, err := Reduce(syntheticVectors(12, 8), 4)
	assert.Error(t, err)

	_, err = Reduce(syntheticVectors(12, 8), 1)
	assert.Error(t, err)
}

func TestReduce_TooFewVectors(t *testing.T) {
	coords, err := Reduce(syntheticVectors(MinVectors-1, 8), 3)
	require.NoError(t, err)
	assert.Empty(t, coords)
}

func TestReduce_NormalizedRange(t *testing.T) {
	for _, dims := range []int{2, 3} {
		t.Run(fmt.Sprintf("dims=%d", dims), func(t *testing.T) {
			coords, err := Reduce(syntheticVectors(20, 8), dims)
			require.NoError(t, err)
			require.Len(t, coords, 20)

			for j := 0; j < dims; j++ {
				minVal, maxVal := coords[0][j], coords[0][j]
				for _, c := range coords {
					require.Len(t, c, dims)
					assert.GreaterOrEqual(t, c[j], -1.0)
					assert.LessOrEqual(t, c[j], 1.0)
					minVal = math.Min(minVal, c[j])
					maxVal = math.Max(maxVal, c[j])
				}
				// Each axis should span the full range.
				assert.InDelta(t, -1.0, minVal, 1e-9)
				assert.InDelta(t, 1.0, maxVal, 1e-9)
			}
		})
	}
}

func TestReduce_Deterministic(t *testing.T) {
	vectors := syntheticVectors(15, 6)

	first, err := Reduce(vectors, 3)
	require.NoError(t, err)
	second, err := Reduce(vectors, 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestReduce_RaggedInput(t *testing.T) {
	vectors := syntheticVectors(12, 8)
	vectors[5] = vectors[5][:4]

	_, err := Reduce(vectors, 3)
	assert.Error(t, err)
}

func TestBuildPoints(t *testing.T) {
	vectors := syntheticVectors(12, 8)

	records := make([]domain.BookRecord, 0, 14)
	for i, v := range vectors {
		records = append(records, domain.BookRecord{
			BookKey:         fmt.Sprintf("gr:%d", i),
			Title:           fmt.Sprintf("Book %d", i),
			Author:          "Author",
			IsRead:          i%2 == 0,
			MyRating:        i % 6,
			AvgRating:       4.1,
			PopularityScore: int64(1000 + i),
			Genres:          []string{"fantasy", "adventure", "classics", "young-adult"},
			GenrePrimary:    "fantasy",
			Embedding:       v,
		})
	}
	// Records without embeddings never become points.
	records = append(records,
		domain.BookRecord{BookKey: "gr:skip1", Title: "No Embedding"},
		domain.BookRecord{BookKey: "gr:skip2", Title: "Also No Embedding"},
	)

	points, err := BuildPoints(records, testLogger())
	require.NoError(t, err)
	require.Len(t, points, 12)

	for i, p := range points {
		assert.Equal(t, fmt.Sprintf("gr:%d", i), p.BookKey)
		assert.Len(t, p.Genres, maxPointGenres)
		assert.GreaterOrEqual(t, p.X, -1.0)
		assert.LessOrEqual(t, p.X, 1.0)
		assert.GreaterOrEqual(t, p.X2D, -1.0)
		assert.LessOrEqual(t, p.X2D, 1.0)
	}
	assert.Equal(t, "read", points[0].Shelf)
	assert.Equal(t, "unread", points[1].Shelf)

	// All points share a genre so they share a color.
	assert.Regexp(t, `^#[0-9A-F]{6}$`, points[0].Color)
	assert.Equal(t, points[0].Color, points[1].Color)
}

func TestBuildPoints_TooFewEmbedded(t *testing.T) {
	vectors := syntheticVectors(5, 8)
	records := make([]domain.BookRecord, len(vectors))
	for i, v := range vectors {
		records[i] = domain.BookRecord{BookKey: fmt.Sprintf("gr:%d", i), Embedding: v}
	}

	points, err := BuildPoints(records, testLogger())
	require.NoError(t, err)
	assert.Empty(t, points)
}
