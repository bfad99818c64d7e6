//go:build !vectors

package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	domainerrors "github.com/izachstanford/smart-books-ai/internal/errors"
)

func TestQuery_WithoutVectorSupport(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	_, err := index.Query(context.Background(), QueryParams{
		Vector: []float32{0.1, 0.2, 0.3},
		K:      5,
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, domainerrors.ErrIndex))
}
