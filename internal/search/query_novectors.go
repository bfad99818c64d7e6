//go:build !vectors

package search

import (
	"github.com/blevesearch/bleve/v2"

	"github.com/izachstanford/smart-books-ai/internal/errors"
)

// attachKNN fails without the vectors build tag; KNN needs the faiss
// bindings that tag pulls in.
func attachKNN(req *bleve.SearchRequest, params QueryParams, k int) error {
	return errors.Index("vector queries need a binary built with -tags vectors")
}
