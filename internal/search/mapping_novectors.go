//go:build !vectors

package search

import "github.com/blevesearch/bleve/v2/mapping"

// addEmbeddingFieldMapping is a no-op without the vectors build tag;
// the embedding field is simply not indexed.
func addEmbeddingFieldMapping(docMapping *mapping.DocumentMapping, dims int) {
}
