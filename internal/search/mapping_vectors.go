//go:build vectors

package search

import "github.com/blevesearch/bleve/v2/mapping"

// addEmbeddingFieldMapping indexes the embedding for cosine KNN.
func addEmbeddingFieldMapping(docMapping *mapping.DocumentMapping, dims int) {
	embeddingFieldMapping := mapping.NewVectorFieldMapping()
	embeddingFieldMapping.Dims = dims
	embeddingFieldMapping.Similarity = "cosine"
	docMapping.AddFieldMappingsAt("embedding", embeddingFieldMapping)
}
