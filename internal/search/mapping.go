package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for book documents.
//
// The mapping is designed with these priorities:
//  1. KNN over the embedding vector with cosine similarity
//  2. Exact keyword matching for shelf and genre filters
//  3. Full-text search on title/author/description with English stemming
//  4. Numeric range queries for ratings and popularity
func buildIndexMapping(dims int) mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields (full-text searchable) ---

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	authorFieldMapping := bleve.NewTextFieldMapping()
	authorFieldMapping.Analyzer = en.AnalyzerName
	authorFieldMapping.Store = true
	authorFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("author", authorFieldMapping)

	// Description - searchable but not stored (too large)
	descFieldMapping := bleve.NewTextFieldMapping()
	descFieldMapping.Analyzer = en.AnalyzerName
	descFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("description", descFieldMapping)

	// --- Keyword fields (exact match, facetable) ---

	keyFieldMapping := bleve.NewTextFieldMapping()
	keyFieldMapping.Analyzer = keyword.Name
	keyFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("book_key", keyFieldMapping)

	isbnFieldMapping := bleve.NewTextFieldMapping()
	isbnFieldMapping.Analyzer = keyword.Name
	isbnFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("isbn", isbnFieldMapping)

	shelfFieldMapping := bleve.NewTextFieldMapping()
	shelfFieldMapping.Analyzer = keyword.Name
	shelfFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("shelf", shelfFieldMapping)

	genresFieldMapping := bleve.NewTextFieldMapping()
	genresFieldMapping.Analyzer = keyword.Name
	genresFieldMapping.Store = true
	genresFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("genres", genresFieldMapping)

	genrePrimaryFieldMapping := bleve.NewTextFieldMapping()
	genrePrimaryFieldMapping.Analyzer = keyword.Name
	genrePrimaryFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("genre_primary", genrePrimaryFieldMapping)

	// Cover URL - stored for result rendering, never searched
	coverFieldMapping := bleve.NewTextFieldMapping()
	coverFieldMapping.Analyzer = keyword.Name
	coverFieldMapping.Store = true
	coverFieldMapping.Index = false
	docMapping.AddFieldMappingsAt("cover_url", coverFieldMapping)

	// --- Numeric fields (range queries, sorting) ---

	myRatingFieldMapping := bleve.NewNumericFieldMapping()
	myRatingFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("my_rating", myRatingFieldMapping)

	avgRatingFieldMapping := bleve.NewNumericFieldMapping()
	avgRatingFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("avg_rating", avgRatingFieldMapping)

	popularityFieldMapping := bleve.NewNumericFieldMapping()
	popularityFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("popularity", popularityFieldMapping)

	yearFieldMapping := bleve.NewNumericFieldMapping()
	yearFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("publish_year", yearFieldMapping)

	// --- Vector field (KNN, only with the vectors build tag) ---

	if dims > 0 {
		addEmbeddingFieldMapping(docMapping, dims)
	}

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
