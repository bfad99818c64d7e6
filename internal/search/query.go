package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// QueryParams configures a nearest-neighbor query.
type QueryParams struct {
	Vector []float32 // Query embedding
	K      int       // Number of neighbors to return

	// Filters restrict the candidate set before KNN scoring.
	Shelf        string   // "read", "unread", or "" for both
	GenrePrimary string   // Exact primary-genre match
	MinAvgRating float64  // Floor on community rating
	ExcludeKeys  []string // book_keys to leave out (typically the seed book)
}

// Hit is a single nearest-neighbor result.
type Hit struct {
	BookKey      string   `json:"book_key"`
	Score        float64  `json:"score"`
	Title        string   `json:"title"`
	Author       string   `json:"author"`
	Shelf        string   `json:"shelf"`
	AvgRating    float64  `json:"avg_rating,omitempty"`
	GenrePrimary string   `json:"genre_primary,omitempty"`
	Genres       []string `json:"genres,omitempty"`
	CoverURL     string   `json:"cover_url,omitempty"`
}

// QueryResult holds the neighbors for one query.
type QueryResult struct {
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Query runs a KNN search over the embedding field, restricted by the
// given filters.
func (s *BookIndex) Query(ctx context.Context, params QueryParams) (*QueryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(params.Vector) == 0 {
		return nil, fmt.Errorf("query vector is empty")
	}
	if s.dims > 0 && len(params.Vector) != s.dims {
		return nil, fmt.Errorf("query vector has %d dims, index has %d", len(params.Vector), s.dims)
	}

	k := params.K
	if k <= 0 {
		k = 10
	}

	// The KNN scoring replaces the text query entirely; match-none
	// keeps the base query from contributing hits of its own.
	searchRequest := bleve.NewSearchRequestOptions(bleve.NewMatchNoneQuery(), k, 0, false)

	if err := attachKNN(searchRequest, params, k); err != nil {
		return nil, err
	}

	searchRequest.Fields = []string{
		"book_key", "title", "author", "shelf", "avg_rating",
		"genre_primary", "genres", "cover_url",
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute knn query: %w", err)
	}

	excluded := make(map[string]bool, len(params.ExcludeKeys))
	for _, key := range params.ExcludeKeys {
		excluded[key] = true
	}

	result := &QueryResult{
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		if excluded[hit.ID] {
			continue
		}

		h := Hit{
			BookKey: hit.ID,
			Score:   hit.Score,
		}

		if t, ok := hit.Fields["title"].(string); ok {
			h.Title = t
		}
		if a, ok := hit.Fields["author"].(string); ok {
			h.Author = a
		}
		if sh, ok := hit.Fields["shelf"].(string); ok {
			h.Shelf = sh
		}
		if r, ok := hit.Fields["avg_rating"].(float64); ok {
			h.AvgRating = r
		}
		if gp, ok := hit.Fields["genre_primary"].(string); ok {
			h.GenrePrimary = gp
		}
		if c, ok := hit.Fields["cover_url"].(string); ok {
			h.CoverURL = c
		}
		h.Genres = fieldStrings(hit.Fields["genres"])

		result.Hits = append(result.Hits, h)
	}

	return result, nil
}

// SearchText runs a plain text query over title and author, used to
// resolve a seed book from user input.
func (s *BookIndex) SearchText(ctx context.Context, text string, limit int) (*QueryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	titleMatch := bleve.NewMatchQuery(text)
	titleMatch.SetField("title")
	titleMatch.SetBoost(3.0)

	authorMatch := bleve.NewMatchQuery(text)
	authorMatch.SetField("author")
	authorMatch.SetBoost(1.5)

	// Typo tolerance on the title
	fuzzyQuery := bleve.NewFuzzyQuery(text)
	fuzzyQuery.SetFuzziness(1)
	fuzzyQuery.SetField("title")
	fuzzyQuery.SetBoost(0.8)

	textQueries := []query.Query{titleMatch, authorMatch, fuzzyQuery}

	// Prefix query for partial titles (minimum 2 chars)
	if len(text) >= 2 {
		prefixQuery := bleve.NewPrefixQuery(strings.ToLower(text))
		prefixQuery.SetField("title")
		prefixQuery.SetBoost(0.5)
		textQueries = append(textQueries, prefixQuery)
	}

	searchRequest := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(textQueries...), limit, 0, false)
	searchRequest.SortBy([]string{"-_score"})
	searchRequest.Fields = []string{
		"book_key", "title", "author", "shelf", "avg_rating",
		"genre_primary", "genres", "cover_url",
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute text query: %w", err)
	}

	result := &QueryResult{
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		h := Hit{BookKey: hit.ID, Score: hit.Score}
		if t, ok := hit.Fields["title"].(string); ok {
			h.Title = t
		}
		if a, ok := hit.Fields["author"].(string); ok {
			h.Author = a
		}
		if sh, ok := hit.Fields["shelf"].(string); ok {
			h.Shelf = sh
		}
		if r, ok := hit.Fields["avg_rating"].(float64); ok {
			h.AvgRating = r
		}
		if gp, ok := hit.Fields["genre_primary"].(string); ok {
			h.GenrePrimary = gp
		}
		if c, ok := hit.Fields["cover_url"].(string); ok {
			h.CoverURL = c
		}
		h.Genres = fieldStrings(hit.Fields["genres"])
		result.Hits = append(result.Hits, h)
	}

	return result, nil
}

// buildFilterQuery constructs the candidate filter for a KNN query.
// Returns nil when no filters are set.
func buildFilterQuery(params QueryParams) query.Query {
	var queries []query.Query

	if params.Shelf != "" {
		sq := bleve.NewTermQuery(params.Shelf)
		sq.SetField("shelf")
		queries = append(queries, sq)
	}

	if params.GenrePrimary != "" {
		gq := bleve.NewTermQuery(params.GenrePrimary)
		gq.SetField("genre_primary")
		queries = append(queries, gq)
	}

	if params.MinAvgRating > 0 {
		minRating := params.MinAvgRating
		rq := bleve.NewNumericRangeQuery(&minRating, nil)
		rq.SetField("avg_rating")
		queries = append(queries, rq)
	}

	if len(queries) == 0 {
		return nil
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// fieldStrings normalizes a stored field that Bleve may return as a
// string or a []interface{} of strings.
func fieldStrings(v interface{}) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
