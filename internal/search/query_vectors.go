//go:build vectors

package search

import "github.com/blevesearch/bleve/v2"

// attachKNN adds the nearest-neighbor clause to the request, with the
// candidate filter when one is configured.
func attachKNN(req *bleve.SearchRequest, params QueryParams, k int) error {
	if filter := buildFilterQuery(params); filter != nil {
		req.AddKNNWithFilter("embedding", params.Vector, int64(k), 1.0, filter)
	} else {
		req.AddKNN("embedding", params.Vector, int64(k), 1.0)
	}
	return nil
}
