package models

import "encoding/json"

// Hit is one search result
type Hit struct {
	DocumentID string          `json:"_id"`
	Source     json.RawMessage `json:"_source"`
}

// SearchResult is one page of hits plus the total number of matches
type SearchResult struct {
	TotalHits int64
	Hits      []Hit
}
