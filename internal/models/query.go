package models

import "encoding/json"

// DateRangeFilter selects documents whose DatePath falls within [StartDate, EndDate]
type DateRangeFilter struct {
	DatePath  string `json:"date_path" yaml:"date_path" validate:"required"`
	StartDate string `json:"start_date" yaml:"start_date" validate:"required"`
	EndDate   string `json:"end_date" yaml:"end_date" validate:"required"`
}

// RangeCondition is one inclusive range clause
type RangeCondition struct {
	Path string
	GTE  string
	LTE  string
}

// SearchQuery matches documents satisfying any of its conditions
type SearchQuery struct {
	Conditions []RangeCondition
	Size       int
	From       int
}

// MarshalJSON renders the query as a search request body
func (q SearchQuery) MarshalJSON() ([]byte, error) {
	should := make([]map[string]any, 0, len(q.Conditions))
	for _, c := range q.Conditions {
		should = append(should, map[string]any{
			"range": map[string]any{
				c.Path: map[string]string{
					"gte": c.GTE,
					"lte": c.LTE,
				},
			},
		})
	}

	return json.Marshal(map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"should": should,
			},
		},
		"size": q.Size,
		"from": q.From,
	})
}
