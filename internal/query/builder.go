package query

import "github.com/aleister1102/docsync/internal/models"

// DefaultResultSize caps the number of hits returned by a single request
const DefaultResultSize = 10

// Build turns filters into a single OR query capped at DefaultResultSize
func Build(filters []models.DateRangeFilter) models.SearchQuery {
	return BuildPage(filters, DefaultResultSize, 0)
}

// BuildPage builds the OR query for one page of results.
// Each filter becomes an inclusive range condition on its date path.
func BuildPage(filters []models.DateRangeFilter, size, from int) models.SearchQuery {
	if size <= 0 {
		size = DefaultResultSize
	}
	if from < 0 {
		from = 0
	}

	conditions := make([]models.RangeCondition, 0, len(filters))
	for _, f := range filters {
		conditions = append(conditions, models.RangeCondition{
			Path: f.DatePath,
			GTE:  f.StartDate,
			LTE:  f.EndDate,
		})
	}

	return models.SearchQuery{
		Conditions: conditions,
		Size:       size,
		From:       from,
	}
}
