package analysis

import (
	"conflictdash/domain/record"
	"conflictdash/internal/errors"
)

// CategoryTotal is one slice of a pie or bar breakdown
type CategoryTotal struct {
	Category string `json:"category"`
	Total    int    `json:"total"`
}

// CategoryTotals sums metric per label of column, in first-appearance order
func CategoryTotals(view []record.Record, column record.CategoryColumn, metric record.Metric) ([]CategoryTotal, error) {
	return groupCategories(view, column, func(r record.Record) (int, error) {
		return r.Value(metric)
	})
}

// CategoryCounts counts records per label of column, in first-appearance order
func CategoryCounts(view []record.Record, column record.CategoryColumn) ([]CategoryTotal, error) {
	return groupCategories(view, column, func(record.Record) (int, error) {
		return 1, nil
	})
}

func groupCategories(view []record.Record, column record.CategoryColumn, value func(record.Record) (int, error)) ([]CategoryTotal, error) {
	totals := []CategoryTotal{}
	index := map[string]int{}

	for _, r := range view {
		label, err := r.Category(column)
		if err != nil {
			return nil, errors.InvalidInput(err.Error())
		}
		v, err := value(r)
		if err != nil {
			return nil, errors.InvalidInput(err.Error())
		}
		i, ok := index[label]
		if !ok {
			i = len(totals)
			index[label] = i
			totals = append(totals, CategoryTotal{Category: label})
		}
		totals[i].Total += v
	}
	return totals, nil
}
