// Package analysis holds the pure aggregations that feed the dashboard panels.
// Every function accepts an empty view and returns an empty result rather than failing.
package analysis

import (
	"conflictdash/domain/record"

	"github.com/montanaflynn/stats"
)

// MetricSummary is the descriptive statistics of one numeric column
type MetricSummary struct {
	Count  int      `json:"count"`
	Total  int      `json:"total"`
	Mean   float64  `json:"mean"`
	Median float64  `json:"median"`
	Std    *float64 `json:"std"` // sample standard deviation, nil below two values
	Min    int      `json:"min"`
	Max    int      `json:"max"`
}

// Summary describes Events and Fatalities over a view
type Summary struct {
	NoData     bool          `json:"no_data"`
	Events     MetricSummary `json:"events"`
	Fatalities MetricSummary `json:"fatalities"`
}

func (s Summary) Empty() bool { return s.NoData }

// SummaryStats computes mean, median, std, min and max of Events and Fatalities
func SummaryStats(view []record.Record) Summary {
	if len(view) == 0 {
		return Summary{NoData: true}
	}

	events := make(stats.Float64Data, len(view))
	fatalities := make(stats.Float64Data, len(view))
	for i, r := range view {
		events[i] = float64(r.Events)
		fatalities[i] = float64(r.Fatalities)
	}

	return Summary{
		Events:     describe(events),
		Fatalities: describe(fatalities),
	}
}

// describe expects a non-empty sample
func describe(data stats.Float64Data) MetricSummary {
	sum, _ := stats.Sum(data)
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)

	summary := MetricSummary{
		Count:  data.Len(),
		Total:  int(sum),
		Mean:   mean,
		Median: median,
		Min:    int(min),
		Max:    int(max),
	}
	if data.Len() > 1 {
		if std, err := stats.StandardDeviationSample(data); err == nil {
			summary.Std = &std
		}
	}
	return summary
}
