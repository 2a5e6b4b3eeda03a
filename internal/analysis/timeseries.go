package analysis

import (
	"sort"
	"time"

	"conflictdash/domain/record"
)

// SeriesPoint is one month on the time-series chart
type SeriesPoint struct {
	Date                 time.Time `json:"date"`
	MonthYear            string    `json:"month_year"`
	Events               int       `json:"events"`
	Fatalities           int       `json:"fatalities"`
	CumulativeEvents     int       `json:"cumulative_events"`
	CumulativeFatalities int       `json:"cumulative_fatalities"`
}

// TimeSeries orders the view by Date. Cumulative columns are passed through as loaded.
func TimeSeries(view []record.Record) []SeriesPoint {
	points := make([]SeriesPoint, 0, len(view))
	for _, r := range view {
		points = append(points, SeriesPoint{
			Date:                 r.Date,
			MonthYear:            r.MonthYear,
			Events:               r.Events,
			Fatalities:           r.Fatalities,
			CumulativeEvents:     r.CumulativeEvents,
			CumulativeFatalities: r.CumulativeFatalities,
		})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

// Peak names the month holding the largest value of a metric
type Peak struct {
	MonthYear string `json:"month_year"`
	Value     int    `json:"value"`
}

// PeakOf returns the earliest-listed record with the maximum metric, or nil on an empty view
func PeakOf(view []record.Record, metric record.Metric) *Peak {
	top, err := TopN(view, metric, 1)
	if err != nil || len(top) == 0 {
		return nil
	}
	v, _ := top[0].Value(metric)
	return &Peak{MonthYear: top[0].MonthYear, Value: v}
}
