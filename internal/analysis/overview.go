package analysis

import (
	"conflictdash/domain/record"
	"conflictdash/internal/profiling"
)

// Overview is the dataset description shown on the About page
type Overview struct {
	Country                string           `json:"country"`
	Records                int              `json:"records"`
	FirstMonth             string           `json:"first_month"`
	LastMonth              string           `json:"last_month"`
	YearMin                int              `json:"year_min"`
	YearMax                int              `json:"year_max"`
	TotalEvents            int              `json:"total_events"`
	TotalFatalities        int              `json:"total_fatalities"`
	FatalMonths            int              `json:"fatal_months"`
	PeakEvents             *Peak            `json:"peak_events"`
	PeakFatalities         *Peak            `json:"peak_fatalities"`
	EventCategoryCounts    []CategoryTotal  `json:"event_category_counts"`
	FatalityCategoryCounts []CategoryTotal  `json:"fatality_category_counts"`
	Summary                Summary          `json:"summary"`
	EventsShape            *profiling.Shape `json:"events_shape"`
	FatalitiesShape        *profiling.Shape `json:"fatalities_shape"`
}

// Describe summarises records for the About page. An empty input yields zero totals and nil peaks.
func Describe(records []record.Record, country string) Overview {
	o := Overview{
		Country:                country,
		Records:                len(records),
		EventCategoryCounts:    []CategoryTotal{},
		FatalityCategoryCounts: []CategoryTotal{},
		Summary:                SummaryStats(records),
	}
	if len(records) == 0 {
		return o
	}

	series := TimeSeries(records)
	o.FirstMonth = series[0].MonthYear
	o.LastMonth = series[len(series)-1].MonthYear
	o.YearMin, o.YearMax = records[0].Year, records[0].Year

	for _, r := range records {
		o.YearMin = min(o.YearMin, r.Year)
		o.YearMax = max(o.YearMax, r.Year)
		o.TotalEvents += r.Events
		o.TotalFatalities += r.Fatalities
		if r.IsFatal {
			o.FatalMonths++
		}
	}

	o.PeakEvents = PeakOf(records, record.MetricEvents)
	o.PeakFatalities = PeakOf(records, record.MetricFatalities)
	o.EventCategoryCounts, _ = CategoryCounts(records, record.ColumnEventsCategory)
	o.FatalityCategoryCounts, _ = CategoryCounts(records, record.ColumnFatalitiesCategory)
	o.EventsShape = shapeOf(records, record.MetricEvents)
	o.FatalitiesShape = shapeOf(records, record.MetricFatalities)
	return o
}

func shapeOf(records []record.Record, metric record.Metric) *profiling.Shape {
	values := make([]float64, len(records))
	for i, r := range records {
		v, err := r.Value(metric)
		if err != nil {
			return nil
		}
		values[i] = float64(v)
	}
	shape, err := profiling.Analyze(values)
	if err != nil {
		return nil
	}
	return &shape
}
