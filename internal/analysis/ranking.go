package analysis

import (
	"sort"

	"conflictdash/domain/record"
	"conflictdash/internal/errors"
)

// TopN returns the n records with the largest metric, descending. Ties keep view order.
func TopN(view []record.Record, metric record.Metric, n int) ([]record.Record, error) {
	if _, err := (record.Record{}).Value(metric); err != nil {
		return nil, errors.InvalidInput(err.Error())
	}
	if n <= 0 {
		return []record.Record{}, nil
	}

	ranked := make([]record.Record, len(view))
	copy(ranked, view)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, _ := ranked[i].Value(metric)
		b, _ := ranked[j].Value(metric)
		return a > b
	})

	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked, nil
}

// Thresholds are the alert boundaries; a value equal to its threshold does not alert
type Thresholds struct {
	Events     int `json:"events"`
	Fatalities int `json:"fatalities"`
}

// DefaultThresholds are the dashboard's opening alert values
var DefaultThresholds = Thresholds{Events: 30, Fatalities: 10}

// Alert is a record that exceeded at least one threshold
type Alert struct {
	record.Record
	EventsExceeded     bool `json:"events_exceeded"`
	FatalitiesExceeded bool `json:"fatalities_exceeded"`
}

// DetectAlerts keeps records with Events > t.Events or Fatalities > t.Fatalities, sorted by
// Events descending with ties in view order
func DetectAlerts(view []record.Record, t Thresholds) []Alert {
	alerts := []Alert{}
	for _, r := range view {
		a := Alert{
			Record:             r,
			EventsExceeded:     r.Events > t.Events,
			FatalitiesExceeded: r.Fatalities > t.Fatalities,
		}
		if a.EventsExceeded || a.FatalitiesExceeded {
			alerts = append(alerts, a)
		}
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Events > alerts[j].Events
	})
	return alerts
}

// RiskCell counts records for one (Events_Category, Fatalities_Category) pair
type RiskCell struct {
	EventsCategory     string `json:"events_category"`
	FatalitiesCategory string `json:"fatalities_category"`
	Count              int    `json:"count"`
}

// RiskMatrix counts records per observed category pair, in first-appearance order
func RiskMatrix(view []record.Record) []RiskCell {
	type key struct{ events, fatalities string }
	cells := []RiskCell{}
	index := map[key]int{}

	for _, r := range view {
		k := key{r.EventsCategory, r.FatalitiesCategory}
		i, ok := index[k]
		if !ok {
			i = len(cells)
			index[k] = i
			cells = append(cells, RiskCell{EventsCategory: k.events, FatalitiesCategory: k.fatalities})
		}
		cells[i].Count++
	}
	return cells
}
