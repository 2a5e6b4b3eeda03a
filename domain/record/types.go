// Package record defines the monthly events/fatalities row and its calendar vocabulary.
package record

import (
	"fmt"
	"strings"
	"time"
)

// Record is one calendar month of event and fatality counts
type Record struct {
	Year                 int       `json:"year"`
	Month                string    `json:"month"`
	Quarter              string    `json:"quarter"`
	Events               int       `json:"events"`
	Fatalities           int       `json:"fatalities"`
	EventsCategory       string    `json:"events_category"`
	FatalitiesCategory   string    `json:"fatalities_category"`
	CumulativeEvents     int       `json:"cumulative_events"`
	CumulativeFatalities int       `json:"cumulative_fatalities"`
	IsFatal              bool      `json:"is_fatal"`
	Date                 time.Time `json:"date"`
	MonthYear            string    `json:"month_year"`
}

// Months lists the calendar months in canonical order
var Months = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Quarters lists the quarter labels in canonical order
var Quarters = [4]string{"Q1", "Q2", "Q3", "Q4"}

// ParseMonth accepts a full English month name or its three-letter abbreviation
func ParseMonth(value string) (time.Month, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	for i, name := range Months {
		lower := strings.ToLower(name)
		if v == lower || (len(v) == 3 && v == lower[:3]) {
			return time.Month(i + 1), nil
		}
	}
	return 0, fmt.Errorf("unknown month %q", value)
}

// MonthIndex returns the zero-based calendar position of a canonical month name, or -1
func MonthIndex(name string) int {
	for i, m := range Months {
		if m == name {
			return i
		}
	}
	return -1
}

// QuarterOf maps a month to its quarter label
func QuarterOf(m time.Month) string {
	return Quarters[(int(m)-1)/3]
}

// QuarterIndex returns the zero-based position of a quarter label, or -1
func QuarterIndex(label string) int {
	for i, q := range Quarters {
		if q == label {
			return i
		}
	}
	return -1
}

// FirstOfMonth is the Date derived for a record
func FirstOfMonth(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

// MonthYearLabel is the display label "Month YYYY"
func MonthYearLabel(year int, m time.Month) string {
	return fmt.Sprintf("%s %d", Months[m-1], year)
}

// CategoryColumn names a categorical column that can be grouped on
type CategoryColumn string

const (
	ColumnEventsCategory     CategoryColumn = "events_category"
	ColumnFatalitiesCategory CategoryColumn = "fatalities_category"
	ColumnQuarter            CategoryColumn = "quarter"
	ColumnMonth              CategoryColumn = "month"
	ColumnYear               CategoryColumn = "year"
	ColumnIsFatal            CategoryColumn = "is_fatal"
)

// Category returns the record's label for column c
func (r Record) Category(c CategoryColumn) (string, error) {
	switch c {
	case ColumnEventsCategory:
		return r.EventsCategory, nil
	case ColumnFatalitiesCategory:
		return r.FatalitiesCategory, nil
	case ColumnQuarter:
		return r.Quarter, nil
	case ColumnMonth:
		return r.Month, nil
	case ColumnYear:
		return fmt.Sprintf("%d", r.Year), nil
	case ColumnIsFatal:
		if r.IsFatal {
			return "Fatal", nil
		}
		return "Non-Fatal", nil
	}
	return "", fmt.Errorf("unknown category column %q", c)
}

// Metric names a numeric column
type Metric string

const (
	MetricEvents     Metric = "events"
	MetricFatalities Metric = "fatalities"
)

// ParseMetric accepts "events" or "fatalities" in any case
func ParseMetric(value string) (Metric, error) {
	switch Metric(strings.ToLower(strings.TrimSpace(value))) {
	case MetricEvents:
		return MetricEvents, nil
	case MetricFatalities:
		return MetricFatalities, nil
	}
	return "", fmt.Errorf("unknown metric %q", value)
}

// Value returns the record's value for metric m
func (r Record) Value(m Metric) (int, error) {
	switch m {
	case MetricEvents:
		return r.Events, nil
	case MetricFatalities:
		return r.Fatalities, nil
	}
	return 0, fmt.Errorf("unknown metric %q", m)
}
