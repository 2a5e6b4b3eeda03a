package analysis

import (
	"sort"

	"conflictdash/domain/record"
)

// Heatmap is a calendar-month by year matrix of Events. Cells[m][y] pairs Months[m] with Years[y].
type Heatmap struct {
	Months [12]string `json:"months"`
	Years  []int      `json:"years"`
	Cells  [][]int    `json:"cells"`
}

func (h Heatmap) Empty() bool { return len(h.Years) == 0 }

// MonthlyHeatmap always has twelve rows, January first; missing combinations are zero
func MonthlyHeatmap(view []record.Record) Heatmap {
	h := Heatmap{Months: record.Months, Years: []int{}}

	seen := map[int]bool{}
	for _, r := range view {
		if !seen[r.Year] {
			seen[r.Year] = true
			h.Years = append(h.Years, r.Year)
		}
	}
	sort.Ints(h.Years)

	col := make(map[int]int, len(h.Years))
	for i, y := range h.Years {
		col[y] = i
	}

	h.Cells = make([][]int, len(record.Months))
	for m := range h.Cells {
		h.Cells[m] = make([]int, len(h.Years))
	}
	for _, r := range view {
		m := record.MonthIndex(r.Month)
		if m < 0 {
			continue
		}
		h.Cells[m][col[r.Year]] += r.Events
	}
	return h
}

// MonthAverage is the mean Events of one calendar month across the view
type MonthAverage struct {
	Month     string  `json:"month"`
	Records   int     `json:"records"`
	AvgEvents float64 `json:"avg_events"`
}

// AverageByMonth returns mean Events per calendar month, January to December. Months with no
// records are omitted.
func AverageByMonth(view []record.Record) []MonthAverage {
	var counts, totals [12]int
	for _, r := range view {
		m := record.MonthIndex(r.Month)
		if m < 0 {
			continue
		}
		counts[m]++
		totals[m] += r.Events
	}

	out := []MonthAverage{}
	for m, name := range record.Months {
		if counts[m] == 0 {
			continue
		}
		out = append(out, MonthAverage{
			Month:     name,
			Records:   counts[m],
			AvgEvents: float64(totals[m]) / float64(counts[m]),
		})
	}
	return out
}

// FatalCounts is the two-bucket Is_Fatal histogram
type FatalCounts struct {
	Fatal    int `json:"fatal"`
	NonFatal int `json:"non_fatal"`
}

func (f FatalCounts) Empty() bool { return f.Fatal+f.NonFatal == 0 }

func FatalSplit(view []record.Record) FatalCounts {
	var counts FatalCounts
	for _, r := range view {
		if r.IsFatal {
			counts.Fatal++
		} else {
			counts.NonFatal++
		}
	}
	return counts
}
