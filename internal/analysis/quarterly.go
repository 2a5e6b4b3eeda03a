package analysis

import (
	"sort"

	"conflictdash/domain/record"
)

// QuarterRow aggregates one observed (Year, Quarter) pair
type QuarterRow struct {
	Year            int     `json:"year"`
	Quarter         string  `json:"quarter"`
	Months          int     `json:"months"`
	TotalEvents     int     `json:"total_events"`
	AvgEvents       float64 `json:"avg_events"`
	TotalFatalities int     `json:"total_fatalities"`
	AvgFatalities   float64 `json:"avg_fatalities"`
}

// QuarterlyBreakdown returns sum and mean of Events and Fatalities per (Year, Quarter)
func QuarterlyBreakdown(view []record.Record) []QuarterRow {
	type key struct {
		year    int
		quarter string
	}
	rows := []QuarterRow{}
	index := map[key]int{}

	for _, r := range view {
		k := key{r.Year, r.Quarter}
		i, ok := index[k]
		if !ok {
			i = len(rows)
			index[k] = i
			rows = append(rows, QuarterRow{Year: r.Year, Quarter: r.Quarter})
		}
		rows[i].Months++
		rows[i].TotalEvents += r.Events
		rows[i].TotalFatalities += r.Fatalities
	}

	for i := range rows {
		n := float64(rows[i].Months)
		rows[i].AvgEvents = float64(rows[i].TotalEvents) / n
		rows[i].AvgFatalities = float64(rows[i].TotalFatalities) / n
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return record.QuarterIndex(rows[i].Quarter) < record.QuarterIndex(rows[j].Quarter)
	})
	return rows
}
