package analysis

import (
	"fmt"
	"sort"

	"conflictdash/domain/record"
	"conflictdash/internal/errors"
)

// DefaultHierarchyEpsilon keeps zero-event months visible as treemap leaves
const DefaultHierarchyEpsilon = 0.01

// HierarchyRow is one Year/Quarter/Month leaf
type HierarchyRow struct {
	Year          int     `json:"year"`
	Quarter       string  `json:"quarter"`
	Month         string  `json:"month"`
	TotalEvents   float64 `json:"total_events"`
	AvgFatalities float64 `json:"avg_fatalities"`
}

// TreemapNode is a flattened ids/parents node; Value sums leaves and Color is the
// value-weighted mean fatality rate of the subtree
type TreemapNode struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Parent string  `json:"parent"`
	Value  float64 `json:"value"`
	Color  float64 `json:"color"`
}

// Hierarchy carries the leaves and the nested rendering of the same data
type Hierarchy struct {
	Rows  []HierarchyRow `json:"rows"`
	Nodes []TreemapNode  `json:"nodes"`
}

func (h Hierarchy) Empty() bool { return len(h.Rows) == 0 }

// HierarchyRollup sums Events and averages Fatalities per (Year, Quarter, Month). Groups with no
// events get epsilon so their node still exists. An empty view yields an EmptyResult error.
func HierarchyRollup(view []record.Record, epsilon float64) ([]HierarchyRow, error) {
	if len(view) == 0 {
		return nil, errors.EmptyResult("hierarchy")
	}
	if epsilon <= 0 {
		epsilon = DefaultHierarchyEpsilon
	}

	type key struct {
		year           int
		quarter, month string
	}
	type acc struct {
		events, fatalities, n int
	}
	order := []key{}
	groups := map[key]*acc{}

	for _, r := range view {
		k := key{r.Year, r.Quarter, r.Month}
		g, ok := groups[k]
		if !ok {
			g = &acc{}
			groups[k] = g
			order = append(order, k)
		}
		g.events += r.Events
		g.fatalities += r.Fatalities
		g.n++
	}

	rows := make([]HierarchyRow, 0, len(order))
	for _, k := range order {
		g := groups[k]
		total := float64(g.events)
		if g.events == 0 {
			total += epsilon
		}
		rows = append(rows, HierarchyRow{
			Year:          k.year,
			Quarter:       k.quarter,
			Month:         k.month,
			TotalEvents:   total,
			AvgFatalities: float64(g.fatalities) / float64(g.n),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if qa, qb := record.QuarterIndex(a.Quarter), record.QuarterIndex(b.Quarter); qa != qb {
			return qa < qb
		}
		return record.MonthIndex(a.Month) < record.MonthIndex(b.Month)
	})
	return rows, nil
}

// HierarchyTree nests sorted rows as Year -> Quarter -> Month nodes, parents before children
func HierarchyTree(rows []HierarchyRow) []TreemapNode {
	nodes := []TreemapNode{}
	index := map[string]int{}
	// weighted accumulates value*color so parent colors can be finalised after the walk
	weighted := map[string]float64{}

	add := func(id, label, parent string, value, color float64) {
		i, ok := index[id]
		if !ok {
			i = len(nodes)
			index[id] = i
			nodes = append(nodes, TreemapNode{ID: id, Label: label, Parent: parent})
		}
		nodes[i].Value += value
		weighted[id] += value * color
	}

	for _, r := range rows {
		yearID := fmt.Sprintf("%d", r.Year)
		quarterID := yearID + "/" + r.Quarter
		monthID := quarterID + "/" + r.Month

		add(yearID, yearID, "", r.TotalEvents, r.AvgFatalities)
		add(quarterID, r.Quarter, yearID, r.TotalEvents, r.AvgFatalities)
		add(monthID, r.Month, quarterID, r.TotalEvents, r.AvgFatalities)
	}

	for i := range nodes {
		if nodes[i].Value > 0 {
			nodes[i].Color = weighted[nodes[i].ID] / nodes[i].Value
		}
	}
	return nodes
}
