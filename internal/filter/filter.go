// Package filter turns dashboard control selections into a predicate over monthly records.
package filter

import (
	"sort"

	"conflictdash/domain/record"
	"conflictdash/internal/dataset"
	"conflictdash/internal/errors"
)

// Options are the values observed in the loaded dataset; every Selection is a subset of them.
type Options struct {
	YearMin            int      `json:"year_min"`
	YearMax            int      `json:"year_max"`
	Years              []int    `json:"years"`
	Quarters           []string `json:"quarters"`
	EventCategories    []string `json:"event_categories"`
	FatalityCategories []string `json:"fatality_categories"`
	Empty              bool     `json:"empty"`
}

// Selection is the state of the filter controls
type Selection struct {
	YearMin            int      `json:"year_min"`
	YearMax            int      `json:"year_max"`
	Years              []int    `json:"years"`
	Quarters           []string `json:"quarters"`
	EventCategories    []string `json:"event_categories"`
	FatalityCategories []string `json:"fatality_categories"`
}

// Predicate decides whether a record belongs to the filtered view
type Predicate func(record.Record) bool

// OptionsFor collects the observed filter values. Years and quarters are sorted; categories keep
// first-appearance order.
func OptionsFor(ds *dataset.Dataset) Options {
	opts := Options{Empty: true}
	years := map[int]bool{}
	quarters := map[string]bool{}
	eventCats := map[string]bool{}
	fatalCats := map[string]bool{}

	for _, r := range ds.Records() {
		if opts.Empty || r.Year < opts.YearMin {
			opts.YearMin = r.Year
		}
		if opts.Empty || r.Year > opts.YearMax {
			opts.YearMax = r.Year
		}
		opts.Empty = false

		if !years[r.Year] {
			years[r.Year] = true
			opts.Years = append(opts.Years, r.Year)
		}
		if !quarters[r.Quarter] {
			quarters[r.Quarter] = true
			opts.Quarters = append(opts.Quarters, r.Quarter)
		}
		if !eventCats[r.EventsCategory] {
			eventCats[r.EventsCategory] = true
			opts.EventCategories = append(opts.EventCategories, r.EventsCategory)
		}
		if !fatalCats[r.FatalitiesCategory] {
			fatalCats[r.FatalitiesCategory] = true
			opts.FatalityCategories = append(opts.FatalityCategories, r.FatalitiesCategory)
		}
	}

	sort.Ints(opts.Years)
	sort.Slice(opts.Quarters, func(i, j int) bool {
		return quarterLess(opts.Quarters[i], opts.Quarters[j])
	})
	return opts
}

// Defaults is the all-selected state the dashboard opens with
func (o Options) Defaults() Selection {
	return Selection{
		YearMin:            o.YearMin,
		YearMax:            o.YearMax,
		Years:              append([]int(nil), o.Years...),
		Quarters:           append([]string(nil), o.Quarters...),
		EventCategories:    append([]string(nil), o.EventCategories...),
		FatalityCategories: append([]string(nil), o.FatalityCategories...),
	}
}

// Validate rejects a range whose lower bound exceeds its upper bound
func (s Selection) Validate() error {
	if s.YearMin > s.YearMax {
		return errors.InvalidFilterRange(s.YearMin, s.YearMax)
	}
	return nil
}

// Normalize validates sel, clamps its range into the observed years and drops values that were
// never observed. Years outside the requested range are dropped too, so a range disjoint from
// the data normalizes to a well-formed range with no years. Set order follows the options.
func (o Options) Normalize(sel Selection) (Selection, error) {
	if err := sel.Validate(); err != nil {
		return Selection{}, err
	}

	out := Selection{
		YearMin: min(max(sel.YearMin, o.YearMin), o.YearMax),
		YearMax: max(min(sel.YearMax, o.YearMax), o.YearMin),
		Years:   []int{},
	}
	for _, year := range intersect(o.Years, sel.Years) {
		if year >= sel.YearMin && year <= sel.YearMax {
			out.Years = append(out.Years, year)
		}
	}
	out.Quarters = intersect(o.Quarters, sel.Quarters)
	out.EventCategories = intersect(o.EventCategories, sel.EventCategories)
	out.FatalityCategories = intersect(o.FatalityCategories, sel.FatalityCategories)
	return out, nil
}

// Build returns the conjunction of every control. An empty set matches nothing.
func Build(sel Selection) Predicate {
	years := toSet(sel.Years)
	quarters := toSet(sel.Quarters)
	eventCats := toSet(sel.EventCategories)
	fatalCats := toSet(sel.FatalityCategories)

	return func(r record.Record) bool {
		return r.Year >= sel.YearMin && r.Year <= sel.YearMax &&
			years[r.Year] &&
			quarters[r.Quarter] &&
			eventCats[r.EventsCategory] &&
			fatalCats[r.FatalitiesCategory]
	}
}

// Apply returns the records matching pred, in their original order
func Apply(records []record.Record, pred Predicate) []record.Record {
	view := make([]record.Record, 0, len(records))
	for _, r := range records {
		if pred(r) {
			view = append(view, r)
		}
	}
	return view
}

// View normalizes sel against the dataset and returns the filtered records
func View(ds *dataset.Dataset, sel Selection) ([]record.Record, error) {
	normalized, err := OptionsFor(ds).Normalize(sel)
	if err != nil {
		return nil, err
	}
	return Apply(ds.Records(), Build(normalized)), nil
}

func intersect[T comparable](observed, selected []T) []T {
	wanted := toSet(selected)
	out := make([]T, 0, len(selected))
	for _, v := range observed {
		if wanted[v] {
			out = append(out, v)
		}
	}
	return out
}

func toSet[T comparable](values []T) map[T]bool {
	set := make(map[T]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// quarterLess orders canonical labels first, then anything else lexically
func quarterLess(a, b string) bool {
	ia, ib := record.QuarterIndex(a), record.QuarterIndex(b)
	switch {
	case ia >= 0 && ib >= 0:
		return ia < ib
	case ia >= 0:
		return true
	case ib >= 0:
		return false
	}
	return a < b
}
