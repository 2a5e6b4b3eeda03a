package ui

import (
	"strconv"
	"strings"

	"conflictdash/internal/analysis"
	"conflictdash/internal/errors"
	"conflictdash/internal/filter"

	"github.com/gin-gonic/gin"
)

// controlsQuery binds the numeric dashboard controls. Nil means "use the default".
type controlsQuery struct {
	YearMin             *int `form:"year_min" binding:"omitempty,min=0"`
	YearMax             *int `form:"year_max" binding:"omitempty,min=0"`
	EventsThreshold     *int `form:"events_threshold" binding:"omitempty,min=0"`
	FatalitiesThreshold *int `form:"fatalities_threshold" binding:"omitempty,min=0"`
	TopN                *int `form:"top_n" binding:"omitempty,min=0"`
}

// Multi-valued filter parameters
const (
	paramYears              = "years"
	paramQuarters           = "quarters"
	paramEventCategories    = "event_categories"
	paramFatalityCategories = "fatality_categories"
)

// parseControls reads the filter selection and panel parameters from the query string.
// An absent set parameter keeps every observed value; a present but empty one selects nothing.
func parseControls(c *gin.Context, opts filter.Options, defaults analysis.Params) (filter.Selection, analysis.Params, error) {
	var q controlsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return filter.Selection{}, analysis.Params{}, errors.InvalidInput("invalid query parameters: " + err.Error())
	}

	sel := opts.Defaults()
	if q.YearMin != nil {
		sel.YearMin = *q.YearMin
	}
	if q.YearMax != nil {
		sel.YearMax = *q.YearMax
	}

	if values, ok := queryList(c, paramYears); ok {
		years := make([]int, 0, len(values))
		for _, v := range values {
			year, err := strconv.Atoi(v)
			if err != nil {
				return filter.Selection{}, analysis.Params{}, errors.InvalidInput("invalid year " + strconv.Quote(v))
			}
			years = append(years, year)
		}
		sel.Years = years
	}
	if values, ok := queryList(c, paramQuarters); ok {
		sel.Quarters = values
	}
	if values, ok := queryList(c, paramEventCategories); ok {
		sel.EventCategories = values
	}
	if values, ok := queryList(c, paramFatalityCategories); ok {
		sel.FatalityCategories = values
	}

	if err := sel.Validate(); err != nil {
		return filter.Selection{}, analysis.Params{}, err
	}

	params := defaults
	if q.EventsThreshold != nil {
		params.Thresholds.Events = *q.EventsThreshold
	}
	if q.FatalitiesThreshold != nil {
		params.Thresholds.Fatalities = *q.FatalitiesThreshold
	}
	if q.TopN != nil {
		params.TopN = *q.TopN
	}
	return sel, params, nil
}

// queryList collects a parameter given either repeated or comma-separated
func queryList(c *gin.Context, key string) ([]string, bool) {
	raw, ok := c.GetQueryArray(key)
	if !ok {
		return nil, false
	}
	values := []string{}
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values, true
}
