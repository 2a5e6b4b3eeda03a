package main

import (
	"fmt"
	"os"
	"strconv"

	"conflictdash/domain/record"
	"conflictdash/internal"
	"conflictdash/internal/analysis"
	"conflictdash/internal/dataset"
	"conflictdash/internal/errors"
	"conflictdash/internal/filter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// rootOptions holds the persistent flags shared by every subcommand
type rootOptions struct {
	dataFile           string
	country            string
	logLevel           string
	noColor            bool
	yearMin            int
	yearMax            int
	years              []string
	quarters           []string
	eventCategories    []string
	fatalityCategories []string
}

func (o *rootOptions) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.dataFile, "data", envOrDefault("DATA_FILE", "cleaned_dataset.csv"), "Dataset file (CSV or XLSX)")
	flags.StringVar(&o.country, "country", envOrDefault("COUNTRY_NAME", "Sri Lanka"), "Country shown in headings")
	flags.StringVar(&o.logLevel, "log-level", "WARN", "Log level written to stderr")
	flags.BoolVar(&o.noColor, "no-color", false, "Disable colored output")
	flags.IntVar(&o.yearMin, "year-min", 0, "Lower bound of the year range (default: first observed year)")
	flags.IntVar(&o.yearMax, "year-max", 0, "Upper bound of the year range (default: last observed year)")
	flags.StringSliceVar(&o.years, "years", nil, "Years to include (default: all)")
	flags.StringSliceVar(&o.quarters, "quarters", nil, "Quarters to include, e.g. Q1,Q3 (default: all)")
	flags.StringSliceVar(&o.eventCategories, "event-categories", nil, "Events categories to include (default: all)")
	flags.StringSliceVar(&o.fatalityCategories, "fatality-categories", nil, "Fatalities categories to include (default: all)")
}

// filteredView loads the dataset and applies the filter flags. A flag that is not set keeps
// every observed value; a flag set to an empty list selects nothing.
func (o *rootOptions) filteredView(cmd *cobra.Command) (*dataset.Dataset, []record.Record, error) {
	if o.noColor {
		color.NoColor = true
	}

	level, ok := internal.ParseLogLevel(o.logLevel)
	if !ok {
		return nil, nil, errors.InvalidInput("unknown log level " + strconv.Quote(o.logLevel))
	}
	logger := internal.NewLoggerTo(level, cmd.ErrOrStderr())

	ds, err := dataset.Load(o.dataFile, logger)
	if err != nil {
		return nil, nil, err
	}

	sel, err := o.selection(cmd.Flags(), filter.OptionsFor(ds))
	if err != nil {
		return nil, nil, err
	}
	view, err := filter.View(ds, sel)
	if err != nil {
		return nil, nil, err
	}
	return ds, view, nil
}

func (o *rootOptions) selection(flags *pflag.FlagSet, opts filter.Options) (filter.Selection, error) {
	sel := opts.Defaults()
	if flags.Changed("year-min") {
		sel.YearMin = o.yearMin
	}
	if flags.Changed("year-max") {
		sel.YearMax = o.yearMax
	}
	if flags.Changed("years") {
		years := make([]int, 0, len(o.years))
		for _, v := range o.years {
			year, err := strconv.Atoi(v)
			if err != nil {
				return filter.Selection{}, errors.InvalidInput("invalid year " + strconv.Quote(v))
			}
			years = append(years, year)
		}
		sel.Years = years
	}
	if flags.Changed("quarters") {
		sel.Quarters = o.quarters
	}
	if flags.Changed("event-categories") {
		sel.EventCategories = o.eventCategories
	}
	if flags.Changed("fatality-categories") {
		sel.FatalityCategories = o.fatalityCategories
	}
	return sel, sel.Validate()
}

// positional tags argument count errors as invalid input
func positional(rule cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return errors.WithCode(errors.CodeInvalidInput, rule(cmd, args))
	}
}

// validateParams applies the same bounds as the server configuration
func validateParams(p analysis.Params) error {
	switch {
	case p.Thresholds.Events < 0 || p.Thresholds.Fatalities < 0:
		return errors.InvalidInput("thresholds must be non-negative")
	case p.TopN < 0:
		return errors.InvalidInput("top-n must be non-negative")
	case p.Lowess.Fraction <= 0 || p.Lowess.Fraction > 1:
		return errors.InvalidInput(fmt.Sprintf("lowess-fraction must be in (0, 1], got %g", p.Lowess.Fraction))
	}
	return nil
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
