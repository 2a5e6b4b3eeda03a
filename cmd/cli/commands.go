package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"

	"conflictdash/domain/record"
	"conflictdash/internal"
	"conflictdash/internal/analysis"
	"conflictdash/internal/errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newAboutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "Describe the whole dataset: coverage, totals, peaks and categories",
		Args:  positional(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, _, err := opts.filteredView(cmd)
			if err != nil {
				return err
			}
			o := analysis.Describe(ds.Records(), opts.country)

			w := cmd.OutOrStdout()
			bold := color.New(color.Bold)
			_, _ = fmt.Fprintf(w, "%s\n", bold.Sprintf("%s political violence", o.Country))
			if o.Records == 0 {
				_, _ = fmt.Fprintln(w, "The dataset contains no records.")
				return nil
			}
			_, _ = fmt.Fprintf(w, "%s %d (%s to %s)\n", bold.Sprint("Months:"), o.Records, o.FirstMonth, o.LastMonth)
			_, _ = fmt.Fprintf(w, "%s %d\n", bold.Sprint("Events:"), o.TotalEvents)
			_, _ = fmt.Fprintf(w, "%s %d\n", bold.Sprint("Fatalities:"), o.TotalFatalities)
			_, _ = fmt.Fprintf(w, "%s %d\n", bold.Sprint("Fatal months:"), o.FatalMonths)
			if o.PeakEvents != nil {
				_, _ = fmt.Fprintf(w, "%s %d in %s\n", bold.Sprint("Peak events:"), o.PeakEvents.Value, o.PeakEvents.MonthYear)
			}
			if o.PeakFatalities != nil {
				_, _ = fmt.Fprintf(w, "%s %d in %s\n", bold.Sprint("Peak fatalities:"), o.PeakFatalities.Value, o.PeakFatalities.MonthYear)
			}
			return nil
		},
	}
}

func newQuarterlyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "quarterly",
		Short: "Sum and mean of events and fatalities per year and quarter",
		Args:  positional(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, view, err := opts.filteredView(cmd)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			bold := color.New(color.Bold)
			_, _ = fmt.Fprintln(tw, bold.Sprint("YEAR")+"\t"+bold.Sprint("QUARTER")+"\t"+bold.Sprint("EVENTS")+"\t"+
				bold.Sprint("AVG EVENTS")+"\t"+bold.Sprint("FATALITIES")+"\t"+bold.Sprint("AVG FATALITIES"))
			for _, row := range analysis.QuarterlyBreakdown(view) {
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%d\t%.1f\t%d\t%.1f\n",
					row.Year, row.Quarter, row.TotalEvents, row.AvgEvents, row.TotalFatalities, row.AvgFatalities)
			}
			return tw.Flush()
		},
	}
}

func newAlertsCmd(opts *rootOptions) *cobra.Command {
	thresholds := analysis.DefaultThresholds

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "List months whose events or fatalities exceed a threshold",
		Args:  positional(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			params := analysis.DefaultParams()
			params.Thresholds = thresholds
			if err := validateParams(params); err != nil {
				return err
			}
			_, view, err := opts.filteredView(cmd)
			if err != nil {
				return err
			}

			alerts := analysis.DetectAlerts(view, thresholds)
			w := cmd.OutOrStdout()
			if len(alerts) == 0 {
				_, _ = fmt.Fprintf(w, "No month exceeds %d events or %d fatalities.\n", thresholds.Events, thresholds.Fatalities)
				return nil
			}

			red := color.New(color.FgRed, color.Bold)
			highlight := func(v int, exceeded bool) string {
				if exceeded {
					return red.Sprint(strconv.Itoa(v))
				}
				return strconv.Itoa(v)
			}

			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "MONTH\tEVENTS\tFATALITIES")
			for _, a := range alerts {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", a.MonthYear, highlight(a.Events, a.EventsExceeded), highlight(a.Fatalities, a.FatalitiesExceeded))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&thresholds.Events, "events-threshold", thresholds.Events, "Alert when events exceed this value")
	cmd.Flags().IntVar(&thresholds.Fatalities, "fatalities-threshold", thresholds.Fatalities, "Alert when fatalities exceed this value")
	return cmd
}

func newTopCmd(opts *rootOptions) *cobra.Command {
	var metricName string
	var n int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the months with the most events or fatalities",
		Args:  positional(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			metric, err := record.ParseMetric(metricName)
			if err != nil {
				return errors.InvalidInput(err.Error())
			}
			_, view, err := opts.filteredView(cmd)
			if err != nil {
				return err
			}
			top, err := analysis.TopN(view, metric, n)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "RANK\tMONTH\tEVENTS\tFATALITIES")
			for i, r := range top {
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", i+1, r.MonthYear, r.Events, r.Fatalities)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&metricName, "metric", string(record.MetricEvents), "Metric to rank by: events or fatalities")
	cmd.Flags().IntVar(&n, "n", 5, "Number of months to show")
	return cmd
}

func newPanelCmd(opts *rootOptions) *cobra.Command {
	params := analysis.DefaultParams()

	cmd := &cobra.Command{
		Use:       "panel NAME",
		Short:     "Print one dashboard panel as JSON",
		Args:      positional(cobra.ExactArgs(1)),
		ValidArgs: analysis.PanelNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateParams(params); err != nil {
				return err
			}
			_, view, err := opts.filteredView(cmd)
			if err != nil {
				return err
			}

			panel, err := analysis.NewBuilder(params, internal.Discard).Panel(args[0], view)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(panel)
		},
	}

	cmd.Flags().IntVar(&params.TopN, "top-n", params.TopN, "Records in the top panels")
	cmd.Flags().IntVar(&params.Thresholds.Events, "events-threshold", params.Thresholds.Events, "Alert threshold for events")
	cmd.Flags().IntVar(&params.Thresholds.Fatalities, "fatalities-threshold", params.Thresholds.Fatalities, "Alert threshold for fatalities")
	cmd.Flags().Float64Var(&params.Lowess.Fraction, "lowess-fraction", params.Lowess.Fraction, "Share of points in each LOWESS fit")
	return cmd
}
