package analysis

import (
	"reflect"

	"conflictdash/domain/record"
	"conflictdash/internal"
	"conflictdash/internal/errors"
)

// Panel names accepted by Builder.Panel
const (
	PanelSummary              = "summary"
	PanelKPIs                 = "kpis"
	PanelTimeSeries           = "time_series"
	PanelEventsByCategory     = "events_by_category"
	PanelFatalitiesByCategory = "fatalities_by_category"
	PanelEventsByYear         = "events_by_year"
	PanelQuarterly            = "quarterly"
	PanelHeatmap              = "heatmap"
	PanelFatalSplit           = "fatal_split"
	PanelAverageByMonth       = "average_by_month"
	PanelTopEvents            = "top_events"
	PanelTopFatalities        = "top_fatalities"
	PanelCorrelation          = "correlation"
	PanelRiskMatrix           = "risk_matrix"
	PanelAlerts               = "alerts"
	PanelHierarchy            = "hierarchy"
)

// PanelNames lists every panel in page order
var PanelNames = []string{
	PanelSummary, PanelKPIs, PanelTimeSeries, PanelEventsByCategory, PanelFatalitiesByCategory,
	PanelEventsByYear, PanelQuarterly, PanelHeatmap, PanelFatalSplit, PanelAverageByMonth,
	PanelTopEvents, PanelTopFatalities, PanelCorrelation, PanelRiskMatrix, PanelAlerts, PanelHierarchy,
}

const noDataMessage = "No data to display for the current filters"

// Panel is one aggregation result, or a neutral no-data signal
type Panel[T any] struct {
	NoData  bool   `json:"no_data"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// KPIs are the headline numbers above the charts
type KPIs struct {
	Records         int      `json:"records"`
	TotalEvents     int      `json:"total_events"`
	TotalFatalities int      `json:"total_fatalities"`
	FatalMonths     int      `json:"fatal_months"`
	AlertMonths     int      `json:"alert_months"`
	AvgEvents       *float64 `json:"avg_events"`
	AvgFatalities   *float64 `json:"avg_fatalities"`
}

func (k KPIs) Empty() bool { return k.Records == 0 }

// Dashboard is every panel for one filtered view
type Dashboard struct {
	Params               Params                 `json:"params"`
	Records              int                    `json:"records"`
	Summary              Panel[Summary]         `json:"summary"`
	KPIs                 Panel[KPIs]            `json:"kpis"`
	TimeSeries           Panel[[]SeriesPoint]   `json:"time_series"`
	EventsByCategory     Panel[[]CategoryTotal] `json:"events_by_category"`
	FatalitiesByCategory Panel[[]CategoryTotal] `json:"fatalities_by_category"`
	EventsByYear         Panel[[]CategoryTotal] `json:"events_by_year"`
	Quarterly            Panel[[]QuarterRow]    `json:"quarterly"`
	Heatmap              Panel[Heatmap]         `json:"heatmap"`
	FatalSplit           Panel[FatalCounts]     `json:"fatal_split"`
	AverageByMonth       Panel[[]MonthAverage]  `json:"average_by_month"`
	TopEvents            Panel[[]record.Record] `json:"top_events"`
	TopFatalities        Panel[[]record.Record] `json:"top_fatalities"`
	Correlation          Panel[CorrelationView] `json:"correlation"`
	RiskMatrix           Panel[[]RiskCell]      `json:"risk_matrix"`
	Alerts               Panel[[]Alert]         `json:"alerts"`
	Hierarchy            Panel[Hierarchy]       `json:"hierarchy"`
}

// Params are the non-filter controls
type Params struct {
	Thresholds       Thresholds    `json:"thresholds"`
	TopN             int           `json:"top_n"`
	Lowess           LowessOptions `json:"lowess"`
	HierarchyEpsilon float64       `json:"hierarchy_epsilon"`
}

// DefaultParams are the controls' opening values
func DefaultParams() Params {
	return Params{
		Thresholds:       DefaultThresholds,
		TopN:             5,
		Lowess:           DefaultLowessOptions,
		HierarchyEpsilon: DefaultHierarchyEpsilon,
	}
}

// Builder computes panels with a fixed set of parameters
type Builder struct {
	params Params
	logger *internal.Logger
}

func NewBuilder(params Params, logger *internal.Logger) *Builder {
	return &Builder{params: params, logger: logger}
}

// WithParams returns a builder sharing the logger but using other parameters
func (b *Builder) WithParams(params Params) *Builder {
	return &Builder{params: params, logger: b.logger}
}

func (b *Builder) Params() Params {
	return b.params
}

// Build computes every panel. A failing panel degrades to NoData without affecting the others.
func (b *Builder) Build(view []record.Record) Dashboard {
	return Dashboard{
		Params:               b.params,
		Records:              len(view),
		Summary:              b.summary(view),
		KPIs:                 b.kpis(view),
		TimeSeries:           b.timeSeries(view),
		EventsByCategory:     b.eventsByCategory(view),
		FatalitiesByCategory: b.fatalitiesByCategory(view),
		EventsByYear:         b.eventsByYear(view),
		Quarterly:            b.quarterly(view),
		Heatmap:              b.heatmap(view),
		FatalSplit:           b.fatalSplit(view),
		AverageByMonth:       b.averageByMonth(view),
		TopEvents:            b.top(PanelTopEvents, view, record.MetricEvents),
		TopFatalities:        b.top(PanelTopFatalities, view, record.MetricFatalities),
		Correlation:          b.correlation(view),
		RiskMatrix:           b.riskMatrix(view),
		Alerts:               b.alerts(view),
		Hierarchy:            b.hierarchy(view),
	}
}

// Panel computes a single named panel
func (b *Builder) Panel(name string, view []record.Record) (interface{}, error) {
	switch name {
	case PanelSummary:
		return b.summary(view), nil
	case PanelKPIs:
		return b.kpis(view), nil
	case PanelTimeSeries:
		return b.timeSeries(view), nil
	case PanelEventsByCategory:
		return b.eventsByCategory(view), nil
	case PanelFatalitiesByCategory:
		return b.fatalitiesByCategory(view), nil
	case PanelEventsByYear:
		return b.eventsByYear(view), nil
	case PanelQuarterly:
		return b.quarterly(view), nil
	case PanelHeatmap:
		return b.heatmap(view), nil
	case PanelFatalSplit:
		return b.fatalSplit(view), nil
	case PanelAverageByMonth:
		return b.averageByMonth(view), nil
	case PanelTopEvents:
		return b.top(name, view, record.MetricEvents), nil
	case PanelTopFatalities:
		return b.top(name, view, record.MetricFatalities), nil
	case PanelCorrelation:
		return b.correlation(view), nil
	case PanelRiskMatrix:
		return b.riskMatrix(view), nil
	case PanelAlerts:
		return b.alerts(view), nil
	case PanelHierarchy:
		return b.hierarchy(view), nil
	}
	return nil, errors.NotFound("panel " + name)
}

func (b *Builder) summary(view []record.Record) Panel[Summary] {
	return compute(b, PanelSummary, func() (Summary, error) { return SummaryStats(view), nil })
}

func (b *Builder) kpis(view []record.Record) Panel[KPIs] {
	return compute(b, PanelKPIs, func() (KPIs, error) {
		k := KPIs{Records: len(view), AlertMonths: len(DetectAlerts(view, b.params.Thresholds))}
		for _, r := range view {
			k.TotalEvents += r.Events
			k.TotalFatalities += r.Fatalities
			if r.IsFatal {
				k.FatalMonths++
			}
		}
		if k.Records > 0 {
			avgEvents := float64(k.TotalEvents) / float64(k.Records)
			avgFatalities := float64(k.TotalFatalities) / float64(k.Records)
			k.AvgEvents, k.AvgFatalities = &avgEvents, &avgFatalities
		}
		return k, nil
	})
}

func (b *Builder) timeSeries(view []record.Record) Panel[[]SeriesPoint] {
	return compute(b, PanelTimeSeries, func() ([]SeriesPoint, error) { return TimeSeries(view), nil })
}

func (b *Builder) eventsByCategory(view []record.Record) Panel[[]CategoryTotal] {
	return compute(b, PanelEventsByCategory, func() ([]CategoryTotal, error) {
		return CategoryTotals(view, record.ColumnEventsCategory, record.MetricEvents)
	})
}

func (b *Builder) fatalitiesByCategory(view []record.Record) Panel[[]CategoryTotal] {
	return compute(b, PanelFatalitiesByCategory, func() ([]CategoryTotal, error) {
		return CategoryTotals(view, record.ColumnFatalitiesCategory, record.MetricFatalities)
	})
}

func (b *Builder) eventsByYear(view []record.Record) Panel[[]CategoryTotal] {
	return compute(b, PanelEventsByYear, func() ([]CategoryTotal, error) {
		return CategoryTotals(view, record.ColumnYear, record.MetricEvents)
	})
}

func (b *Builder) quarterly(view []record.Record) Panel[[]QuarterRow] {
	return compute(b, PanelQuarterly, func() ([]QuarterRow, error) { return QuarterlyBreakdown(view), nil })
}

func (b *Builder) heatmap(view []record.Record) Panel[Heatmap] {
	return compute(b, PanelHeatmap, func() (Heatmap, error) { return MonthlyHeatmap(view), nil })
}

func (b *Builder) fatalSplit(view []record.Record) Panel[FatalCounts] {
	return compute(b, PanelFatalSplit, func() (FatalCounts, error) { return FatalSplit(view), nil })
}

func (b *Builder) averageByMonth(view []record.Record) Panel[[]MonthAverage] {
	return compute(b, PanelAverageByMonth, func() ([]MonthAverage, error) { return AverageByMonth(view), nil })
}

func (b *Builder) top(name string, view []record.Record, metric record.Metric) Panel[[]record.Record] {
	return compute(b, name, func() ([]record.Record, error) { return TopN(view, metric, b.params.TopN) })
}

func (b *Builder) correlation(view []record.Record) Panel[CorrelationView] {
	return compute(b, PanelCorrelation, func() (CorrelationView, error) { return Correlation(view, b.params.Lowess), nil })
}

func (b *Builder) riskMatrix(view []record.Record) Panel[[]RiskCell] {
	return compute(b, PanelRiskMatrix, func() ([]RiskCell, error) { return RiskMatrix(view), nil })
}

func (b *Builder) alerts(view []record.Record) Panel[[]Alert] {
	return compute(b, PanelAlerts, func() ([]Alert, error) { return DetectAlerts(view, b.params.Thresholds), nil })
}

func (b *Builder) hierarchy(view []record.Record) Panel[Hierarchy] {
	return compute(b, PanelHierarchy, func() (Hierarchy, error) {
		rows, err := HierarchyRollup(view, b.params.HierarchyEpsilon)
		if err != nil {
			return Hierarchy{}, err
		}
		return Hierarchy{Rows: rows, Nodes: HierarchyTree(rows)}, nil
	})
}

// emptier is implemented by non-slice results that know when they hold nothing
type emptier interface {
	Empty() bool
}

// compute runs one aggregation inside its own recovery boundary
func compute[T any](b *Builder, name string, fn func() (T, error)) (p Panel[T]) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("[Dashboard] Panel %s panicked: %v", name, r)
			p = Panel[T]{NoData: true, Message: noDataMessage}
		}
	}()

	data, err := fn()
	if err != nil {
		if !errors.HasCode(err, errors.CodeEmptyResult) {
			b.logger.Warn("[Dashboard] Panel %s failed: %v", name, err)
		}
		return Panel[T]{NoData: true, Message: noDataMessage, Data: data}
	}
	if isEmpty(data) {
		return Panel[T]{NoData: true, Message: noDataMessage, Data: data}
	}
	return Panel[T]{Data: data}
}

func isEmpty(v interface{}) bool {
	if e, ok := v.(emptier); ok {
		return e.Empty()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Invalid:
		return true
	}
	return false
}
