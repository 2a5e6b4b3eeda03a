package analysis

import (
	"encoding/json"
	"testing"

	"conflictdash/domain/record"
	"conflictdash/internal"
	"conflictdash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder() *Builder {
	return NewBuilder(DefaultParams(), internal.Discard)
}

func TestBuildEmptyViewIsAllNoData(t *testing.T) {
	d := newTestBuilder().Build([]record.Record{})

	assert.Zero(t, d.Records)
	flags := map[string]bool{
		PanelSummary:              d.Summary.NoData,
		PanelKPIs:                 d.KPIs.NoData,
		PanelTimeSeries:           d.TimeSeries.NoData,
		PanelEventsByCategory:     d.EventsByCategory.NoData,
		PanelFatalitiesByCategory: d.FatalitiesByCategory.NoData,
		PanelEventsByYear:         d.EventsByYear.NoData,
		PanelQuarterly:            d.Quarterly.NoData,
		PanelHeatmap:              d.Heatmap.NoData,
		PanelFatalSplit:           d.FatalSplit.NoData,
		PanelAverageByMonth:       d.AverageByMonth.NoData,
		PanelTopEvents:            d.TopEvents.NoData,
		PanelTopFatalities:        d.TopFatalities.NoData,
		PanelCorrelation:          d.Correlation.NoData,
		PanelRiskMatrix:           d.RiskMatrix.NoData,
		PanelAlerts:               d.Alerts.NoData,
		PanelHierarchy:            d.Hierarchy.NoData,
	}
	require.Len(t, flags, len(PanelNames))
	for name, noData := range flags {
		assert.True(t, noData, name)
	}
	assert.Equal(t, noDataMessage, d.Hierarchy.Message)
}

func TestBuildPopulatedView(t *testing.T) {
	d := newTestBuilder().Build(sampleView())

	assert.Equal(t, 5, d.Records)
	assert.False(t, d.Summary.NoData)
	assert.False(t, d.KPIs.NoData)
	assert.Equal(t, 108, d.KPIs.Data.TotalEvents)
	assert.Equal(t, 1, d.KPIs.Data.AlertMonths)
	require.NotNil(t, d.KPIs.Data.AvgEvents)
	assert.InDelta(t, 21.6, *d.KPIs.Data.AvgEvents, 1e-9)

	assert.Len(t, d.Quarterly.Data, 4)
	assert.Len(t, d.TopEvents.Data, 5)
	assert.Equal(t, 41, d.TopEvents.Data[0].Events)
	assert.Equal(t, 12, d.TopFatalities.Data[0].Fatalities)
	assert.False(t, d.Hierarchy.NoData)
	assert.NotEmpty(t, d.Hierarchy.Data.Nodes)
	assert.Len(t, d.Alerts.Data, 1)
	assert.Empty(t, d.Alerts.Message)
}

func TestBuildUsesParams(t *testing.T) {
	params := DefaultParams()
	params.TopN = 2
	params.Thresholds = Thresholds{Events: 0, Fatalities: 0}

	d := newTestBuilder().WithParams(params).Build(sampleView())

	assert.Len(t, d.TopEvents.Data, 2)
	assert.Len(t, d.Alerts.Data, 5)
	assert.Equal(t, params, d.Params)
}

func TestBuildZeroTopNIsNoData(t *testing.T) {
	params := DefaultParams()
	params.TopN = 0

	d := NewBuilder(params, internal.Discard).Build(sampleView())

	assert.True(t, d.TopEvents.NoData)
	assert.False(t, d.Quarterly.NoData)
}

func TestPanelByName(t *testing.T) {
	b := newTestBuilder()

	for _, name := range PanelNames {
		p, err := b.Panel(name, sampleView())
		require.NoError(t, err, name)
		assert.NotNil(t, p, name)
	}

	p, err := b.Panel(PanelQuarterly, sampleView())
	require.NoError(t, err)
	quarterly, ok := p.(Panel[[]QuarterRow])
	require.True(t, ok)
	assert.Len(t, quarterly.Data, 4)

	_, err = b.Panel("pie", sampleView())
	assert.True(t, errors.HasCode(err, errors.CodeNotFound))
}

func TestComputeRecoversPanic(t *testing.T) {
	b := newTestBuilder()

	p := compute(b, "broken", func() ([]int, error) {
		panic("index out of range")
	})

	assert.True(t, p.NoData)
	assert.Equal(t, noDataMessage, p.Message)
}

func TestComputeErrorIsNoData(t *testing.T) {
	p := compute(newTestBuilder(), "failing", func() (int, error) {
		return 0, errors.InternalError("boom")
	})

	assert.True(t, p.NoData)
}

func TestPanelJSONShape(t *testing.T) {
	raw, err := json.Marshal(Panel[[]int]{NoData: true, Message: noDataMessage, Data: []int{}})
	require.NoError(t, err)

	assert.JSONEq(t, `{"no_data":true,"message":"No data to display for the current filters","data":[]}`, string(raw))

	_, err = json.Marshal(newTestBuilder().Build(nil))
	require.NoError(t, err, "an empty dashboard must still encode")
}
