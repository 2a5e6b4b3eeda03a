package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"conflictdash/domain/record"
	"conflictdash/internal"
	"conflictdash/internal/analysis"
	"conflictdash/internal/config"
	"conflictdash/internal/dataset"
	"conflictdash/internal/errors"
	"conflictdash/internal/filter"
	"conflictdash/ui/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func rec(year int, month string, events, fatalities int, eventsCat, fatalCat string) record.Record {
	m, _ := record.ParseMonth(month)
	return record.Record{
		Year:               year,
		Month:              record.Months[m-1],
		Quarter:            record.QuarterOf(m),
		Events:             events,
		Fatalities:         fatalities,
		EventsCategory:     eventsCat,
		FatalitiesCategory: fatalCat,
		IsFatal:            fatalities > 0,
		Date:               record.FirstOfMonth(year, m),
		MonthYear:          record.MonthYearLabel(year, m),
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Data: config.DataConfig{File: "fixture.csv", CountryName: "Sri Lanka"},
		Dashboard: config.DashboardConfig{
			EventsThreshold:     30,
			FatalitiesThreshold: 10,
			TopN:                5,
			LowessFraction:      0.6667,
			HierarchyEpsilon:    0.01,
		},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := dataset.NewStoreFunc(func() (*dataset.Dataset, error) {
		return dataset.New([]record.Record{
			rec(2020, "January", 20, 10, "Medium", "High"),
			rec(2020, "February", 30, 7, "High", "Medium"),
			rec(2020, "July", 12, 0, "Low", "None"),
			rec(2021, "January", 5, 1, "Low", "Low"),
			rec(2021, "October", 41, 12, "High", "High"),
		}), nil
	})
	s, err := NewServer(store, testConfig(), internal.Discard)
	require.NoError(t, err)
	return s
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	s.Handler().ServeHTTP(w, req)
	return w
}

type dashboardResponse struct {
	Selection filter.Selection   `json:"selection"`
	Dashboard analysis.Dashboard `json:"dashboard"`
}

func getDashboard(t *testing.T, s *Server, query string) dashboardResponse {
	t.Helper()
	w := get(t, s, "/api/dashboard"+query)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body dashboardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	w := get(t, newTestServer(t), "/healthz")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","records":5}`, w.Body.String())
	assert.Len(t, w.Header().Get(middleware.RequestIDHeader), 36)
}

func TestRequestIDIsPropagated(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(middleware.RequestIDHeader, "trace-123")

	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, "trace-123", w.Header().Get(middleware.RequestIDHeader))
}

func TestPageSelector(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		target string
		status int
		want   string
	}{
		{"/", http.StatusOK, "About this dashboard"},
		{"/?page=about", http.StatusOK, "Dataset at a glance"},
		{"/?page=dashboard", http.StatusOK, "Quarterly breakdown"},
		{"/about", http.StatusOK, "January 2020 to October 2021"},
		{"/dashboard?quarters=Q4", http.StatusOK, "41 events"},
		{"/?page=settings", http.StatusNotFound, "NOT_FOUND"},
		{"/dashboard?year_min=2022&year_max=2020", http.StatusBadRequest, "INVALID_FILTER_RANGE"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := get(t, s, tt.target)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestDashboardDefaultsSelectEverything(t *testing.T) {
	body := getDashboard(t, newTestServer(t), "")

	assert.Equal(t, 5, body.Dashboard.Records)
	assert.Equal(t, []int{2020, 2021}, body.Selection.Years)
	assert.False(t, body.Dashboard.Quarterly.NoData)
	assert.Len(t, body.Dashboard.Quarterly.Data, 4)
	assert.Len(t, body.Dashboard.Alerts.Data, 1)
	assert.Equal(t, 30, body.Dashboard.Params.Thresholds.Events)
}

func TestDashboardFilters(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		query   string
		records int
	}{
		{"single quarter", "?quarters=Q1", 3},
		{"comma separated", "?years=2020,2021&quarters=Q3", 1},
		{"repeated", "?event_categories=High&event_categories=Low", 4},
		{"year range", "?year_min=2021", 2},
		{"range clamped", "?year_min=1990&year_max=2100", 5},
		{"unknown category", "?fatality_categories=Extreme", 0},
		{"present but empty", "?years=", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := getDashboard(t, s, tt.query)
			assert.Equal(t, tt.records, body.Dashboard.Records)
		})
	}
}

func TestDashboardEchoesWellFormedRangeOutsideData(t *testing.T) {
	body := getDashboard(t, newTestServer(t), "?year_min=2030&year_max=2040")

	assert.Zero(t, body.Dashboard.Records)
	assert.Equal(t, 2021, body.Selection.YearMin)
	assert.Equal(t, 2021, body.Selection.YearMax)
	assert.Empty(t, body.Selection.Years)
}

func TestDashboardEmptySelectionIsNoData(t *testing.T) {
	body := getDashboard(t, newTestServer(t), "?quarters=")

	d := body.Dashboard
	assert.Zero(t, d.Records)
	assert.True(t, d.Summary.NoData)
	assert.True(t, d.Quarterly.NoData)
	assert.True(t, d.Heatmap.NoData)
	assert.True(t, d.Correlation.NoData)
	assert.True(t, d.Hierarchy.NoData)
	assert.NotEmpty(t, d.Hierarchy.Message)
}

func TestDashboardParams(t *testing.T) {
	body := getDashboard(t, newTestServer(t), "?events_threshold=10&top_n=2")

	assert.Len(t, body.Dashboard.Alerts.Data, 4)
	assert.Len(t, body.Dashboard.TopEvents.Data, 2)
	assert.Equal(t, 10, body.Dashboard.Params.Thresholds.Events)
	assert.Equal(t, 10, body.Dashboard.Params.Thresholds.Fatalities)
}

func TestDashboardRejectsBadInput(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		query string
		code  string
	}{
		{"?year_min=2021&year_max=2020", errors.CodeInvalidFilterRange},
		{"?top_n=abc", errors.CodeInvalidInput},
		{"?events_threshold=-1", errors.CodeInvalidInput},
		{"?years=twenty", errors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := get(t, s, "/api/dashboard"+tt.query)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body["code"])
			assert.NotEmpty(t, body["request_id"])
		})
	}
}

func TestPanelEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, "/api/panels/quarterly?years=2021")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Name    string                                `json:"name"`
		Records int                                   `json:"records"`
		Panel   analysis.Panel[[]analysis.QuarterRow] `json:"panel"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "quarterly", body.Name)
	assert.Equal(t, 2, body.Records)
	assert.Len(t, body.Panel.Data, 2)

	w = get(t, s, "/api/panels/pie")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOptionsAndAbout(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, "/api/options")
	require.Equal(t, http.StatusOK, w.Code)
	var opts struct {
		Options filter.Options `json:"options"`
		Panels  []string       `json:"panels"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opts))
	assert.Equal(t, 2020, opts.Options.YearMin)
	assert.Equal(t, []string{"Q1", "Q3", "Q4"}, opts.Options.Quarters)
	assert.Equal(t, analysis.PanelNames, opts.Panels)

	w = get(t, s, "/api/about")
	require.Equal(t, http.StatusOK, w.Code)
	var overview analysis.Overview
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overview))
	assert.Equal(t, "Sri Lanka", overview.Country)
	assert.Equal(t, 108, overview.TotalEvents)
	require.NotNil(t, overview.EventsShape)
	assert.Equal(t, 5, overview.EventsShape.Count)
}

func TestUnavailableDataset(t *testing.T) {
	store := dataset.NewStoreFunc(func() (*dataset.Dataset, error) {
		return nil, errors.DataUnavailable("dataset file not found", nil)
	})
	s, err := NewServer(store, testConfig(), internal.Discard)
	require.NoError(t, err)

	assert.Equal(t, http.StatusServiceUnavailable, get(t, s, "/healthz").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, s, "/api/dashboard").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, s, "/about").Code)
}

func TestUnknownRoute(t *testing.T) {
	w := get(t, newTestServer(t), "/nowhere")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		in   string
		want Page
		ok   bool
	}{
		{"", PageAbout, true},
		{"About", PageAbout, true},
		{" dashboard ", PageDashboard, true},
		{"admin", "", false},
	}
	for _, tt := range tests {
		got, ok := ParsePage(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
