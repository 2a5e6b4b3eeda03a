package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Month
		hasError bool
	}{
		{"January", time.January, false},
		{"december", time.December, false},
		{" Sep ", time.September, false},
		{"MAR", time.March, false},
		{"Janu", 0, true},
		{"", 0, true},
	}

	for _, test := range tests {
		m, err := ParseMonth(test.input)
		if test.hasError {
			assert.Error(t, err, "input %q", test.input)
			continue
		}
		require.NoError(t, err, "input %q", test.input)
		assert.Equal(t, test.expected, m)
	}
}

func TestQuarterOf(t *testing.T) {
	assert.Equal(t, "Q1", QuarterOf(time.March))
	assert.Equal(t, "Q2", QuarterOf(time.April))
	assert.Equal(t, "Q3", QuarterOf(time.September))
	assert.Equal(t, "Q4", QuarterOf(time.December))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "February 2020", MonthYearLabel(2020, time.February))
	assert.Equal(t, time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC), FirstOfMonth(2020, time.February))
	assert.Equal(t, 4, MonthIndex("May"))
	assert.Equal(t, -1, MonthIndex("may"))
	assert.Equal(t, 2, QuarterIndex("Q3"))
}

func TestRecordAccessors(t *testing.T) {
	r := Record{Year: 2021, Month: "June", Quarter: "Q2", Events: 12, Fatalities: 3, EventsCategory: "Medium", FatalitiesCategory: "Low", IsFatal: true}

	label, err := r.Category(ColumnYear)
	require.NoError(t, err)
	assert.Equal(t, "2021", label)

	label, err = r.Category(ColumnIsFatal)
	require.NoError(t, err)
	assert.Equal(t, "Fatal", label)

	_, err = r.Category("unknown")
	assert.Error(t, err)

	v, err := r.Value(MetricFatalities)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	m, err := ParseMetric("Events")
	require.NoError(t, err)
	assert.Equal(t, MetricEvents, m)
	_, err = ParseMetric("deaths")
	assert.Error(t, err)
}
