package analysis

import (
	"testing"

	"conflictdash/domain/record"
	"conflictdash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hierarchyView() []record.Record {
	return []record.Record{
		month(2020, "April", 6, 2, "Low", "Low"),
		month(2020, "February", 10, 4, "Medium", "Medium"),
		month(2020, "January", 0, 0, "None", "None"),
	}
}

func TestHierarchyRollup(t *testing.T) {
	rows, err := HierarchyRollup(hierarchyView(), 0.01)

	require.NoError(t, err)
	assert.Equal(t, []HierarchyRow{
		{Year: 2020, Quarter: "Q1", Month: "January", TotalEvents: 0.01, AvgFatalities: 0},
		{Year: 2020, Quarter: "Q1", Month: "February", TotalEvents: 10, AvgFatalities: 4},
		{Year: 2020, Quarter: "Q2", Month: "April", TotalEvents: 6, AvgFatalities: 2},
	}, rows)
}

func TestHierarchyRollupEpsilon(t *testing.T) {
	tests := []struct {
		name    string
		epsilon float64
		want    float64
	}{
		{"explicit", 0.5, 0.5},
		{"zero uses default", 0, DefaultHierarchyEpsilon},
		{"negative uses default", -1, DefaultHierarchyEpsilon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := HierarchyRollup([]record.Record{month(2021, "May", 0, 0, "None", "None")}, tt.epsilon)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.InDelta(t, tt.want, rows[0].TotalEvents, 1e-12)
		})
	}
}

func TestHierarchyRollupEmpty(t *testing.T) {
	rows, err := HierarchyRollup(nil, 0.01)

	assert.Nil(t, rows)
	assert.True(t, errors.HasCode(err, errors.CodeEmptyResult))
}

func TestHierarchyTree(t *testing.T) {
	rows, err := HierarchyRollup(hierarchyView(), 0.01)
	require.NoError(t, err)

	nodes := HierarchyTree(rows)

	ids := make([]string, len(nodes))
	byID := map[string]TreemapNode{}
	for i, n := range nodes {
		ids[i] = n.ID
		byID[n.ID] = n
	}
	assert.Equal(t, []string{
		"2020", "2020/Q1", "2020/Q1/January", "2020/Q1/February", "2020/Q2", "2020/Q2/April",
	}, ids)

	assert.Equal(t, "", byID["2020"].Parent)
	assert.Equal(t, "2020", byID["2020/Q1"].Parent)
	assert.Equal(t, "2020/Q1", byID["2020/Q1/February"].Parent)
	assert.Equal(t, "February", byID["2020/Q1/February"].Label)

	assert.InDelta(t, 16.01, byID["2020"].Value, 1e-9)
	assert.InDelta(t, 10.01, byID["2020/Q1"].Value, 1e-9)
	assert.InDelta(t, 40.0/10.01, byID["2020/Q1"].Color, 1e-9)
	assert.InDelta(t, 2.0, byID["2020/Q2/April"].Color, 1e-9)
	assert.InDelta(t, 52.0/16.01, byID["2020"].Color, 1e-9)
}
