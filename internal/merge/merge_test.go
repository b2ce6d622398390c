package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeLeftJoinOntoGrid(t *testing.T) {
	grid, err := BuildGrid(date(2020, 1, 1), date(2020, 1, 3), Daily)
	require.NoError(t, err)

	prices := &AggregatedSource{
		Name:    "gas_prices",
		Columns: []string{"price"},
		Slots:   []time.Time{date(2020, 1, 1), date(2020, 1, 3)},
		Values: map[time.Time]map[string]float64{
			date(2020, 1, 1): {"price": 5},
			date(2020, 1, 3): {"price": 7},
		},
	}

	f, err := Merge(grid, Daily, []SourceInput{{Agg: prices}})
	require.NoError(t, err)

	require.Equal(t, 3, f.Len())
	assert.Equal(t, grid, f.Timestamps)
	assert.Equal(t, 5.0, f.Data["price"][0])
	assert.True(t, f.IsNull("price", 1), "slot without a source row stays null")
	assert.Equal(t, 7.0, f.Data["price"][2])
}

func TestMergeIgnoresSlotsOutsideGrid(t *testing.T) {
	grid, err := BuildGrid(date(2020, 1, 1), date(2020, 1, 2), Daily)
	require.NoError(t, err)

	src := &AggregatedSource{
		Name:    "gas",
		Columns: []string{"v"},
		Slots:   []time.Time{date(2019, 12, 31), date(2020, 1, 1)},
		Values: map[time.Time]map[string]float64{
			date(2019, 12, 31): {"v": 1},
			date(2020, 1, 1):   {"v": 2},
		},
	}

	f, err := Merge(grid, Daily, []SourceInput{{Agg: src}})
	require.NoError(t, err)
	// No source may introduce a row outside the grid.
	require.Equal(t, 2, f.Len())
	assert.Equal(t, 2.0, f.Data["v"][0])
}

func TestMergeAppliesRenames(t *testing.T) {
	grid, err := BuildGrid(date(2020, 1, 1), date(2020, 1, 1), Daily)
	require.NoError(t, err)

	src := &AggregatedSource{
		Name:    "gas",
		Columns: []string{"UK_imports_MWh_hour"},
		Slots:   []time.Time{date(2020, 1, 1)},
		Values:  map[time.Time]map[string]float64{date(2020, 1, 1): {"UK_imports_MWh_hour": 42}},
	}

	f, err := Merge(grid, Daily, []SourceInput{{
		Agg:    src,
		Rename: map[string]string{"UK_imports_MWh_hour": "gas_imports_MWh_daily"},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"gas_imports_MWh_daily"}, f.Columns)
	assert.Equal(t, 42.0, f.Data["gas_imports_MWh_daily"][0])
}

func TestMergeRejectsColumnCollision(t *testing.T) {
	grid, err := BuildGrid(date(2020, 1, 1), date(2020, 1, 1), Daily)
	require.NoError(t, err)

	a := &AggregatedSource{Name: "a", Columns: []string{"temp"}}
	b := &AggregatedSource{Name: "b", Columns: []string{"temp"}}

	_, err = Merge(grid, Daily, []SourceInput{{Agg: a}, {Agg: b}})
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "temp", schemaErr.Column)
}

func TestMergeColumnOrderFollowsSourceOrder(t *testing.T) {
	grid, err := BuildGrid(date(2020, 1, 1), date(2020, 1, 1), Daily)
	require.NoError(t, err)

	a := &AggregatedSource{Name: "a", Columns: []string{"a1", "a2"}}
	b := &AggregatedSource{Name: "b", Columns: []string{"b1"}}

	f, err := Merge(grid, Daily, []SourceInput{{Agg: a}, {Agg: b}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2", "b1"}, f.Columns)
}
