package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gridmerge/internal/merge"
	"gridmerge/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fullSpec wires every stage: duplicate rows for the mean reducer, a period
// derived source, forward fill and linear interpolation.
func fullSpec(t *testing.T, dir, exportPath string) model.MergeJobSpec {
	t.Helper()
	prices := writeCSV(t, dir, "prices.csv",
		"date,price\n2024-01-01,40\n2024-01-01,44\n2024-01-03,10\n2024-01-05,20\n")
	volumes := writeCSV(t, dir, "volumes.csv",
		"settlement_date,settlement_period,volume\n2024-01-02,1,100\n2024-01-02,2,50\n")
	caps := writeCSV(t, dir, "caps.csv",
		"date,cap\n2024-01-01,1\n2024-01-05,5\n")

	return model.MergeJobSpec{
		StartDate:   "2024-01-01",
		EndDate:     "2024-01-05",
		Granularity: "daily",
		Sources: []model.SourceSpec{
			{
				Name:        "prices",
				Paths:       []string{prices},
				Timestamp:   model.TimestampSpec{Kind: "direct", Column: "date"},
				Aggregation: map[string]model.AggregationRule{"price": {Reducer: "mean"}},
			},
			{
				Name:  "volumes",
				Paths: []string{volumes},
				Timestamp: model.TimestampSpec{
					Kind:         "period",
					DateColumn:   "settlement_date",
					PeriodColumn: "settlement_period",
				},
				Aggregation: map[string]model.AggregationRule{"volume": {Reducer: "sum"}},
			},
			{
				Name:        "caps",
				Paths:       []string{caps},
				Timestamp:   model.TimestampSpec{Kind: "direct", Column: "date"},
				Aggregation: map[string]model.AggregationRule{"cap": {Reducer: "first"}},
			},
		},
		GapFill:       []string{"price"},
		Interpolation: &model.InterpolationSpec{Columns: []string{"cap"}, Method: "nearest"},
		Export:        &model.ExportSpec{File: exportPath},
	}
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "merged.csv")
	spec := fullSpec(t, dir, out)

	result, err := Run(context.Background(), "job-e2e", spec)
	require.NoError(t, err)

	assert.Equal(t, 5, result.Rows)
	assert.Equal(t, []string{"price", "volume", "cap"}, result.Columns)
	assert.Equal(t, 2, result.GapFilled)    // 2024-01-02 and 2024-01-04
	assert.Equal(t, 3, result.Interpolated) // cap on the three interior days

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	// Nearest anchor wins for cap, ties going left, so the midpoint day takes
	// the 2024-01-01 value.
	expected := "timestamp,price,volume,cap\n" +
		"2024-01-01,42,,1\n" +
		"2024-01-02,42,150,1\n" +
		"2024-01-03,10,,1\n" +
		"2024-01-04,10,,5\n" +
		"2024-01-05,20,,5\n"
	assert.Equal(t, expected, string(data))
}

func TestRunIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")

	specA := fullSpec(t, dir, first)
	_, err := Run(context.Background(), "job-a", specA)
	require.NoError(t, err)

	specA.Export.File = second
	_, err = Run(context.Background(), "job-b", specA)
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRunFailsOnMissingSourceFile(t *testing.T) {
	dir := t.TempDir()
	spec := fullSpec(t, dir, filepath.Join(dir, "merged.csv"))
	spec.Sources[0].Paths = []string{filepath.Join(dir, "missing.csv")}

	_, err := Run(context.Background(), "job-missing", spec)
	require.Error(t, err)

	var loadErr *merge.LoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestRunRejectsColumnCollision(t *testing.T) {
	dir := t.TempDir()
	spec := fullSpec(t, dir, filepath.Join(dir, "merged.csv"))
	spec.Sources[2].Aggregation = map[string]model.AggregationRule{"price": {Reducer: "first"}}
	spec.Interpolation = nil

	_, err := Run(context.Background(), "job-collision", spec)
	require.Error(t, err)

	var schemaErr *merge.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "price", schemaErr.Column)
}

func TestRunUnknownGapFillColumn(t *testing.T) {
	dir := t.TempDir()
	spec := fullSpec(t, dir, filepath.Join(dir, "merged.csv"))
	spec.GapFill = []string{"imbalance"}

	_, err := Run(context.Background(), "job-badfill", spec)
	require.Error(t, err)

	var schemaErr *merge.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "imbalance", schemaErr.Column)
}
